package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "blinkpay.backend/internal/domain/errors"
	"blinkpay.backend/internal/interfaces/http/response"
	"blinkpay.backend/internal/usecases"
)

type BalanceHandler struct {
	balances *usecases.BalanceUsecase
}

func NewBalanceHandler(balances *usecases.BalanceUsecase) *BalanceHandler {
	return &BalanceHandler{balances: balances}
}

// List returns the wallet's balance of every registered token on a network
// GET /api/v1/wallets/:address/balances?network=Sepolia
func (h *BalanceHandler) List(c *gin.Context) {
	address := c.Param("address")
	network := c.Query("network")
	if address == "" || network == "" {
		response.Error(c, domainerrors.BadRequest("wallet address and network are required"))
		return
	}

	snapshots, err := h.balances.SnapshotAll(c.Request.Context(), network, address)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"balances": snapshots})
}

// Get returns the wallet's balance of one token
// GET /api/v1/wallets/:address/balances/:symbol?network=Sepolia
func (h *BalanceHandler) Get(c *gin.Context) {
	address := c.Param("address")
	symbol := c.Param("symbol")
	network := c.Query("network")
	if address == "" || symbol == "" || network == "" {
		response.Error(c, domainerrors.BadRequest("wallet address, token symbol and network are required"))
		return
	}

	snapshot, err := h.balances.Snapshot(c.Request.Context(), network, symbol, address)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, snapshot)
}
