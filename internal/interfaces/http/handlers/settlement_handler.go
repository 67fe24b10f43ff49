package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	domainerrors "blinkpay.backend/internal/domain/errors"
	"blinkpay.backend/internal/interfaces/http/response"
	"blinkpay.backend/internal/registry"
	"blinkpay.backend/internal/usecases"
	"blinkpay.backend/pkg/utils"
)

type SettlementHandler struct {
	recorder *usecases.SettlementRecorder
	registry *registry.Registry
}

func NewSettlementHandler(recorder *usecases.SettlementRecorder, reg *registry.Registry) *SettlementHandler {
	return &SettlementHandler{recorder: recorder, registry: reg}
}

// History lists a wallet's settlement records, newest first
// GET /api/v1/wallets/:address/settlements
func (h *SettlementHandler) History(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		response.Error(c, domainerrors.BadRequest("wallet address is required"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	params := utils.GetPaginationParams(page, limit)

	records, total, err := h.recorder.History(c.Request.Context(), address, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]gin.H, 0, len(records))
	for _, record := range records {
		item := gin.H{"record": record}
		if record.TxHash.Valid {
			if url, err := h.registry.ExplorerTxURL(record.Network, record.TxHash.String); err == nil {
				item["explorerUrl"] = url
			}
		}
		items = append(items, item)
	}

	response.Success(c, http.StatusOK, gin.H{
		"settlements": items,
		"pagination": gin.H{
			"page":  params.Page,
			"limit": params.Limit,
			"total": total,
		},
	})
}

// Get returns a single settlement record
// GET /api/v1/wallets/:address/settlements/:id
func (h *SettlementHandler) Get(c *gin.Context) {
	address := c.Param("address")
	id := c.Param("id")
	if address == "" || id == "" {
		response.Error(c, domainerrors.BadRequest("wallet address and record id are required"))
		return
	}

	record, err := h.recorder.Get(c.Request.Context(), address, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := gin.H{"record": record}
	if record.TxHash.Valid {
		if url, err := h.registry.ExplorerTxURL(record.Network, record.TxHash.String); err == nil {
			result["explorerUrl"] = url
		}
	}
	response.Success(c, http.StatusOK, result)
}
