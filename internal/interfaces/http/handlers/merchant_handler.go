package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"blinkpay.backend/internal/domain/entities"
	domainerrors "blinkpay.backend/internal/domain/errors"
	"blinkpay.backend/internal/interfaces/http/response"
	"blinkpay.backend/internal/usecases"
)

type MerchantHandler struct {
	fiat *usecases.MerchantFiatUsecase
}

func NewMerchantHandler(fiat *usecases.MerchantFiatUsecase) *MerchantHandler {
	return &MerchantHandler{fiat: fiat}
}

// SetupDeposit binds the merchant to a custodial USD deposit address
// POST /api/v1/merchants/:id/fiat-deposit
func (h *MerchantHandler) SetupDeposit(c *gin.Context) {
	merchantID := c.Param("id")
	if merchantID == "" {
		response.Error(c, domainerrors.BadRequest("merchant id is required"))
		return
	}

	var req entities.SetupFiatDepositInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	binding, err := h.fiat.SetupDeposit(c.Request.Context(), merchantID, req.Chain)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, binding)
}

// LinkBankAccount registers a wire account for payouts. Only the custodial
// account id is returned and stored; the bank numbers stay with Circle.
// POST /api/v1/merchants/:id/bank-account
func (h *MerchantHandler) LinkBankAccount(c *gin.Context) {
	merchantID := c.Param("id")
	if merchantID == "" {
		response.Error(c, domainerrors.BadRequest("merchant id is required"))
		return
	}

	var input entities.LinkBankAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	account, err := h.fiat.LinkBankAccount(c.Request.Context(), merchantID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"bankAccountId": account.ID,
		"status":        account.Status,
	})
}

// GetBinding returns the merchant's deposit binding
// GET /api/v1/merchants/:id/fiat-deposit
func (h *MerchantHandler) GetBinding(c *gin.Context) {
	binding, err := h.fiat.GetBinding(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, binding)
}

// IssueChannelToken mints a token the merchant device presents on its
// websocket connection
// POST /api/v1/merchants/:id/channel-token
func (h *MerchantHandler) IssueChannelToken(c *gin.Context) {
	merchantID := c.Param("id")
	if merchantID == "" {
		response.Error(c, domainerrors.BadRequest("merchant id is required"))
		return
	}

	token, err := h.fiat.IssueChannelToken(merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": token})
}
