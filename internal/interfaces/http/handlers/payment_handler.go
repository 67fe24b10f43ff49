package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "blinkpay.backend/internal/domain/errors"
	"blinkpay.backend/internal/interfaces/http/response"
	"blinkpay.backend/internal/usecases"
)

type PaymentHandler struct {
	payments *usecases.PaymentUsecase
}

func NewPaymentHandler(payments *usecases.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type PayRequest struct {
	WalletAddress      string `json:"walletAddress" binding:"required"`
	RecipientAddress   string `json:"recipientAddress" binding:"required"`
	SourceNetwork      string `json:"sourceNetwork" binding:"required"`
	SourceToken        string `json:"sourceToken" binding:"required"`
	DestinationNetwork string `json:"destinationNetwork,omitempty"`
	DestinationToken   string `json:"destinationToken,omitempty"`
	Amount             string `json:"amount" binding:"required"`
	AmountUnit         string `json:"amountUnit,omitempty"`
	ItemName           string `json:"itemName,omitempty"`
	Memo               string `json:"memo,omitempty"`
	RequestID          string `json:"requestId,omitempty"`
	IsCirclePayment    bool   `json:"isCirclePayment,omitempty"`
}

func (r *PayRequest) toInput() (*usecases.PayInput, error) {
	unit, err := usecases.ParseAmountUnit(r.AmountUnit)
	if err != nil {
		return nil, err
	}
	return &usecases.PayInput{
		WalletAddress:      r.WalletAddress,
		RecipientAddress:   r.RecipientAddress,
		SourceNetwork:      r.SourceNetwork,
		SourceToken:        r.SourceToken,
		DestinationNetwork: r.DestinationNetwork,
		DestinationToken:   r.DestinationToken,
		Amount:             r.Amount,
		Unit:               unit,
		ItemName:           r.ItemName,
		Memo:               r.Memo,
		RequestID:          r.RequestID,
		IsCirclePayment:    r.IsCirclePayment,
	}, nil
}

// Quote prices a payment without executing it
// POST /api/v1/payments/quote
func (h *PaymentHandler) Quote(c *gin.Context) {
	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	input, err := req.toInput()
	if err != nil {
		response.Error(c, err)
		return
	}

	quote, err := h.payments.GetQuote(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, quote)
}

// Pay executes a payment end to end
// POST /api/v1/payments
func (h *PaymentHandler) Pay(c *gin.Context) {
	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	input, err := req.toInput()
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.payments.Pay(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
