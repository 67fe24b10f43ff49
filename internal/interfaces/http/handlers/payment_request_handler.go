package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"blinkpay.backend/internal/domain/entities"
	domainerrors "blinkpay.backend/internal/domain/errors"
	"blinkpay.backend/internal/interfaces/http/response"
	"blinkpay.backend/internal/usecases"
	"blinkpay.backend/pkg/utils"
)

type PaymentRequestHandler struct {
	requests *usecases.PaymentRequestUsecase
}

func NewPaymentRequestHandler(requests *usecases.PaymentRequestUsecase) *PaymentRequestHandler {
	return &PaymentRequestHandler{requests: requests}
}

// Create issues a new payment request for a merchant to encode into a QR
// POST /api/v1/payment-requests
func (h *PaymentRequestHandler) Create(c *gin.Context) {
	var input entities.CreatePaymentRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	stored, err := h.requests.Create(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, stored)
}

// Get fetches a payment request by its public id
// GET /api/v1/payment-requests/:id
func (h *PaymentRequestHandler) Get(c *gin.Context) {
	stored, err := h.requests.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, stored)
}

// ListByMerchant lists a merchant's issued requests
// GET /api/v1/merchants/:id/payment-requests
func (h *PaymentRequestHandler) ListByMerchant(c *gin.Context) {
	merchantID := c.Param("id")
	if merchantID == "" {
		response.Error(c, domainerrors.BadRequest("merchant id is required"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	params := utils.GetPaginationParams(page, limit)

	requests, total, err := h.requests.ListByMerchant(c.Request.Context(), merchantID, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"requests": requests,
		"pagination": gin.H{
			"page":  params.Page,
			"limit": params.Limit,
			"total": total,
		},
	})
}

type CompletePaymentRequestRequest struct {
	TxHash string `json:"txHash" binding:"required"`
}

// Complete marks a pending request paid
// POST /api/v1/payment-requests/:id/complete
func (h *PaymentRequestHandler) Complete(c *gin.Context) {
	var req CompletePaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.requests.Complete(c.Request.Context(), c.Param("id"), req.TxHash); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"completed": true})
}
