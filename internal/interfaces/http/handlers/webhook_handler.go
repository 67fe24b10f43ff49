package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"blinkpay.backend/internal/domain/entities"
	domainerrors "blinkpay.backend/internal/domain/errors"
	"blinkpay.backend/internal/interfaces/http/response"
	"blinkpay.backend/internal/usecases"
	"blinkpay.backend/pkg/logger"
)

// WebhookHandler receives deposit notifications from the fiat bridge and the
// chain watcher and feeds them to the matcher.
type WebhookHandler struct {
	matcher *usecases.DepositMatcher
}

func NewWebhookHandler(matcher *usecases.DepositMatcher) *WebhookHandler {
	return &WebhookHandler{matcher: matcher}
}

// HandleDeposit processes one inbound deposit event
// POST /api/v1/webhooks/deposits
func (h *WebhookHandler) HandleDeposit(c *gin.Context) {
	var event entities.DepositEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	if event.DestinationAddress == "" || event.Amount == "" {
		response.Error(c, domainerrors.BadRequest("destinationAddress and amount are required"))
		return
	}

	err := h.matcher.HandleEvent(c.Request.Context(), &event)
	if err != nil {
		// an address we never issued is not a retryable condition; tell the
		// sender we took it so it stops redelivering
		if errors.Is(err, domainerrors.ErrMerchantNotFound) {
			logger.Warn(c.Request.Context(), "deposit for unknown address",
				zap.String("destination", event.DestinationAddress),
				zap.String("tx_hash", event.TxHash))
			response.Success(c, http.StatusOK, gin.H{"received": true, "matched": false})
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"received": true, "matched": true})
}
