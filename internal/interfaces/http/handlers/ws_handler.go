package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	domainerrors "blinkpay.backend/internal/domain/errors"
	"blinkpay.backend/internal/infrastructure/notify"
	"blinkpay.backend/internal/interfaces/http/response"
	"blinkpay.backend/pkg/jwt"
	"blinkpay.backend/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// channel tokens authenticate the connection, not the Origin header;
	// merchant devices connect from app webviews with arbitrary origins
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades merchant devices onto the notification hub.
type WSHandler struct {
	hub    *notify.Hub
	tokens *jwt.ChannelTokenService
}

func NewWSHandler(hub *notify.Hub, tokens *jwt.ChannelTokenService) *WSHandler {
	return &WSHandler{hub: hub, tokens: tokens}
}

// Connect authenticates the channel token and joins the merchant's channel
// GET /ws/merchant?token=...
func (h *WSHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, domainerrors.Unauthorized("channel token is required"))
		return
	}

	merchantID, err := h.tokens.Validate(token)
	if err != nil {
		response.Error(c, domainerrors.Unauthorized("invalid channel token"))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		logger.Warn(c.Request.Context(), "websocket upgrade failed",
			zap.String("merchant_id", merchantID), zap.Error(err))
		return
	}

	h.hub.Add(merchantID, conn)
}
