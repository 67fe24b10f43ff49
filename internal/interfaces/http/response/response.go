package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	domainerrors "blinkpay.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error maps err to an HTTP status and writes the standard error envelope.
// Sentinel domain errors carry their own status; anything else is a 500.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		appErr = domainerrors.FromDomain(err)
	}

	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}
