package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"blinkpay.backend/internal/domain/entities"
)

// PaymentRequestRepository defines payment request data operations
type PaymentRequestRepository interface {
	Create(ctx context.Context, request *entities.StoredPaymentRequest) error
	GetByRequestID(ctx context.Context, requestID string) (*entities.StoredPaymentRequest, error)
	ListByMerchant(ctx context.Context, merchantID string, limit, offset int) ([]*entities.StoredPaymentRequest, int, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, txHash string) error
	GetExpiredPending(ctx context.Context, before time.Time, limit int) ([]*entities.StoredPaymentRequest, error)
	ExpireRequests(ctx context.Context, ids []uuid.UUID) error
}
