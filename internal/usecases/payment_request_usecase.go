package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"blinkpay.backend/internal/domain/entities"
	domainErrors "blinkpay.backend/internal/domain/errors"
	"blinkpay.backend/internal/domain/repositories"
	"blinkpay.backend/internal/registry"
	"blinkpay.backend/pkg/utils"
)

// requestTTL is how long an issued request stays payable.
const requestTTL = 15 * time.Minute

// PaymentRequestUsecase issues and tracks the QR-encoded requests merchants
// show to payers. A request is immutable once issued; changing anything means
// issuing a new one.
type PaymentRequestUsecase struct {
	repo     repositories.PaymentRequestRepository
	registry *registry.Registry
}

func NewPaymentRequestUsecase(repo repositories.PaymentRequestRepository, reg *registry.Registry) *PaymentRequestUsecase {
	return &PaymentRequestUsecase{repo: repo, registry: reg}
}

// Create validates the input and persists a pending request. The network, if
// given, must be registered; currency USD implies fiat settlement through the
// custodial deposit address.
func (u *PaymentRequestUsecase) Create(ctx context.Context, input *entities.CreatePaymentRequestInput) (*entities.StoredPaymentRequest, error) {
	if input.Network != "" {
		if _, err := u.registry.NetworkByName(input.Network); err != nil {
			return nil, err
		}
	}
	if input.IsCirclePayment && input.Currency != string(entities.CurrencyUSD) {
		return nil, fmt.Errorf("%w: fiat settlement requires USD", domainErrors.ErrInvalidInput)
	}

	now := time.Now()
	stored := &entities.StoredPaymentRequest{
		RequestID: utils.GenerateUUIDv7().String(),
		Status:    entities.PaymentRequestStatusPending,
		ExpiresAt: now.Add(requestTTL),
	}
	stored.Request = entities.PaymentRequest{
		ID:                  stored.RequestID,
		For:                 input.For,
		Amount:              input.Amount,
		Currency:            entities.CurrencyType(input.Currency),
		SellerWalletAddress: input.SellerWalletAddress,
		Timestamp:           now.UnixMilli(),
		Memo:                input.Memo,
		Network:             input.Network,
		MerchantID:          input.MerchantID,
		IsCirclePayment:     input.IsCirclePayment,
	}

	if err := u.repo.Create(ctx, stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// Get returns a stored request by its public request id.
func (u *PaymentRequestUsecase) Get(ctx context.Context, requestID string) (*entities.StoredPaymentRequest, error) {
	return u.repo.GetByRequestID(ctx, requestID)
}

// ListByMerchant pages through a merchant's issued requests, newest first.
func (u *PaymentRequestUsecase) ListByMerchant(ctx context.Context, merchantID string, limit, offset int) ([]*entities.StoredPaymentRequest, int, error) {
	return u.repo.ListByMerchant(ctx, merchantID, limit, offset)
}

// Complete marks a pending request paid with the settling tx hash. A request
// that is expired or already completed is rejected.
func (u *PaymentRequestUsecase) Complete(ctx context.Context, requestID, txHash string) error {
	stored, err := u.repo.GetByRequestID(ctx, requestID)
	if err != nil {
		return err
	}
	if stored.Status != entities.PaymentRequestStatusPending {
		return fmt.Errorf("%w: request is %s", domainErrors.ErrInvalidInput, stored.Status)
	}
	return u.repo.MarkCompleted(ctx, stored.ID, txHash)
}

// ExpireStale transitions pending requests past their deadline to expired and
// returns how many were affected. Called periodically by the expiry job.
func (u *PaymentRequestUsecase) ExpireStale(ctx context.Context, batchSize int) (int, error) {
	stale, err := u.repo.GetExpiredPending(ctx, time.Now(), batchSize)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, 0, len(stale))
	for _, s := range stale {
		ids = append(ids, s.ID)
	}
	if err := u.repo.ExpireRequests(ctx, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}
