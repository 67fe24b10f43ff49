package repositories

import (
	"context"

	"blinkpay.backend/internal/domain/entities"
)

// MerchantBindingRepository defines merchant deposit-binding data operations.
// Address lookups are case-insensitive; implementations normalize before
// comparing.
type MerchantBindingRepository interface {
	GetByMerchantID(ctx context.Context, merchantID string) (*entities.MerchantDepositBinding, error)
	GetByDepositAddress(ctx context.Context, address string) (*entities.MerchantDepositBinding, error)
	Save(ctx context.Context, binding *entities.MerchantDepositBinding) error
	SetBankAccount(ctx context.Context, merchantID, bankAccountID string) error
}
