package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"blinkpay.backend/internal/domain/entities"
	domainErrors "blinkpay.backend/internal/domain/errors"
	"blinkpay.backend/internal/infrastructure/models"
	"blinkpay.backend/pkg/utils"
)

// MerchantBindingRepositoryImpl implements MerchantBindingRepository
type MerchantBindingRepositoryImpl struct {
	db *gorm.DB
}

func NewMerchantBindingRepository(db *gorm.DB) *MerchantBindingRepositoryImpl {
	return &MerchantBindingRepositoryImpl{db: db}
}

func (r *MerchantBindingRepositoryImpl) GetByMerchantID(ctx context.Context, merchantID string) (*entities.MerchantDepositBinding, error) {
	var m models.MerchantDepositBinding
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainErrors.ErrMerchantNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *MerchantBindingRepositoryImpl) GetByDepositAddress(ctx context.Context, address string) (*entities.MerchantDepositBinding, error) {
	var m models.MerchantDepositBinding
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("LOWER(deposit_address) = ?", strings.ToLower(address)).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainErrors.ErrMerchantNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Save inserts a new binding or updates the existing one for the merchant.
// A merchant has at most one binding; re-binding to another chain replaces
// the deposit address in place.
func (r *MerchantBindingRepositoryImpl) Save(ctx context.Context, binding *entities.MerchantDepositBinding) error {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var existing models.MerchantDepositBinding
	err := db.Where("merchant_id = ?", binding.MerchantID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		m := r.toModel(binding)
		if err := db.Create(m).Error; err != nil {
			return err
		}
		binding.ID = m.ID
		return nil
	}
	if err != nil {
		return err
	}

	binding.ID = existing.ID
	return db.Model(&models.MerchantDepositBinding{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"deposit_id":      binding.DepositID,
			"deposit_address": binding.DepositAddress,
			"currency":        binding.Currency,
			"chain":           binding.Chain,
			"fiat_enabled":    binding.FiatEnabled,
			"updated_at":      time.Now(),
		}).Error
}

func (r *MerchantBindingRepositoryImpl) SetBankAccount(ctx context.Context, merchantID, bankAccountID string) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.MerchantDepositBinding{}).
		Where("merchant_id = ?", merchantID).
		Updates(map[string]interface{}{
			"bank_account_id": bankAccountID,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainErrors.ErrMerchantNotFound
	}
	return nil
}

func (r *MerchantBindingRepositoryImpl) toModel(binding *entities.MerchantDepositBinding) *models.MerchantDepositBinding {
	id := binding.ID
	if id == uuid.Nil {
		id = utils.GenerateUUIDv7()
	}
	var bankAccountID *string
	if binding.BankAccountID.Valid {
		v := binding.BankAccountID.String
		bankAccountID = &v
	}
	return &models.MerchantDepositBinding{
		ID:             id,
		MerchantID:     binding.MerchantID,
		DepositID:      binding.DepositID,
		DepositAddress: binding.DepositAddress,
		Currency:       binding.Currency,
		Chain:          binding.Chain,
		BankAccountID:  bankAccountID,
		FiatEnabled:    binding.FiatEnabled,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}

func (r *MerchantBindingRepositoryImpl) toEntity(m *models.MerchantDepositBinding) *entities.MerchantDepositBinding {
	bankAccountID := null.String{}
	if m.BankAccountID != nil {
		bankAccountID = null.StringFrom(*m.BankAccountID)
	}
	return &entities.MerchantDepositBinding{
		ID:             m.ID,
		MerchantID:     m.MerchantID,
		DepositID:      m.DepositID,
		DepositAddress: m.DepositAddress,
		Currency:       m.Currency,
		Chain:          m.Chain,
		BankAccountID:  bankAccountID,
		FiatEnabled:    m.FiatEnabled,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
