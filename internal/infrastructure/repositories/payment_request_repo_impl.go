package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"blinkpay.backend/internal/domain/entities"
	domainErrors "blinkpay.backend/internal/domain/errors"
	"blinkpay.backend/internal/infrastructure/models"
	"blinkpay.backend/pkg/utils"
)

// PaymentRequestRepositoryImpl implements PaymentRequestRepository
type PaymentRequestRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentRequestRepository(db *gorm.DB) *PaymentRequestRepositoryImpl {
	return &PaymentRequestRepositoryImpl{db: db}
}

func (r *PaymentRequestRepositoryImpl) Create(ctx context.Context, request *entities.StoredPaymentRequest) error {
	id := request.ID
	if id == uuid.Nil {
		id = utils.GenerateUUIDv7()
	}
	m := &models.PaymentRequest{
		ID:                  id,
		RequestID:           request.RequestID,
		For:                 request.Request.For,
		Amount:              request.Request.Amount,
		Currency:            string(request.Request.Currency),
		SellerWalletAddress: request.Request.SellerWalletAddress,
		Memo:                request.Request.Memo,
		Network:             request.Request.Network,
		MerchantID:          request.Request.MerchantID,
		IsCirclePayment:     request.Request.IsCirclePayment,
		IssuedAt:            request.Request.Timestamp,
		Status:              string(request.Status),
		TxHash:              request.TxHash,
		ExpiresAt:           request.ExpiresAt,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	request.ID = id
	return nil
}

func (r *PaymentRequestRepositoryImpl) GetByRequestID(ctx context.Context, requestID string) (*entities.StoredPaymentRequest, error) {
	var m models.PaymentRequest
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("request_id = ?", requestID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainErrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *PaymentRequestRepositoryImpl) ListByMerchant(ctx context.Context, merchantID string, limit, offset int) ([]*entities.StoredPaymentRequest, int, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var total int64
	if err := db.Model(&models.PaymentRequest{}).
		Where("merchant_id = ?", merchantID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.PaymentRequest
	if err := db.Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	requests := make([]*entities.StoredPaymentRequest, 0, len(ms))
	for i := range ms {
		requests = append(requests, r.toEntity(&ms[i]))
	}
	return requests, int(total), nil
}

func (r *PaymentRequestRepositoryImpl) MarkCompleted(ctx context.Context, id uuid.UUID, txHash string) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.PaymentRequest{}).
		Where("id = ? AND status = ?", id, entities.PaymentRequestStatusPending).
		Updates(map[string]interface{}{
			"status":     entities.PaymentRequestStatusCompleted,
			"tx_hash":    txHash,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *PaymentRequestRepositoryImpl) GetExpiredPending(ctx context.Context, before time.Time, limit int) ([]*entities.StoredPaymentRequest, error) {
	var ms []models.PaymentRequest
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("status = ? AND expires_at < ?", entities.PaymentRequestStatusPending, before).
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	requests := make([]*entities.StoredPaymentRequest, 0, len(ms))
	for i := range ms {
		requests = append(requests, r.toEntity(&ms[i]))
	}
	return requests, nil
}

func (r *PaymentRequestRepositoryImpl) ExpireRequests(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).WithContext(ctx).Model(&models.PaymentRequest{}).
		Where("id IN ? AND status = ?", ids, entities.PaymentRequestStatusPending).
		Updates(map[string]interface{}{
			"status":     entities.PaymentRequestStatusExpired,
			"updated_at": time.Now(),
		}).Error
}

func (r *PaymentRequestRepositoryImpl) toEntity(m *models.PaymentRequest) *entities.StoredPaymentRequest {
	return &entities.StoredPaymentRequest{
		ID:        m.ID,
		RequestID: m.RequestID,
		Request: entities.PaymentRequest{
			ID:                  m.RequestID,
			For:                 m.For,
			Amount:              m.Amount,
			Currency:            entities.CurrencyType(m.Currency),
			SellerWalletAddress: m.SellerWalletAddress,
			Timestamp:           m.IssuedAt,
			Memo:                m.Memo,
			Network:             m.Network,
			MerchantID:          m.MerchantID,
			IsCirclePayment:     m.IsCirclePayment,
		},
		Status:    entities.PaymentRequestStatus(m.Status),
		TxHash:    m.TxHash,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
