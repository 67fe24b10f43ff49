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

// SettlementRepositoryImpl implements SettlementRepository
type SettlementRepositoryImpl struct {
	db *gorm.DB
}

func NewSettlementRepository(db *gorm.DB) *SettlementRepositoryImpl {
	return &SettlementRepositoryImpl{db: db}
}

func (r *SettlementRepositoryImpl) Create(ctx context.Context, record *entities.SettlementRecord) error {
	m, err := r.toModel(record)
	if err != nil {
		return err
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	record.ID = m.ID.String()
	return nil
}

// Upsert deduplicates on (wallet, tx hash): recording a hash that already
// exists for the wallet updates the existing row instead of inserting.
func (r *SettlementRepositoryImpl) Upsert(ctx context.Context, record *entities.SettlementRecord) error {
	if !record.TxHash.Valid || record.TxHash.String == "" {
		return r.Create(ctx, record)
	}

	db := GetDB(ctx, r.db).WithContext(ctx)
	wallet := strings.ToLower(record.WalletAddress)
	hash := strings.ToLower(record.TxHash.String)

	var existing models.SettlementRecord
	err := db.Where("LOWER(wallet_address) = ? AND LOWER(tx_hash) = ?", wallet, hash).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.Create(ctx, record)
	}
	if err != nil {
		return err
	}

	record.ID = existing.ID.String()
	return db.Model(&models.SettlementRecord{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"status":     string(record.Status),
			"amount":     record.Amount,
			"updated_at": time.Now(),
		}).Error
}

func (r *SettlementRepositoryImpl) GetByID(ctx context.Context, walletAddress, id string) (*entities.SettlementRecord, error) {
	var m models.SettlementRecord
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("id = ? AND LOWER(wallet_address) = ?", id, strings.ToLower(walletAddress)).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainErrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *SettlementRepositoryImpl) GetByTxHash(ctx context.Context, walletAddress, txHash string) (*entities.SettlementRecord, error) {
	var m models.SettlementRecord
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("LOWER(wallet_address) = ? AND LOWER(tx_hash) = ?",
			strings.ToLower(walletAddress), strings.ToLower(txHash)).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainErrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *SettlementRepositoryImpl) ListByWallet(ctx context.Context, walletAddress string, limit, offset int) ([]*entities.SettlementRecord, int, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)
	wallet := strings.ToLower(walletAddress)

	var total int64
	if err := db.Model(&models.SettlementRecord{}).
		Where("LOWER(wallet_address) = ?", wallet).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.SettlementRecord
	if err := db.Where("LOWER(wallet_address) = ?", wallet).
		Order("timestamp DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	records := make([]*entities.SettlementRecord, 0, len(ms))
	for i := range ms {
		records = append(records, r.toEntity(&ms[i]))
	}
	return records, int(total), nil
}

func (r *SettlementRepositoryImpl) UpdateStatus(ctx context.Context, walletAddress, id string, status entities.SettlementStatus, txHash string) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	}
	if txHash != "" {
		updates["tx_hash"] = strings.ToLower(txHash)
	}

	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.SettlementRecord{}).
		Where("id = ? AND LOWER(wallet_address) = ?", id, strings.ToLower(walletAddress)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// TrimToLatest drops everything past the newest keep records for a wallet.
func (r *SettlementRepositoryImpl) TrimToLatest(ctx context.Context, walletAddress string, keep int) error {
	if keep <= 0 {
		return nil
	}
	db := GetDB(ctx, r.db).WithContext(ctx)
	wallet := strings.ToLower(walletAddress)

	newest := db.Model(&models.SettlementRecord{}).
		Select("id").
		Where("LOWER(wallet_address) = ?", wallet).
		Order("timestamp DESC").
		Limit(keep)

	return db.Where("LOWER(wallet_address) = ? AND id NOT IN (?)", wallet, newest).
		Delete(&models.SettlementRecord{}).Error
}

func (r *SettlementRepositoryImpl) toModel(record *entities.SettlementRecord) (*models.SettlementRecord, error) {
	id := utils.GenerateUUIDv7()
	if record.ID != "" {
		parsed, err := uuid.Parse(record.ID)
		if err != nil {
			return nil, err
		}
		id = parsed
	}

	var memo *string
	if record.Memo.Valid {
		v := record.Memo.String
		memo = &v
	}
	var txHash *string
	if record.TxHash.Valid && record.TxHash.String != "" {
		v := strings.ToLower(record.TxHash.String)
		txHash = &v
	}

	ts := record.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	return &models.SettlementRecord{
		ID:              id,
		WalletAddress:   strings.ToLower(record.WalletAddress),
		Direction:       string(record.Direction),
		Amount:          record.Amount,
		Currency:        record.Currency,
		ItemName:        record.ItemName,
		Memo:            memo,
		Network:         record.Network,
		TxHash:          txHash,
		FromAddress:     strings.ToLower(record.FromAddress),
		ToAddress:       strings.ToLower(record.ToAddress),
		Status:          string(record.Status),
		IsCirclePayment: record.IsCirclePayment,
		Timestamp:       ts,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}, nil
}

func (r *SettlementRepositoryImpl) toEntity(m *models.SettlementRecord) *entities.SettlementRecord {
	memo := null.String{}
	if m.Memo != nil {
		memo = null.StringFrom(*m.Memo)
	}
	txHash := null.String{}
	if m.TxHash != nil {
		txHash = null.StringFrom(*m.TxHash)
	}

	return &entities.SettlementRecord{
		ID:              m.ID.String(),
		WalletAddress:   m.WalletAddress,
		Direction:       entities.SettlementDirection(m.Direction),
		Amount:          m.Amount,
		Currency:        m.Currency,
		ItemName:        m.ItemName,
		Memo:            memo,
		Network:         m.Network,
		TxHash:          txHash,
		FromAddress:     m.FromAddress,
		ToAddress:       m.ToAddress,
		Status:          entities.SettlementStatus(m.Status),
		IsCirclePayment: m.IsCirclePayment,
		Timestamp:       m.Timestamp,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
