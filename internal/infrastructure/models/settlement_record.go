package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SettlementRecord struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	WalletAddress   string    `gorm:"type:varchar(255);not null;index:idx_settlement_wallet"`
	Direction       string    `gorm:"type:varchar(20);not null"`
	Amount          string    `gorm:"type:decimal(36,18);not null"`
	Currency        string    `gorm:"type:varchar(20);not null"`
	ItemName        string    `gorm:"type:varchar(255)"`
	Memo            *string   `gorm:"type:text"`
	Network         string    `gorm:"type:varchar(50);not null"`
	TxHash          *string   `gorm:"type:varchar(255);index:idx_settlement_txhash"`
	FromAddress     string    `gorm:"type:varchar(255);not null"`
	ToAddress       string    `gorm:"type:varchar(255);not null"`
	Status          string    `gorm:"type:varchar(20);not null;index"`
	IsCirclePayment bool      `gorm:"default:false"`
	Timestamp       time.Time `gorm:"not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}
