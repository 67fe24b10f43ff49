package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRequest struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID           string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	For                 string    `gorm:"column:item_for;type:varchar(255);not null"`
	Amount              string    `gorm:"type:decimal(36,18);not null"`
	Currency            string    `gorm:"type:varchar(20);not null"`
	SellerWalletAddress string    `gorm:"type:varchar(255);not null;index"`
	Memo                string    `gorm:"type:text"`
	Network             string    `gorm:"type:varchar(50)"`
	MerchantID          string    `gorm:"type:varchar(100);index"`
	IsCirclePayment     bool      `gorm:"default:false"`
	IssuedAt            int64     `gorm:"not null"`
	Status              string    `gorm:"type:varchar(20);not null;index"`
	TxHash              string    `gorm:"type:varchar(255)"`
	ExpiresAt           time.Time `gorm:"not null;index"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}
