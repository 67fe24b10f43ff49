package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MerchantDepositBinding struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	MerchantID     string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	DepositID      string    `gorm:"type:varchar(100);not null"`
	DepositAddress string    `gorm:"type:varchar(255);not null;index"`
	Currency       string    `gorm:"type:varchar(20);not null"`
	Chain          string    `gorm:"type:varchar(50);not null"`
	BankAccountID  *string   `gorm:"type:varchar(100)"`
	FiatEnabled    bool      `gorm:"default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}
