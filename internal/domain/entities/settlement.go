package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// SettlementDirection distinguishes money leaving or entering a wallet.
type SettlementDirection string

const (
	SettlementDirectionSent     SettlementDirection = "sent"
	SettlementDirectionReceived SettlementDirection = "received"
)

// SettlementStatus represents settlement record status
type SettlementStatus string

const (
	SettlementStatusPending  SettlementStatus = "pending"
	SettlementStatusComplete SettlementStatus = "complete"
	SettlementStatusFailed   SettlementStatus = "failed"
)

// SettlementRecord is one line of a wallet's transaction history. Records are
// append-only; the only in-place mutation is the pending -> complete/failed
// status transition.
type SettlementRecord struct {
	ID              string              `json:"id"`
	WalletAddress   string              `json:"walletAddress"`
	Direction       SettlementDirection `json:"type"`
	Amount          string              `json:"amount"`
	Currency        string              `json:"currency"`
	ItemName        string              `json:"itemName"`
	Memo            null.String         `json:"memo,omitempty"`
	Network         string              `json:"network"`
	TxHash          null.String         `json:"transactionHash,omitempty"`
	FromAddress     string              `json:"fromAddress"`
	ToAddress       string              `json:"toAddress"`
	Status          SettlementStatus    `json:"status"`
	IsCirclePayment bool                `json:"isCirclePayment,omitempty"`
	Timestamp       time.Time           `json:"timestamp"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}
