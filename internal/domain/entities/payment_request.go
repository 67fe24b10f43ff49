package entities

import (
	"time"

	"github.com/google/uuid"
)

// CurrencyType is the currency a payment request is denominated in.
type CurrencyType string

const (
	CurrencyUSDC CurrencyType = "USDC"
	CurrencyUSD  CurrencyType = "USD"
)

// PaymentRequestStatus represents the status of a payment request
type PaymentRequestStatus string

const (
	PaymentRequestStatusPending   PaymentRequestStatus = "pending"
	PaymentRequestStatusCompleted PaymentRequestStatus = "completed"
	PaymentRequestStatusExpired   PaymentRequestStatus = "expired"
	PaymentRequestStatusCancelled PaymentRequestStatus = "cancelled"
)

// PaymentRequest is the record a merchant encodes into a QR code and a payer
// scans. It is immutable once issued; an amendment means issuing a new one.
// The JSON shape is the wire format the mobile app reads and writes.
type PaymentRequest struct {
	ID                  string       `json:"id"`
	For                 string       `json:"for"`
	Amount              string       `json:"amount"`
	Currency            CurrencyType `json:"currency"`
	SellerWalletAddress string       `json:"sellerWalletAddress"`
	Timestamp           int64        `json:"timestamp"`
	Memo                string       `json:"memo,omitempty"`
	Network             string       `json:"network,omitempty"`
	MerchantID          string       `json:"merchantId,omitempty"`
	IsCirclePayment     bool         `json:"isCirclePayment,omitempty"`
}

// StoredPaymentRequest is the persisted form of a PaymentRequest with its
// lifecycle status.
type StoredPaymentRequest struct {
	ID        uuid.UUID            `json:"id"`
	RequestID string               `json:"requestId"`
	Request   PaymentRequest       `json:"request"`
	Status    PaymentRequestStatus `json:"status"`
	TxHash    string               `json:"txHash,omitempty"`
	ExpiresAt time.Time            `json:"expiresAt"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// CreatePaymentRequestInput represents merchant input for issuing a request.
type CreatePaymentRequestInput struct {
	For                 string `json:"for" binding:"required"`
	Amount              string `json:"amount" binding:"required"`
	Currency            string `json:"currency" binding:"required,oneof=USDC USD"`
	SellerWalletAddress string `json:"sellerWalletAddress" binding:"required"`
	Memo                string `json:"memo,omitempty"`
	Network             string `json:"network,omitempty"`
	MerchantID          string `json:"merchantId,omitempty"`
	IsCirclePayment     bool   `json:"isCirclePayment,omitempty"`
}
