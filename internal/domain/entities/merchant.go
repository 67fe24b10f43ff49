package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// MerchantDepositBinding links a merchant to the custodial fiat deposit
// address issued for it on a specific chain, plus the wire bank account used
// for automatic payouts. Re-binding to another chain updates the row in place.
type MerchantDepositBinding struct {
	ID             uuid.UUID   `json:"id"`
	MerchantID     string      `json:"merchantId"`
	DepositID      string      `json:"depositId"`
	DepositAddress string      `json:"depositAddress"`
	Currency       string      `json:"currency"`
	Chain          string      `json:"chain"`
	BankAccountID  null.String `json:"bankAccountId,omitempty"`
	FiatEnabled    bool        `json:"fiatEnabled"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// SetupFiatDepositInput is the request to provision a fiat deposit address.
type SetupFiatDepositInput struct {
	Chain string `json:"chain" binding:"required"`
}

// LinkBankAccountInput carries the wire account details forwarded to the fiat
// bridge; the raw numbers are never persisted locally, only the returned
// bank-account id is.
type LinkBankAccountInput struct {
	AccountNumber string             `json:"accountNumber" binding:"required"`
	RoutingNumber string             `json:"routingNumber" binding:"required"`
	BankAddress   BankAddress        `json:"bankAddress" binding:"required"`
	BillingDetail BankBillingDetails `json:"billingDetails" binding:"required"`
}

// BankAddress identifies the receiving bank.
type BankAddress struct {
	BankName string `json:"bankName" binding:"required"`
	Country  string `json:"country" binding:"required"`
}

// BankBillingDetails identifies the account holder.
type BankBillingDetails struct {
	Name       string `json:"name" binding:"required"`
	Line1      string `json:"line1" binding:"required"`
	City       string `json:"city" binding:"required"`
	District   string `json:"district,omitempty"`
	PostalCode string `json:"postalCode" binding:"required"`
	Country    string `json:"country" binding:"required"`
}
