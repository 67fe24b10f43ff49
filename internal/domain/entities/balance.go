package entities

import "github.com/shopspring/decimal"

// TokenBalance is a snapshot of a wallet's holding of one token on one
// network, together with the USD price resolved at snapshot time. The price
// and balance always come from the same fetch; balance checks and amount
// resolution must both read this snapshot so a price update cannot race them.
type TokenBalance struct {
	Network         string          `json:"network"`
	Symbol          string          `json:"symbol"`
	Name            string          `json:"name"`
	ContractAddress string          `json:"contractAddress,omitempty"`
	Decimals        int             `json:"decimals"`
	Balance         decimal.Decimal `json:"balance"`
	USDPrice        decimal.Decimal `json:"usdPrice"`
	USDValue        decimal.Decimal `json:"usdValue"`
}

// IsNative reports whether the balance is in the network's native currency.
func (b TokenBalance) IsNative() bool {
	return b.ContractAddress == ""
}

// DepositEvent is an inbound settlement notification, either a direct
// on-chain transfer seen by the chain watcher or a fiat-bridge deposit
// webhook.
type DepositEvent struct {
	DestinationAddress string           `json:"destinationAddress"`
	Amount             string           `json:"amount"`
	Currency           string           `json:"currency"`
	Chain              string           `json:"chain"`
	TxHash             string           `json:"txHash"`
	Status             SettlementStatus `json:"status"`
	FromAddress        string           `json:"fromAddress,omitempty"`
	IsFiatDeposit      bool             `json:"isFiatDeposit,omitempty"`
}
