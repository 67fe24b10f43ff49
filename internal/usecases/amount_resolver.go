package usecases

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"blinkpay.backend/internal/domain/entities"
	domainErrors "blinkpay.backend/internal/domain/errors"
)

// AmountUnit says how the user denominated the amount they typed.
type AmountUnit string

const (
	UnitFiat  AmountUnit = "fiat"
	UnitToken AmountUnit = "token"
)

// displayPrecision caps the token quantity shown to and confirmed by the
// user. On-chain scaling always uses the token's real decimal count.
const displayPrecision = 6

// ResolvedAmount is the exact token quantity a payment will move, tied to the
// balance snapshot it was computed from.
type ResolvedAmount struct {
	TokenAmount decimal.Decimal
	USDValue    decimal.Decimal
	Snapshot    entities.TokenBalance
}

// Scaled returns the amount as an integer in the token's smallest unit.
func (a *ResolvedAmount) Scaled() *big.Int {
	return ScaleToUnits(a.TokenAmount, a.Snapshot.Decimals)
}

// HasInsufficientBalance compares the resolved amount against the balance of
// the same snapshot. Spending exactly the full balance is allowed.
func (a *ResolvedAmount) HasInsufficientBalance() bool {
	return a.TokenAmount.GreaterThan(a.Snapshot.Balance)
}

// AmountResolver converts user-entered amounts into exact token quantities.
// All math is decimal fixed-point; floats never touch a transfer amount.
type AmountResolver struct{}

func NewAmountResolver() *AmountResolver {
	return &AmountResolver{}
}

// Resolve computes the token amount for input denominated in unit.
// Fiat input divides by the snapshot's USD price and fails with
// ErrPriceUnavailable when the price is missing or zero; it never falls back
// to zero as a sendable amount.
func (r *AmountResolver) Resolve(input string, unit AmountUnit, snapshot entities.TokenBalance) (*ResolvedAmount, error) {
	amount, err := decimal.NewFromString(input)
	if err != nil {
		return nil, fmt.Errorf("%w: amount %q", domainErrors.ErrInvalidInput, input)
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, fmt.Errorf("%w: amount must be positive", domainErrors.ErrInvalidInput)
	}

	switch unit {
	case UnitToken:
		tokenAmount := amount.Truncate(displayPrecision)
		return &ResolvedAmount{
			TokenAmount: tokenAmount,
			USDValue:    tokenAmount.Mul(snapshot.USDPrice),
			Snapshot:    snapshot,
		}, nil

	case UnitFiat:
		if snapshot.USDPrice.IsZero() {
			return nil, fmt.Errorf("%w: %s on %s", domainErrors.ErrPriceUnavailable, snapshot.Symbol, snapshot.Network)
		}
		tokenAmount := amount.DivRound(snapshot.USDPrice, int32(snapshot.Decimals))
		return &ResolvedAmount{
			TokenAmount: tokenAmount,
			USDValue:    amount,
			Snapshot:    snapshot,
		}, nil

	default:
		return nil, fmt.Errorf("%w: amount unit %q", domainErrors.ErrInvalidInput, unit)
	}
}

// ScaleToUnits converts a decimal token quantity to an integer in the token's
// smallest unit, truncating anything finer than the token can represent.
func ScaleToUnits(amount decimal.Decimal, decimals int) *big.Int {
	return amount.Truncate(int32(decimals)).Shift(int32(decimals)).BigInt()
}

// UnitsToDecimal converts a smallest-unit integer back to a token quantity.
func UnitsToDecimal(units *big.Int, decimals int) decimal.Decimal {
	return decimal.NewFromBigInt(units, 0).Shift(int32(-decimals))
}
