package usecases

import (
	"context"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"blinkpay.backend/internal/domain/entities"
	"blinkpay.backend/internal/registry"
)

// PriceOracle returns USD prices per feed id; missing ids are absent.
type PriceOracle interface {
	GetUSDPrices(ctx context.Context, feedIDs []string) (map[string]decimal.Decimal, error)
}

// ChainReader reads balances from one network.
type ChainReader interface {
	GetBalance(ctx context.Context, address string) (*big.Int, error)
	GetTokenBalance(ctx context.Context, tokenAddress, ownerAddress string) (*big.Int, error)
}

// ChainReaderProvider resolves the reader for a network by name.
type ChainReaderProvider func(network string) (ChainReader, error)

// BalanceUsecase assembles TokenBalance snapshots. Each snapshot carries the
// balance and the USD price from the same fetch; resolution and
// insufficient-balance checks both read the snapshot so a price update can
// never race between them.
type BalanceUsecase struct {
	registry *registry.Registry
	readers  ChainReaderProvider
	oracle   PriceOracle
}

func NewBalanceUsecase(reg *registry.Registry, readers ChainReaderProvider, oracle PriceOracle) *BalanceUsecase {
	return &BalanceUsecase{registry: reg, readers: readers, oracle: oracle}
}

// Snapshot fetches the wallet's balance of one token together with its
// current USD price. A missing price yields a zero-price snapshot; fiat
// resolution against it fails with ErrPriceUnavailable rather than here,
// since token-denominated sends don't need a price.
func (u *BalanceUsecase) Snapshot(ctx context.Context, network, symbol, walletAddress string) (*entities.TokenBalance, error) {
	token, err := u.registry.TokenBySymbol(network, symbol)
	if err != nil {
		return nil, err
	}

	reader, err := u.readers(network)
	if err != nil {
		return nil, err
	}

	var raw *big.Int
	if token.IsNative() {
		raw, err = reader.GetBalance(ctx, walletAddress)
	} else {
		raw, err = reader.GetTokenBalance(ctx, token.ContractAddress, walletAddress)
	}
	if err != nil {
		return nil, fmt.Errorf("read balance: %w", err)
	}

	prices, err := u.oracle.GetUSDPrices(ctx, []string{token.PriceFeedID})
	if err != nil {
		return nil, err
	}
	price := prices[token.PriceFeedID] // zero when absent

	balance := UnitsToDecimal(raw, token.Decimals)
	return &entities.TokenBalance{
		Network:         network,
		Symbol:          token.Symbol,
		Name:            token.Name,
		ContractAddress: token.ContractAddress,
		Decimals:        token.Decimals,
		Balance:         balance,
		USDPrice:        price,
		USDValue:        balance.Mul(price),
	}, nil
}

// SnapshotAll returns snapshots for every token registered on a network with
// a single price fetch.
func (u *BalanceUsecase) SnapshotAll(ctx context.Context, network, walletAddress string) ([]*entities.TokenBalance, error) {
	net, err := u.registry.NetworkByName(network)
	if err != nil {
		return nil, err
	}
	reader, err := u.readers(network)
	if err != nil {
		return nil, err
	}

	feedIDs := make([]string, 0, len(net.Tokens)+1)
	feedIDs = append(feedIDs, net.NativeCurrency.PriceFeedID)
	for _, t := range net.Tokens {
		feedIDs = append(feedIDs, t.PriceFeedID)
	}
	prices, err := u.oracle.GetUSDPrices(ctx, feedIDs)
	if err != nil {
		return nil, err
	}

	tokens := append([]registry.TokenDescriptor{net.NativeCurrency}, net.Tokens...)
	snapshots := make([]*entities.TokenBalance, 0, len(tokens))
	for _, token := range tokens {
		var raw *big.Int
		if token.IsNative() {
			raw, err = reader.GetBalance(ctx, walletAddress)
		} else {
			raw, err = reader.GetTokenBalance(ctx, token.ContractAddress, walletAddress)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s balance: %w", token.Symbol, err)
		}

		price := prices[token.PriceFeedID]
		balance := UnitsToDecimal(raw, token.Decimals)
		snapshots = append(snapshots, &entities.TokenBalance{
			Network:         network,
			Symbol:          token.Symbol,
			Name:            token.Name,
			ContractAddress: token.ContractAddress,
			Decimals:        token.Decimals,
			Balance:         balance,
			USDPrice:        price,
			USDValue:        balance.Mul(price),
		})
	}
	return snapshots, nil
}
