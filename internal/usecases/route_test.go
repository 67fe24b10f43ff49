package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "blinkpay.backend/internal/domain/errors"
	"blinkpay.backend/internal/registry"
)

func TestClassifyDirect(t *testing.T) {
	c := NewRouteClassifier(registry.Default())

	route, err := c.Classify("Sepolia", "USDC", "Sepolia", "USDC")
	require.NoError(t, err)
	assert.Equal(t, RouteDirect, route.Kind)
	assert.False(t, route.IsCrossChain())
	assert.Zero(t, route.ChainSelector)
}

func TestClassifyDirectIdentityForAllRegisteredTokens(t *testing.T) {
	reg := registry.Default()
	c := NewRouteClassifier(reg)

	for _, net := range reg.Networks() {
		tokens := append([]registry.TokenDescriptor{net.NativeCurrency}, net.Tokens...)
		for _, tok := range tokens {
			route, err := c.Classify(net.Name, tok.Symbol, net.Name, tok.Symbol)
			require.NoError(t, err, "%s/%s", net.Name, tok.Symbol)
			assert.Equal(t, RouteDirect, route.Kind, "%s/%s", net.Name, tok.Symbol)
		}
	}
}

func TestClassifySameChainSwap(t *testing.T) {
	c := NewRouteClassifier(registry.Default())

	route, err := c.Classify("Sepolia", "ETH", "Sepolia", "USDC")
	require.NoError(t, err)
	assert.Equal(t, RouteSameChainSwap, route.Kind)
	assert.NotEmpty(t, route.SourceBridge)
	assert.Zero(t, route.ChainSelector)
}

func TestClassifyCrossChainBridge(t *testing.T) {
	c := NewRouteClassifier(registry.Default())

	route, err := c.Classify("Avalanche Fuji", "AVAX", "Sepolia", "USDC")
	require.NoError(t, err)
	assert.Equal(t, RouteCrossChainBridge, route.Kind)
	assert.True(t, route.IsCrossChain())
	assert.NotEmpty(t, route.SourceBridge)
	assert.NotEmpty(t, route.DestinationBridge)
	assert.NotZero(t, route.ChainSelector)
}

func TestClassifySwapWithoutPaymentContractFails(t *testing.T) {
	c := NewRouteClassifier(registry.Default())

	// Base Sepolia has no payment contract, so swaps have nowhere to run
	_, err := c.Classify("Base Sepolia", "ETH", "Base Sepolia", "USDC")
	assert.ErrorIs(t, err, domainErrors.ErrUnsupportedRoute)
}

func TestClassifyCrossChainWithoutBridgeFails(t *testing.T) {
	c := NewRouteClassifier(registry.Default())

	// Base Sepolia has no bridge contract registered
	_, err := c.Classify("Base Sepolia", "USDC", "Sepolia", "USDC")
	assert.ErrorIs(t, err, domainErrors.ErrUnsupportedRoute)

	_, err = c.Classify("Sepolia", "USDC", "Base Sepolia", "USDC")
	assert.ErrorIs(t, err, domainErrors.ErrUnsupportedRoute)
}

func TestClassifyUnknownInputsFailClosed(t *testing.T) {
	c := NewRouteClassifier(registry.Default())

	_, err := c.Classify("Atlantis", "USDC", "Sepolia", "USDC")
	assert.ErrorIs(t, err, domainErrors.ErrUnknownNetwork)

	_, err = c.Classify("Sepolia", "DOGE", "Sepolia", "USDC")
	assert.ErrorIs(t, err, domainErrors.ErrUnknownToken)
}

func TestClassifyIsIdempotent(t *testing.T) {
	c := NewRouteClassifier(registry.Default())

	pairs := [][4]string{
		{"Sepolia", "USDC", "Sepolia", "USDC"},
		{"Sepolia", "ETH", "Sepolia", "USDC"},
		{"Avalanche Fuji", "AVAX", "Sepolia", "USDC"},
	}
	for _, p := range pairs {
		first, err := c.Classify(p[0], p[1], p[2], p[3])
		require.NoError(t, err)
		second, err := c.Classify(p[0], p[1], p[2], p[3])
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}
