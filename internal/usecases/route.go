package usecases

import (
	"fmt"

	domainErrors "blinkpay.backend/internal/domain/errors"
	"blinkpay.backend/internal/registry"
)

// RouteKind is the settlement strategy for a source/destination pair.
type RouteKind string

const (
	RouteDirect           RouteKind = "direct"
	RouteSameChainSwap    RouteKind = "same_chain_swap"
	RouteCrossChainBridge RouteKind = "cross_chain_bridge"
)

// Route is a computed settlement decision. It is derived, never persisted;
// any change to amount, network or token recomputes it from scratch.
type Route struct {
	Kind               RouteKind
	SourceNetwork      registry.NetworkDescriptor
	SourceToken        registry.TokenDescriptor
	DestinationNetwork registry.NetworkDescriptor
	DestinationToken   registry.TokenDescriptor
	// Bridge fields are set only for cross-chain routes.
	SourceBridge      string
	DestinationBridge string
	ChainSelector     uint64
}

// IsCrossChain reports whether settlement leaves the source network.
func (r *Route) IsCrossChain() bool {
	return r.Kind == RouteCrossChainBridge
}

// RouteClassifier decides how a payment settles. Classification is pure:
// identical inputs always produce the identical route, and a cross-chain pair
// without bridge infrastructure is rejected before any transaction exists.
type RouteClassifier struct {
	registry *registry.Registry
}

func NewRouteClassifier(reg *registry.Registry) *RouteClassifier {
	return &RouteClassifier{registry: reg}
}

// Classify resolves the descriptors for both ends and picks the strategy.
func (c *RouteClassifier) Classify(sourceNetwork, sourceToken, destNetwork, destToken string) (*Route, error) {
	srcNet, err := c.registry.NetworkByName(sourceNetwork)
	if err != nil {
		return nil, err
	}
	srcTok, err := c.registry.TokenBySymbol(sourceNetwork, sourceToken)
	if err != nil {
		return nil, err
	}
	dstNet, err := c.registry.NetworkByName(destNetwork)
	if err != nil {
		return nil, err
	}
	dstTok, err := c.registry.TokenBySymbol(destNetwork, destToken)
	if err != nil {
		return nil, err
	}

	route := &Route{
		SourceNetwork:      srcNet,
		SourceToken:        srcTok,
		DestinationNetwork: dstNet,
		DestinationToken:   dstTok,
	}

	if srcNet.Name == dstNet.Name {
		if srcTok.Symbol == dstTok.Symbol {
			route.Kind = RouteDirect
			return route, nil
		}
		route.Kind = RouteSameChainSwap
		// swaps run through the payment contract on the source chain
		bridge, err := c.registry.BridgeContract(srcNet.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s has no payment contract", domainErrors.ErrUnsupportedRoute, srcNet.Name)
		}
		route.SourceBridge = bridge
		return route, nil
	}

	sourceBridge, err := c.registry.BridgeContract(srcNet.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s has no bridge contract", domainErrors.ErrUnsupportedRoute, srcNet.Name)
	}
	destBridge, err := c.registry.BridgeContract(dstNet.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s has no bridge contract", domainErrors.ErrUnsupportedRoute, dstNet.Name)
	}
	selector, err := c.registry.ChainSelector(dstNet.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s has no chain selector", domainErrors.ErrUnsupportedRoute, dstNet.Name)
	}

	route.Kind = RouteCrossChainBridge
	route.SourceBridge = sourceBridge
	route.DestinationBridge = destBridge
	route.ChainSelector = selector
	return route, nil
}
