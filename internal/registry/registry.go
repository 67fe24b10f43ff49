package registry

import (
	"fmt"
	"strings"

	domainerrors "blinkpay.backend/internal/domain/errors"
)

// ZeroAddress is the sentinel token address for a network's native currency.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// TokenDescriptor describes a token on a specific network. An empty
// ContractAddress means the network's native currency. Decimals must match the
// on-chain token exactly; amount math is scaled by it.
type TokenDescriptor struct {
	Symbol          string `json:"symbol"`
	Name            string `json:"name"`
	ContractAddress string `json:"contractAddress,omitempty"`
	Decimals        int    `json:"decimals"`
	PriceFeedID     string `json:"priceFeedId"`
}

// IsNative reports whether the token is the network's native currency.
func (t TokenDescriptor) IsNative() bool {
	return t.ContractAddress == ""
}

// Address returns the token's on-chain address, using the zero-address
// sentinel for native tokens the way bridge and swap contracts expect it.
func (t TokenDescriptor) Address() string {
	if t.IsNative() {
		return ZeroAddress
	}
	return t.ContractAddress
}

// NetworkDescriptor describes a supported chain. BridgeContract and
// ChainSelector are empty on networks without cross-chain infrastructure.
type NetworkDescriptor struct {
	Name           string            `json:"name"`
	ChainID        int64             `json:"chainId"`
	NativeCurrency TokenDescriptor   `json:"nativeCurrency"`
	Tokens         []TokenDescriptor `json:"tokens"`
	BridgeContract string            `json:"bridgeContract,omitempty"`
	ChainSelector  uint64            `json:"chainSelector,omitempty"`
	ExplorerTxURL  string            `json:"explorerTxUrl,omitempty"`
}

// Registry is the immutable catalog of supported networks and tokens. It is
// constructed once at startup and injected into the engine; lookups on missing
// entries fail with typed errors rather than defaulting.
type Registry struct {
	byName map[string]NetworkDescriptor
	order  []string
}

// New builds a registry from the given network descriptors. Duplicate network
// names are rejected.
func New(networks []NetworkDescriptor) (*Registry, error) {
	r := &Registry{byName: make(map[string]NetworkDescriptor, len(networks))}
	for _, n := range networks {
		if n.Name == "" {
			return nil, fmt.Errorf("network with empty name")
		}
		if _, dup := r.byName[n.Name]; dup {
			return nil, fmt.Errorf("duplicate network %q", n.Name)
		}
		r.byName[n.Name] = n
		r.order = append(r.order, n.Name)
	}
	return r, nil
}

// Networks returns all registered networks in registration order.
func (r *Registry) Networks() []NetworkDescriptor {
	out := make([]NetworkDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// NetworkByName looks up a network descriptor.
func (r *Registry) NetworkByName(name string) (NetworkDescriptor, error) {
	n, ok := r.byName[name]
	if !ok {
		return NetworkDescriptor{}, fmt.Errorf("%w: %s", domainerrors.ErrUnknownNetwork, name)
	}
	return n, nil
}

// TokenBySymbol looks up a token on a network, including the native currency.
func (r *Registry) TokenBySymbol(network, symbol string) (TokenDescriptor, error) {
	n, err := r.NetworkByName(network)
	if err != nil {
		return TokenDescriptor{}, err
	}
	if strings.EqualFold(n.NativeCurrency.Symbol, symbol) {
		return n.NativeCurrency, nil
	}
	for _, t := range n.Tokens {
		if strings.EqualFold(t.Symbol, symbol) {
			return t, nil
		}
	}
	return TokenDescriptor{}, fmt.Errorf("%w: %s on %s", domainerrors.ErrUnknownToken, symbol, network)
}

// TokenAddress resolves a token's on-chain address (zero-address for native).
// Unlike a defaulting map lookup this fails closed: an unknown token is an
// error, never the zero address.
func (r *Registry) TokenAddress(network, symbol string) (string, error) {
	t, err := r.TokenBySymbol(network, symbol)
	if err != nil {
		return "", err
	}
	return t.Address(), nil
}

// BridgeContract returns the bridge contract deployed on the network, or an
// ErrUnsupportedRoute-wrapped error when the network has none.
func (r *Registry) BridgeContract(network string) (string, error) {
	n, err := r.NetworkByName(network)
	if err != nil {
		return "", err
	}
	if n.BridgeContract == "" {
		return "", fmt.Errorf("%w: no bridge contract on %s", domainerrors.ErrUnsupportedRoute, network)
	}
	return n.BridgeContract, nil
}

// ChainSelector returns the protocol chain selector used to address the
// network as a bridge destination.
func (r *Registry) ChainSelector(network string) (uint64, error) {
	n, err := r.NetworkByName(network)
	if err != nil {
		return 0, err
	}
	if n.ChainSelector == 0 {
		return 0, fmt.Errorf("%w: no chain selector for %s", domainerrors.ErrUnsupportedRoute, network)
	}
	return n.ChainSelector, nil
}

// ExplorerTxURL builds the explorer link for a transaction hash. Fails closed
// on networks without a configured explorer instead of pointing at a default
// explorer that cannot know the transaction.
func (r *Registry) ExplorerTxURL(network, txHash string) (string, error) {
	n, err := r.NetworkByName(network)
	if err != nil {
		return "", err
	}
	if n.ExplorerTxURL == "" {
		return "", fmt.Errorf("%w: no explorer for %s", domainerrors.ErrUnknownNetwork, network)
	}
	return n.ExplorerTxURL + txHash, nil
}

// PriceFeedIDs collects the distinct price-feed identifiers of every
// registered token, for bulk oracle lookups.
func (r *Registry) PriceFeedIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, name := range r.order {
		n := r.byName[name]
		for _, t := range append([]TokenDescriptor{n.NativeCurrency}, n.Tokens...) {
			if t.PriceFeedID == "" {
				continue
			}
			if _, ok := seen[t.PriceFeedID]; ok {
				continue
			}
			seen[t.PriceFeedID] = struct{}{}
			ids = append(ids, t.PriceFeedID)
		}
	}
	return ids
}
