package registry

// Default networks the payment engine ships with. Bridge contracts are the
// BLINK deployments; chain selectors are CCIP selectors for the testnets that
// have bridge infrastructure. Networks without a bridge contract can only
// settle Direct routes.
func DefaultNetworks() []NetworkDescriptor {
	return []NetworkDescriptor{
		{
			Name:    "Sepolia",
			ChainID: 11155111,
			NativeCurrency: TokenDescriptor{
				Symbol: "ETH", Name: "Ethereum", Decimals: 18, PriceFeedID: "ethereum",
			},
			Tokens: []TokenDescriptor{
				{Symbol: "USDC", Name: "USD Coin", ContractAddress: "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238", Decimals: 6, PriceFeedID: "usd-coin"},
			},
			BridgeContract: "0xE220b9356fc15395dAf0037761bc8078dB39842b",
			ChainSelector:  16015286601757825753,
			ExplorerTxURL:  "https://sepolia.etherscan.io/tx/",
		},
		{
			Name:    "Avalanche Fuji",
			ChainID: 43113,
			NativeCurrency: TokenDescriptor{
				Symbol: "AVAX", Name: "Avalanche", Decimals: 18, PriceFeedID: "avalanche-2",
			},
			Tokens: []TokenDescriptor{
				{Symbol: "USDC", Name: "USD Coin", ContractAddress: "0x5425890298aed601595a70AB815c96711a31Bc65", Decimals: 6, PriceFeedID: "usd-coin"},
				{Symbol: "GUN", Name: "Gunzilla", ContractAddress: "0x26deBD39D5eD069770406FCa10A0E4f8d2c743eB", Decimals: 18, PriceFeedID: "gunz"},
			},
			BridgeContract: "0x02379E7bfD2DAe5162Ef5f18eA750E6acc1cff61",
			ChainSelector:  14767482510784806043,
			ExplorerTxURL:  "https://testnet.snowtrace.io/tx/",
		},
		{
			Name:    "Base Sepolia",
			ChainID: 84532,
			NativeCurrency: TokenDescriptor{
				Symbol: "ETH", Name: "Ethereum", Decimals: 18, PriceFeedID: "ethereum",
			},
			Tokens: []TokenDescriptor{
				{Symbol: "USDC", Name: "USD Coin", ContractAddress: "0x036CbD53842c5426634e7929541eC2318f3dCF7e", Decimals: 6, PriceFeedID: "usd-coin"},
				{Symbol: "cbBTC", Name: "Coinbase Wrapped BTC", ContractAddress: "0xcbB7C0006F23900c38EB856149F799620fcb8A4a", Decimals: 8, PriceFeedID: "coinbase-wrapped-btc"},
			},
			ExplorerTxURL: "https://sepolia.basescan.org/tx/",
		},
		{
			Name:    "Ethereum",
			ChainID: 1,
			NativeCurrency: TokenDescriptor{
				Symbol: "ETH", Name: "Ethereum", Decimals: 18, PriceFeedID: "ethereum",
			},
			Tokens: []TokenDescriptor{
				{Symbol: "USDC", Name: "USD Coin", ContractAddress: "0xA0b86a33E6729C167C9DcF34b44d2c3c570AaA3E", Decimals: 6, PriceFeedID: "usd-coin"},
				{Symbol: "USDT", Name: "Tether USD", ContractAddress: "0xdAC17F958D2ee523a2206206994597C13D831ec7", Decimals: 6, PriceFeedID: "tether"},
			},
			ExplorerTxURL: "https://etherscan.io/tx/",
		},
		{
			Name:    "Polygon",
			ChainID: 137,
			NativeCurrency: TokenDescriptor{
				Symbol: "MATIC", Name: "Polygon", Decimals: 18, PriceFeedID: "matic-network",
			},
			Tokens: []TokenDescriptor{
				{Symbol: "USDC", Name: "USD Coin", ContractAddress: "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174", Decimals: 6, PriceFeedID: "usd-coin"},
			},
			ExplorerTxURL: "https://polygonscan.com/tx/",
		},
		{
			Name:    "Avalanche",
			ChainID: 43114,
			NativeCurrency: TokenDescriptor{
				Symbol: "AVAX", Name: "Avalanche", Decimals: 18, PriceFeedID: "avalanche-2",
			},
			Tokens: []TokenDescriptor{
				{Symbol: "USDC", Name: "USD Coin", ContractAddress: "0xB97EF9Ef8734C71904D8002F8b6Bc66Dd9c48a6E", Decimals: 6, PriceFeedID: "usd-coin"},
			},
			ExplorerTxURL: "https://snowtrace.io/tx/",
		},
		{
			Name:    "Arbitrum",
			ChainID: 42161,
			NativeCurrency: TokenDescriptor{
				Symbol: "ETH", Name: "Ethereum", Decimals: 18, PriceFeedID: "ethereum",
			},
			Tokens: []TokenDescriptor{
				{Symbol: "USDC", Name: "USD Coin", ContractAddress: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831", Decimals: 6, PriceFeedID: "usd-coin"},
			},
			ExplorerTxURL: "https://arbiscan.io/tx/",
		},
	}
}

// Default returns a registry seeded with DefaultNetworks.
func Default() *Registry {
	r, err := New(DefaultNetworks())
	if err != nil {
		panic(err)
	}
	return r
}
