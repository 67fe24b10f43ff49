package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CoinGeckoClient fetches USD spot prices from the CoinGecko simple price API.
type CoinGeckoClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCoinGeckoClient creates a client against baseURL (the /api/v3 root).
func NewCoinGeckoClient(baseURL string) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetUSDPrices returns the USD price for each known feed id. Ids the API does
// not know are simply absent from the result; callers treat a missing id as
// price-unavailable.
func (c *CoinGeckoClient) GetUSDPrices(ctx context.Context, feedIDs []string) (map[string]decimal.Decimal, error) {
	if len(feedIDs) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd",
		c.baseURL, url.QueryEscape(strings.Join(feedIDs, ",")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch prices: unexpected status %d", resp.StatusCode)
	}

	var body map[string]map[string]decimal.Decimal
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode prices: %w", err)
	}

	prices := make(map[string]decimal.Decimal, len(body))
	for id, quote := range body {
		if usd, ok := quote["usd"]; ok {
			prices[id] = usd
		}
	}
	return prices, nil
}
