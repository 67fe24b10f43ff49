package fiat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"blinkpay.backend/internal/domain/entities"
	"blinkpay.backend/pkg/utils"
)

// CircleClient talks to the Circle sandbox business-account API: custodial
// deposit addresses, wire bank accounts, and fiat payouts.
type CircleClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewCircleClient(baseURL, apiKey string) *CircleClient {
	return &CircleClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// DepositAddress is a custodial blockchain address Circle credits USD for.
type DepositAddress struct {
	ID       string `json:"id"`
	Address  string `json:"address"`
	Currency string `json:"currency"`
	Chain    string `json:"chain"`
}

// WireAccount is a linked bank account payouts can be wired to.
type WireAccount struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// Payout is an initiated wire transfer from the business account.
type Payout struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Amount PayoutAmount `json:"amount"`
}

// PayoutAmount is a fiat amount with its currency.
type PayoutAmount struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// ListDepositAddresses returns all deposit addresses on the business account.
func (c *CircleClient) ListDepositAddresses(ctx context.Context) ([]DepositAddress, error) {
	var out struct {
		Data []DepositAddress `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/businessAccount/wallets/addresses/deposit", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateDepositAddress provisions a USD deposit address on the given chain.
func (c *CircleClient) CreateDepositAddress(ctx context.Context, currency, chain string) (*DepositAddress, error) {
	body := map[string]string{
		"idempotencyKey": utils.GenerateUUIDv7().String(),
		"currency":       currency,
		"chain":          chain,
	}
	var out struct {
		Data DepositAddress `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/businessAccount/wallets/addresses/deposit", body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// CreateWireAccount links a wire bank account for payouts.
func (c *CircleClient) CreateWireAccount(ctx context.Context, input *entities.LinkBankAccountInput) (*WireAccount, error) {
	body := map[string]interface{}{
		"idempotencyKey": utils.GenerateUUIDv7().String(),
		"accountNumber":  input.AccountNumber,
		"routingNumber":  input.RoutingNumber,
		"billingDetails": input.BillingDetail,
		"bankAddress":    input.BankAddress,
	}
	var out struct {
		Data WireAccount `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/businessAccount/banks/wires", body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// CreatePayout wires amount USD to a linked bank account. idempotencyKey must
// be stable per triggering deposit so retries never double-pay.
func (c *CircleClient) CreatePayout(ctx context.Context, idempotencyKey, bankAccountID, amount string) (*Payout, error) {
	body := map[string]interface{}{
		"idempotencyKey": idempotencyKey,
		"destination": map[string]string{
			"type": "wire",
			"id":   bankAccountID,
		},
		"amount": PayoutAmount{
			Amount:   amount,
			Currency: "USD",
		},
	}
	var out struct {
		Data Payout `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/businessAccount/payouts", body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *CircleClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("circle request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("circle request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
