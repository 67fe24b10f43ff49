package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"blinkpay.backend/internal/domain/entities"
)

func registerBinding(env *testEnv, bankAccountID string) {
	binding := &entities.MerchantDepositBinding{
		MerchantID:     "merchant-1",
		DepositAddress: "0xMerchantDeposit",
		Currency:       "USD",
		Chain:          "ETH",
		FiatEnabled:    true,
	}
	if bankAccountID != "" {
		binding.BankAccountID = null.StringFrom(bankAccountID)
	}
	env.bindings.bindings = append(env.bindings.bindings, binding)
}

func depositBody(txHash string) map[string]interface{} {
	return map[string]interface{}{
		"destinationAddress": "0xmerchantdeposit",
		"amount":             "250.00",
		"currency":           "USD",
		"chain":              "ETH",
		"txHash":             txHash,
		"status":             "complete",
		"isFiatDeposit":      true,
	}
}

func TestDepositWebhookMatchesAndPaysOut(t *testing.T) {
	env := newTestEnv(t)
	registerBinding(env, "wire-1")

	w := postJSON(t, env, "/api/v1/webhooks/deposits", depositBody("0xDep1"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["matched"])

	assert.Len(t, env.settlements.records, 1)
	require.Len(t, env.payouts.calls, 1)
	assert.Equal(t, "payout:0xDep1", env.payouts.calls[0])
}

func TestDepositWebhookRedeliveryPaysOutOnce(t *testing.T) {
	env := newTestEnv(t)
	registerBinding(env, "wire-1")

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, postJSON(t, env, "/api/v1/webhooks/deposits", depositBody("0xDep1")).Code)
	}
	assert.Len(t, env.payouts.calls, 1)
}

func TestDepositWebhookUnknownAddressAcknowledged(t *testing.T) {
	env := newTestEnv(t)

	w := postJSON(t, env, "/api/v1/webhooks/deposits", depositBody("0xDep1"))
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["received"])
	assert.Equal(t, false, body["matched"])
	assert.Empty(t, env.payouts.calls)
}

func TestDepositWebhookRejectsEmptyEvent(t *testing.T) {
	env := newTestEnv(t)
	w := postJSON(t, env, "/api/v1/webhooks/deposits", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWSConnectRequiresValidToken(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/merchant"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL+"?token=garbage", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDepositWebhookMatchesLiveWalletWithoutBinding(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.router)
	defer server.Close()

	const wallet = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
	token, err := env.tokens.Issue(wallet)
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/merchant?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for env.hub.Connections(wallet) == 0 {
		require.True(t, time.Now().Before(deadline), "connection never joined the hub")
		time.Sleep(10 * time.Millisecond)
	}

	body := depositBody("0xDep1")
	body["destinationAddress"] = strings.ToLower(wallet)
	body["currency"] = "USDC"
	body["isFiatDeposit"] = false
	w := postJSON(t, env, "/api/v1/webhooks/deposits", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["matched"])

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(message), `"type":"deposit"`)

	require.Len(t, env.settlements.records, 1)
	assert.Equal(t, strings.ToLower(wallet), env.settlements.records[0].WalletAddress)
	assert.Empty(t, env.payouts.calls)
}

func TestWSConnectDeliversDepositNotification(t *testing.T) {
	env := newTestEnv(t)
	registerBinding(env, "")
	server := httptest.NewServer(env.router)
	defer server.Close()

	token, err := env.tokens.Issue("merchant-1")
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/merchant?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for env.hub.Connections("merchant-1") == 0 {
		require.True(t, time.Now().Before(deadline), "connection never joined the hub")
		time.Sleep(10 * time.Millisecond)
	}

	w := postJSON(t, env, "/api/v1/webhooks/deposits", depositBody("0xDep1"))
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(message), `"type":"deposit"`)
	assert.Contains(t, string(message), `"amount":"250.00"`)
}
