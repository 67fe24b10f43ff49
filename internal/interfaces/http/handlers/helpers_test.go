package handlers

import (
	"math/big"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"blinkpay.backend/internal/infrastructure/notify"
	"blinkpay.backend/internal/registry"
	"blinkpay.backend/internal/usecases"
	"blinkpay.backend/pkg/jwt"
)

// testEnv wires the full handler surface against in-memory backends.
type testEnv struct {
	router      *gin.Engine
	submitter   *stubSubmitter
	settlements *memSettlementRepo
	bindings    *memBindingRepo
	requests    *memRequestRepo
	payouts     *stubPayouts
	hub         *notify.Hub
	tokens      *jwt.ChannelTokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	reg := registry.Default()
	env := &testEnv{
		submitter:   &stubSubmitter{},
		settlements: &memSettlementRepo{},
		bindings:    &memBindingRepo{},
		requests:    &memRequestRepo{},
		payouts:     &stubPayouts{},
		hub:         notify.NewHub(),
		tokens:      jwt.NewChannelTokenService("handler-test-secret", time.Hour),
	}

	reader := &stubReader{
		native: big.NewInt(5_000_000_000_000_000_000),
		tokens: map[string]*big.Int{
			"0x1c7d4b196cb0c7b01d743fbc6116a902379c7238": big.NewInt(500_000_000),
		},
	}
	oracle := &stubOracle{prices: map[string]decimal.Decimal{
		"ethereum": decimal.NewFromInt(2000),
		"usd-coin": decimal.NewFromInt(1),
	}}

	balances := usecases.NewBalanceUsecase(reg,
		func(network string) (usecases.ChainReader, error) { return reader, nil }, oracle)
	recorder := usecases.NewSettlementRecorder(env.settlements, 100)
	requests := usecases.NewPaymentRequestUsecase(env.requests, reg)
	payments := usecases.NewPaymentUsecase(
		reg,
		usecases.NewRouteClassifier(reg),
		balances,
		usecases.NewAmountResolver(),
		usecases.NewPaymentOrchestrator(env.submitter, nil, time.Minute),
		recorder,
		requests,
	)
	fiatUsecase := usecases.NewMerchantFiatUsecase(env.bindings, &stubBridge{}, env.tokens)
	matcher := usecases.NewDepositMatcher(env.bindings, recorder, env.hub, env.payouts, rdb)

	paymentHandler := NewPaymentHandler(payments)
	settlementHandler := NewSettlementHandler(recorder, reg)
	balanceHandler := NewBalanceHandler(balances)
	requestHandler := NewPaymentRequestHandler(requests)
	merchantHandler := NewMerchantHandler(fiatUsecase)
	webhookHandler := NewWebhookHandler(matcher)
	wsHandler := NewWSHandler(env.hub, env.tokens)

	r := gin.New()
	v1 := r.Group("/api/v1")
	{
		v1.POST("/payments", paymentHandler.Pay)
		v1.POST("/payments/quote", paymentHandler.Quote)
		v1.GET("/wallets/:address/settlements", settlementHandler.History)
		v1.GET("/wallets/:address/settlements/:id", settlementHandler.Get)
		v1.GET("/wallets/:address/balances", balanceHandler.List)
		v1.GET("/wallets/:address/balances/:symbol", balanceHandler.Get)
		v1.POST("/payment-requests", requestHandler.Create)
		v1.GET("/payment-requests/:id", requestHandler.Get)
		v1.POST("/payment-requests/:id/complete", requestHandler.Complete)
		v1.GET("/merchants/:id/payment-requests", requestHandler.ListByMerchant)
		v1.POST("/merchants/:id/fiat-deposit", merchantHandler.SetupDeposit)
		v1.GET("/merchants/:id/fiat-deposit", merchantHandler.GetBinding)
		v1.POST("/merchants/:id/bank-account", merchantHandler.LinkBankAccount)
		v1.POST("/merchants/:id/channel-token", merchantHandler.IssueChannelToken)
		v1.POST("/webhooks/deposits", webhookHandler.HandleDeposit)
	}
	r.GET("/ws/merchant", wsHandler.Connect)

	env.router = r
	return env
}
