package usecases

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "blinkpay.backend/internal/domain/errors"
	"blinkpay.backend/internal/registry"
)

func newPaymentFixture(t *testing.T, submitter *fakeSubmitter) (*PaymentUsecase, *fakeSettlementRepo, *fakeRequestRepo) {
	t.Helper()
	reg := registry.Default()
	settlements := &fakeSettlementRepo{}
	requests := &fakeRequestRepo{}

	oracle := &fakeOracle{prices: map[string]decimal.Decimal{
		"ethereum":    decimal.NewFromInt(2000),
		"usd-coin":    decimal.NewFromInt(1),
		"avalanche-2": decimal.NewFromInt(40),
	}}

	u := NewPaymentUsecase(
		reg,
		NewRouteClassifier(reg),
		NewBalanceUsecase(reg, sepoliaReader(), oracle),
		NewAmountResolver(),
		NewPaymentOrchestrator(submitter, nil, time.Minute),
		NewSettlementRecorder(settlements, 100),
		NewPaymentRequestUsecase(requests, reg),
	)
	return u, settlements, requests
}

func usdcPayInput() *PayInput {
	return &PayInput{
		WalletAddress:    testSender,
		RecipientAddress: testRecipient,
		SourceNetwork:    "Sepolia",
		SourceToken:      "USDC",
		Amount:           "10.00",
		Unit:             UnitFiat,
		ItemName:         "Coffee",
	}
}

func TestGetQuoteDirectStablecoin(t *testing.T) {
	u, _, _ := newPaymentFixture(t, &fakeSubmitter{})

	quote, err := u.GetQuote(context.Background(), usdcPayInput())
	require.NoError(t, err)

	assert.Equal(t, RouteDirect, quote.RouteKind)
	assert.Equal(t, "10", quote.TokenAmount)
	assert.Equal(t, "10", quote.USDValue)
	assert.False(t, quote.InsufficientBalance)
	assert.False(t, quote.CrossChain)
	// destination defaults to the source
	assert.Equal(t, "Sepolia", quote.DestinationNetwork)
	assert.Equal(t, "USDC", quote.DestinationToken)
}

func TestGetQuoteSubmitsNothing(t *testing.T) {
	submitter := &fakeSubmitter{}
	u, _, _ := newPaymentFixture(t, submitter)

	_, err := u.GetQuote(context.Background(), usdcPayInput())
	require.NoError(t, err)
	assert.Zero(t, submitter.count())
}

func TestGetQuoteInsufficientBalance(t *testing.T) {
	u, _, _ := newPaymentFixture(t, &fakeSubmitter{})

	input := usdcPayInput()
	input.Amount = "1000000"
	quote, err := u.GetQuote(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, quote.InsufficientBalance)
}

func TestPayDirectRecordsHistory(t *testing.T) {
	u, settlements, _ := newPaymentFixture(t, &fakeSubmitter{})

	result, err := u.Pay(context.Background(), usdcPayInput())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "0xhash", result.TransactionHash)
	assert.Equal(t, "https://sepolia.etherscan.io/tx/0xhash", result.ExplorerURL)
	require.NotNil(t, result.Record)

	require.Len(t, settlements.records, 1)
	assert.Equal(t, "10", settlements.records[0].Amount)
	assert.Equal(t, "USDC", settlements.records[0].Currency)
}

func TestPayFailedExecutionStillRecorded(t *testing.T) {
	submitter := &fakeSubmitter{errs: []error{errBoom}}
	u, settlements, _ := newPaymentFixture(t, submitter)

	result, err := u.Pay(context.Background(), usdcPayInput())
	assert.ErrorIs(t, err, domainErrors.ErrSettlementFailed)
	assert.False(t, result.Success)

	require.Len(t, settlements.records, 1)
	assert.Equal(t, "failed", string(settlements.records[0].Status))
}

func TestPayCompletesLinkedRequest(t *testing.T) {
	u, _, _ := newPaymentFixture(t, &fakeSubmitter{})

	stored, err := u.requests.Create(context.Background(), requestInput())
	require.NoError(t, err)

	input := usdcPayInput()
	input.RequestID = stored.RequestID
	_, err = u.Pay(context.Background(), input)
	require.NoError(t, err)

	got, err := u.requests.Get(context.Background(), stored.RequestID)
	require.NoError(t, err)
	assert.Equal(t, "completed", string(got.Status))
	assert.Equal(t, "0xhash", got.TxHash)
}

func TestPayUnknownTokenFailsBeforeSubmission(t *testing.T) {
	submitter := &fakeSubmitter{}
	u, settlements, _ := newPaymentFixture(t, submitter)

	input := usdcPayInput()
	input.SourceToken = "DOGE"
	_, err := u.Pay(context.Background(), input)
	assert.ErrorIs(t, err, domainErrors.ErrUnknownToken)
	assert.Zero(t, submitter.count())
	assert.Empty(t, settlements.records)
}

func TestPayInsufficientBalanceFailsBeforeSubmission(t *testing.T) {
	submitter := &fakeSubmitter{}
	u, _, _ := newPaymentFixture(t, submitter)

	input := usdcPayInput()
	input.Amount = "1000000"
	_, err := u.Pay(context.Background(), input)
	assert.ErrorIs(t, err, domainErrors.ErrInsufficientBalance)
	assert.Zero(t, submitter.count())
}

func TestPayNativeTokenAmount(t *testing.T) {
	submitter := &fakeSubmitter{}
	u, _, _ := newPaymentFixture(t, submitter)

	input := &PayInput{
		WalletAddress:    testSender,
		RecipientAddress: testRecipient,
		SourceNetwork:    "Sepolia",
		SourceToken:      "ETH",
		Amount:           "0.5",
		Unit:             UnitToken,
	}
	result, err := u.Pay(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, result.Success)

	require.Equal(t, 1, submitter.count())
	expected, _ := new(big.Int).SetString("500000000000000000", 10)
	assert.Equal(t, expected, submitter.submissions[0].Value)
}

func TestParseAmountUnit(t *testing.T) {
	unit, err := ParseAmountUnit("")
	require.NoError(t, err)
	assert.Equal(t, UnitFiat, unit)

	unit, err = ParseAmountUnit("token")
	require.NoError(t, err)
	assert.Equal(t, UnitToken, unit)

	_, err = ParseAmountUnit("bushels")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidInput)
}
