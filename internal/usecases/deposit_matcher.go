package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"blinkpay.backend/internal/domain/entities"
	domainErrors "blinkpay.backend/internal/domain/errors"
	"blinkpay.backend/internal/domain/repositories"
	"blinkpay.backend/internal/infrastructure/fiat"
	"blinkpay.backend/pkg/logger"
)

// Notifier pushes a payload to a channel's live connections and reports how
// many received it. Channels are keyed by merchant id or wallet address,
// matched case-insensitively.
type Notifier interface {
	Notify(merchantID string, payload interface{}) int
	Connections(merchantID string) int
}

// PayoutInitiator wires fiat to a linked bank account.
type PayoutInitiator interface {
	CreatePayout(ctx context.Context, idempotencyKey, bankAccountID, amount string) (*fiat.Payout, error)
}

// payoutClaimTTL bounds how long a deposit hash stays claimed. Circle's own
// idempotency key is the durable guarantee; the claim only spares the API a
// redundant call on fast webhook redelivery.
const payoutClaimTTL = 24 * time.Hour

// DepositMatcher routes inbound deposit events to the owning merchant:
// real-time notification to live connections, a history entry, and, for
// completed fiat deposits, a single automatic payout.
type DepositMatcher struct {
	bindings repositories.MerchantBindingRepository
	recorder *SettlementRecorder
	notifier Notifier
	payouts  PayoutInitiator
	rdb      *redis.Client
}

func NewDepositMatcher(
	bindings repositories.MerchantBindingRepository,
	recorder *SettlementRecorder,
	notifier Notifier,
	payouts PayoutInitiator,
	rdb *redis.Client,
) *DepositMatcher {
	return &DepositMatcher{
		bindings: bindings,
		recorder: recorder,
		notifier: notifier,
		payouts:  payouts,
		rdb:      rdb,
	}
}

// DepositNotification is the payload pushed over the merchant channel.
type DepositNotification struct {
	Type     string `json:"type"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Chain    string `json:"chain"`
	TxHash   string `json:"txHash,omitempty"`
	Status   string `json:"status"`
}

// HandleEvent processes one deposit event. Address matching is
// case-insensitive on both sides: the destination is matched against the
// registered deposit bindings first, then against live wallet connections for
// deposits sent straight to a wallet. An address neither path recognizes
// returns ErrMerchantNotFound. Delivery is best-effort: a merchant with no
// live connection gets nothing and the event is not queued.
func (m *DepositMatcher) HandleEvent(ctx context.Context, event *entities.DepositEvent) error {
	binding, err := m.bindings.GetByDepositAddress(ctx, event.DestinationAddress)
	if err != nil {
		if errors.Is(err, domainErrors.ErrMerchantNotFound) {
			return m.handleWalletDeposit(ctx, event)
		}
		return err
	}

	m.deliver(ctx, binding.DepositAddress, binding.MerchantID, event)

	if event.Status == entities.SettlementStatusComplete && event.IsFiatDeposit {
		return m.initiatePayout(ctx, binding, event)
	}
	return nil
}

// handleWalletDeposit covers transfers sent straight to a wallet address with
// no fiat binding. The wallet itself is the channel key; no binding means no
// bank account, so these never pay out.
func (m *DepositMatcher) handleWalletDeposit(ctx context.Context, event *entities.DepositEvent) error {
	if m.notifier.Connections(event.DestinationAddress) == 0 {
		return fmt.Errorf("%w: no binding or live wallet for %s",
			domainErrors.ErrMerchantNotFound, event.DestinationAddress)
	}
	m.deliver(ctx, event.DestinationAddress, event.DestinationAddress, event)
	return nil
}

// deliver writes the history entry and pushes the notification. historyKey
// owns the settlement record; channelID names the live connection channel.
func (m *DepositMatcher) deliver(ctx context.Context, historyKey, channelID string, event *entities.DepositEvent) {
	if _, err := m.recorder.RecordDeposit(ctx, historyKey, event); err != nil {
		logger.Error(ctx, "deposit recorded on-chain but history write failed",
			zap.String("channel", channelID),
			zap.String("tx_hash", event.TxHash),
			zap.Error(err))
	}

	delivered := m.notifier.Notify(channelID, &DepositNotification{
		Type:     "deposit",
		Amount:   event.Amount,
		Currency: event.Currency,
		Chain:    event.Chain,
		TxHash:   event.TxHash,
		Status:   string(event.Status),
	})
	if delivered == 0 {
		// accepted best-effort gap: no replay on reconnect
		logger.Warn(ctx, "notification delivery miss",
			zap.String("channel", channelID),
			zap.String("tx_hash", event.TxHash))
		depositsMatchedTotal.WithLabelValues("missed").Inc()
	} else {
		depositsMatchedTotal.WithLabelValues("delivered").Inc()
	}
}

// initiatePayout wires the deposited amount out once per deposit event. The
// claim key is the deposit tx hash, so webhook redelivery of the same event
// can never double-pay.
func (m *DepositMatcher) initiatePayout(ctx context.Context, binding *entities.MerchantDepositBinding, event *entities.DepositEvent) error {
	if !binding.BankAccountID.Valid || binding.BankAccountID.String == "" {
		logger.Debug(ctx, "deposit complete but no bank account linked",
			zap.String("merchant_id", binding.MerchantID))
		return nil
	}

	idempotencyKey := "payout:" + event.TxHash
	claimed, err := m.rdb.SetNX(ctx, idempotencyKey, binding.MerchantID, payoutClaimTTL).Result()
	if err != nil {
		return err
	}
	if !claimed {
		logger.Debug(ctx, "payout already initiated for deposit",
			zap.String("tx_hash", event.TxHash))
		return nil
	}

	payout, err := m.payouts.CreatePayout(ctx, idempotencyKey, binding.BankAccountID.String, event.Amount)
	if err != nil {
		// release the claim so a later redelivery can retry
		m.rdb.Del(ctx, idempotencyKey)
		return err
	}

	payoutsInitiatedTotal.Inc()
	logger.Info(ctx, "automatic payout initiated",
		zap.String("merchant_id", binding.MerchantID),
		zap.String("payout_id", payout.ID),
		zap.String("amount", event.Amount))
	return nil
}
