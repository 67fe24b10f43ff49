package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"blinkpay.backend/pkg/logger"
)

const expiryBatchSize = 100

// StaleExpirer sweeps pending requests past their deadline.
type StaleExpirer interface {
	ExpireStale(ctx context.Context, batchSize int) (int, error)
}

// PaymentRequestExpiryJob periodically expires stale payment requests so a
// QR code left on a table cannot be paid hours later.
type PaymentRequestExpiryJob struct {
	expirer  StaleExpirer
	interval time.Duration
	stop     chan struct{}
}

func NewPaymentRequestExpiryJob(expirer StaleExpirer, interval time.Duration) *PaymentRequestExpiryJob {
	return &PaymentRequestExpiryJob{
		expirer:  expirer,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called or ctx is cancelled.
func (j *PaymentRequestExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "payment request expiry job started",
		zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "payment request expiry job stopped")
			return
		case <-j.stop:
			logger.Info(ctx, "payment request expiry job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *PaymentRequestExpiryJob) Stop() {
	close(j.stop)
}

func (j *PaymentRequestExpiryJob) sweep(ctx context.Context) {
	count, err := j.expirer.ExpireStale(ctx, expiryBatchSize)
	if err != nil {
		logger.Error(ctx, "payment request expiry sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		logger.Info(ctx, "expired stale payment requests", zap.Int("count", count))
	}
}
