package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"blinkpay.backend/internal/domain/entities"
	domainErrors "blinkpay.backend/internal/domain/errors"
	"blinkpay.backend/internal/domain/repositories"
	"blinkpay.backend/pkg/logger"
)

// RecordContext carries the request details that belong in the history line
// but are not part of the on-chain outcome.
type RecordContext struct {
	Direction       entities.SettlementDirection
	Amount          string
	Currency        string
	ItemName        string
	Memo            string
	Network         string
	FromAddress     string
	ToAddress       string
	IsCirclePayment bool
}

// SettlementRecorder writes the per-wallet transaction history. Records keyed
// by tx hash are upsert-safe: the same hash recorded twice transitions status
// instead of duplicating. History is capped to the newest retention records.
type SettlementRecorder struct {
	repo      repositories.SettlementRepository
	retention int
}

func NewSettlementRecorder(repo repositories.SettlementRepository, retention int) *SettlementRecorder {
	return &SettlementRecorder{repo: repo, retention: retention}
}

// Record persists the outcome of an executed payment. A storage failure after
// on-chain success returns ErrNotRecorded: the funds moved, the history write
// did not, and the two must never be conflated.
func (r *SettlementRecorder) Record(ctx context.Context, walletAddress string, outcome *SettlementOutcome, rc *RecordContext) (*entities.SettlementRecord, error) {
	status := entities.SettlementStatusComplete
	if !outcome.Success {
		status = entities.SettlementStatusFailed
	}

	record := &entities.SettlementRecord{
		WalletAddress:   walletAddress,
		Direction:       rc.Direction,
		Amount:          rc.Amount,
		Currency:        rc.Currency,
		ItemName:        rc.ItemName,
		Network:         rc.Network,
		FromAddress:     rc.FromAddress,
		ToAddress:       rc.ToAddress,
		Status:          status,
		IsCirclePayment: rc.IsCirclePayment,
		Timestamp:       time.Now(),
	}
	if rc.Memo != "" {
		record.Memo = null.StringFrom(rc.Memo)
	}
	if outcome.TransactionHash != "" {
		record.TxHash = null.StringFrom(outcome.TransactionHash)
	}

	if err := r.repo.Upsert(ctx, record); err != nil {
		logger.Error(ctx, "settlement confirmed but history write failed",
			zap.String("wallet", walletAddress),
			zap.String("tx_hash", outcome.TransactionHash),
			zap.Error(err))
		if outcome.Success {
			return nil, fmt.Errorf("%w: %v", domainErrors.ErrNotRecorded, err)
		}
		return nil, err
	}

	if r.retention > 0 {
		if err := r.repo.TrimToLatest(ctx, walletAddress, r.retention); err != nil {
			// history cap is best-effort; the record itself is safe
			logger.Warn(ctx, "history trim failed",
				zap.String("wallet", walletAddress), zap.Error(err))
		}
	}

	return record, nil
}

// RecordDeposit writes a received entry for an inbound deposit event.
func (r *SettlementRecorder) RecordDeposit(ctx context.Context, walletAddress string, event *entities.DepositEvent) (*entities.SettlementRecord, error) {
	record := &entities.SettlementRecord{
		WalletAddress:   walletAddress,
		Direction:       entities.SettlementDirectionReceived,
		Amount:          event.Amount,
		Currency:        event.Currency,
		ItemName:        "Deposit",
		Network:         event.Chain,
		FromAddress:     event.FromAddress,
		ToAddress:       event.DestinationAddress,
		Status:          event.Status,
		IsCirclePayment: event.IsFiatDeposit,
		Timestamp:       time.Now(),
	}
	if event.TxHash != "" {
		record.TxHash = null.StringFrom(event.TxHash)
	}

	if err := r.repo.Upsert(ctx, record); err != nil {
		return nil, err
	}
	if r.retention > 0 {
		if err := r.repo.TrimToLatest(ctx, walletAddress, r.retention); err != nil {
			logger.Warn(ctx, "history trim failed",
				zap.String("wallet", walletAddress), zap.Error(err))
		}
	}
	return record, nil
}

// History lists a wallet's settlement records, newest first.
func (r *SettlementRecorder) History(ctx context.Context, walletAddress string, limit, offset int) ([]*entities.SettlementRecord, int, error) {
	return r.repo.ListByWallet(ctx, walletAddress, limit, offset)
}

// Get returns one of the wallet's records by id.
func (r *SettlementRecorder) Get(ctx context.Context, walletAddress, id string) (*entities.SettlementRecord, error) {
	return r.repo.GetByID(ctx, walletAddress, id)
}
