package repositories

import (
	"context"

	"blinkpay.backend/internal/domain/entities"
)

// SettlementRepository defines settlement-history data operations. History is
// keyed by wallet address; Upsert deduplicates on (wallet, tx hash) so that
// recording the same hash twice transitions status instead of duplicating.
type SettlementRepository interface {
	Create(ctx context.Context, record *entities.SettlementRecord) error
	Upsert(ctx context.Context, record *entities.SettlementRecord) error
	GetByID(ctx context.Context, walletAddress, id string) (*entities.SettlementRecord, error)
	GetByTxHash(ctx context.Context, walletAddress, txHash string) (*entities.SettlementRecord, error)
	ListByWallet(ctx context.Context, walletAddress string, limit, offset int) ([]*entities.SettlementRecord, int, error)
	UpdateStatus(ctx context.Context, walletAddress, id string, status entities.SettlementStatus, txHash string) error
	// TrimToLatest drops everything past the newest keep records for a wallet.
	TrimToLatest(ctx context.Context, walletAddress string, keep int) error
}
