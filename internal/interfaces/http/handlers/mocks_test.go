package handlers

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"blinkpay.backend/internal/domain/entities"
	domainerrors "blinkpay.backend/internal/domain/errors"
	"blinkpay.backend/internal/infrastructure/fiat"
	"blinkpay.backend/internal/usecases"
	"blinkpay.backend/pkg/utils"
)

type stubSubmitter struct {
	submissions []*entities.PreparedTx
	err         error
}

func (s *stubSubmitter) Submit(ctx context.Context, tx *entities.PreparedTx) (*entities.TxResult, error) {
	s.submissions = append(s.submissions, tx)
	if s.err != nil {
		return nil, s.err
	}
	return &entities.TxResult{Hash: "0xsettled", Success: true}, nil
}

type stubOracle struct {
	prices map[string]decimal.Decimal
}

func (o *stubOracle) GetUSDPrices(ctx context.Context, ids []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for _, id := range ids {
		if p, ok := o.prices[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type stubReader struct {
	native *big.Int
	tokens map[string]*big.Int
}

func (r *stubReader) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	if r.native == nil {
		return big.NewInt(0), nil
	}
	return r.native, nil
}

func (r *stubReader) GetTokenBalance(ctx context.Context, tokenAddress, owner string) (*big.Int, error) {
	if b, ok := r.tokens[strings.ToLower(tokenAddress)]; ok {
		return b, nil
	}
	return big.NewInt(0), nil
}

type memSettlementRepo struct {
	records []*entities.SettlementRecord
}

func (r *memSettlementRepo) Create(ctx context.Context, record *entities.SettlementRecord) error {
	return r.Upsert(ctx, record)
}

func (r *memSettlementRepo) Upsert(ctx context.Context, record *entities.SettlementRecord) error {
	if record.TxHash.Valid {
		for _, existing := range r.records {
			if strings.EqualFold(existing.WalletAddress, record.WalletAddress) &&
				existing.TxHash.Valid &&
				strings.EqualFold(existing.TxHash.String, record.TxHash.String) {
				existing.Status = record.Status
				return nil
			}
		}
	}
	if record.ID == "" {
		record.ID = utils.GenerateUUIDv7().String()
	}
	r.records = append(r.records, record)
	return nil
}

func (r *memSettlementRepo) GetByID(ctx context.Context, wallet, id string) (*entities.SettlementRecord, error) {
	for _, rec := range r.records {
		if rec.ID == id && strings.EqualFold(rec.WalletAddress, wallet) {
			return rec, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (r *memSettlementRepo) GetByTxHash(ctx context.Context, wallet, txHash string) (*entities.SettlementRecord, error) {
	for _, rec := range r.records {
		if rec.TxHash.Valid && strings.EqualFold(rec.TxHash.String, txHash) {
			return rec, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (r *memSettlementRepo) ListByWallet(ctx context.Context, wallet string, limit, offset int) ([]*entities.SettlementRecord, int, error) {
	var out []*entities.SettlementRecord
	for _, rec := range r.records {
		if strings.EqualFold(rec.WalletAddress, wallet) {
			out = append(out, rec)
		}
	}
	total := len(out)
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *memSettlementRepo) UpdateStatus(ctx context.Context, wallet, id string, status entities.SettlementStatus, txHash string) error {
	rec, err := r.GetByID(ctx, wallet, id)
	if err != nil {
		return err
	}
	rec.Status = status
	return nil
}

func (r *memSettlementRepo) TrimToLatest(ctx context.Context, wallet string, keep int) error {
	return nil
}

type memBindingRepo struct {
	bindings []*entities.MerchantDepositBinding
}

func (r *memBindingRepo) GetByMerchantID(ctx context.Context, merchantID string) (*entities.MerchantDepositBinding, error) {
	for _, b := range r.bindings {
		if b.MerchantID == merchantID {
			return b, nil
		}
	}
	return nil, domainerrors.ErrMerchantNotFound
}

func (r *memBindingRepo) GetByDepositAddress(ctx context.Context, address string) (*entities.MerchantDepositBinding, error) {
	for _, b := range r.bindings {
		if strings.EqualFold(b.DepositAddress, address) {
			return b, nil
		}
	}
	return nil, domainerrors.ErrMerchantNotFound
}

func (r *memBindingRepo) Save(ctx context.Context, binding *entities.MerchantDepositBinding) error {
	for i, b := range r.bindings {
		if b.MerchantID == binding.MerchantID {
			binding.ID = b.ID
			r.bindings[i] = binding
			return nil
		}
	}
	r.bindings = append(r.bindings, binding)
	return nil
}

func (r *memBindingRepo) SetBankAccount(ctx context.Context, merchantID, bankAccountID string) error {
	for _, b := range r.bindings {
		if b.MerchantID == merchantID {
			b.BankAccountID.SetValid(bankAccountID)
			return nil
		}
	}
	return domainerrors.ErrMerchantNotFound
}

type memRequestRepo struct {
	requests []*entities.StoredPaymentRequest
}

func (r *memRequestRepo) Create(ctx context.Context, request *entities.StoredPaymentRequest) error {
	request.ID = utils.GenerateUUIDv7()
	r.requests = append(r.requests, request)
	return nil
}

func (r *memRequestRepo) GetByRequestID(ctx context.Context, requestID string) (*entities.StoredPaymentRequest, error) {
	for _, req := range r.requests {
		if req.RequestID == requestID {
			return req, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (r *memRequestRepo) ListByMerchant(ctx context.Context, merchantID string, limit, offset int) ([]*entities.StoredPaymentRequest, int, error) {
	var out []*entities.StoredPaymentRequest
	for _, req := range r.requests {
		if req.Request.MerchantID == merchantID {
			out = append(out, req)
		}
	}
	return out, len(out), nil
}

func (r *memRequestRepo) MarkCompleted(ctx context.Context, id uuid.UUID, txHash string) error {
	for _, req := range r.requests {
		if req.ID == id {
			req.Status = entities.PaymentRequestStatusCompleted
			req.TxHash = txHash
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

func (r *memRequestRepo) GetExpiredPending(ctx context.Context, before time.Time, limit int) ([]*entities.StoredPaymentRequest, error) {
	var out []*entities.StoredPaymentRequest
	for _, req := range r.requests {
		if req.Status == entities.PaymentRequestStatusPending && req.ExpiresAt.Before(before) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *memRequestRepo) ExpireRequests(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		for _, req := range r.requests {
			if req.ID == id {
				req.Status = entities.PaymentRequestStatusExpired
			}
		}
	}
	return nil
}

type stubBridge struct {
	addresses []fiat.DepositAddress
}

func (b *stubBridge) ListDepositAddresses(ctx context.Context) ([]fiat.DepositAddress, error) {
	return b.addresses, nil
}

func (b *stubBridge) CreateDepositAddress(ctx context.Context, currency, chain string) (*fiat.DepositAddress, error) {
	addr := fiat.DepositAddress{ID: "dep-1", Address: "0xDeposit", Currency: currency, Chain: chain}
	b.addresses = append(b.addresses, addr)
	return &addr, nil
}

func (b *stubBridge) CreateWireAccount(ctx context.Context, input *entities.LinkBankAccountInput) (*fiat.WireAccount, error) {
	return &fiat.WireAccount{ID: "wire-1", Status: "pending"}, nil
}

type stubPayouts struct {
	calls []string
}

func (p *stubPayouts) CreatePayout(ctx context.Context, idempotencyKey, bankAccountID, amount string) (*fiat.Payout, error) {
	p.calls = append(p.calls, idempotencyKey)
	return &fiat.Payout{ID: "payout-1", Status: "pending"}, nil
}

var _ usecases.TxSubmitter = (*stubSubmitter)(nil)
var _ usecases.PriceOracle = (*stubOracle)(nil)
var _ usecases.ChainReader = (*stubReader)(nil)
