package usecases

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"blinkpay.backend/internal/domain/entities"
	domainErrors "blinkpay.backend/internal/domain/errors"
	"blinkpay.backend/internal/infrastructure/fiat"
	"blinkpay.backend/pkg/utils"
)

// fakeSubmitter records every submission and returns scripted results.
type fakeSubmitter struct {
	mu          sync.Mutex
	submissions []*entities.PreparedTx
	results     []*entities.TxResult
	errs        []error
}

func (s *fakeSubmitter) Submit(ctx context.Context, tx *entities.PreparedTx) (*entities.TxResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := len(s.submissions)
	s.submissions = append(s.submissions, tx)
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.results) {
		return s.results[i], nil
	}
	return &entities.TxResult{Hash: "0xhash", Success: true}, nil
}

func (s *fakeSubmitter) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.submissions)
}

// fakeSettlementRepo is an in-memory SettlementRepository.
type fakeSettlementRepo struct {
	records   []*entities.SettlementRecord
	upsertErr error
	trimCalls int
}

func (r *fakeSettlementRepo) Create(ctx context.Context, record *entities.SettlementRecord) error {
	return r.Upsert(ctx, record)
}

func (r *fakeSettlementRepo) Upsert(ctx context.Context, record *entities.SettlementRecord) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
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
	record.ID = record.TxHash.String
	if record.ID == "" {
		record.ID = time.Now().String()
	}
	r.records = append(r.records, record)
	return nil
}

func (r *fakeSettlementRepo) GetByID(ctx context.Context, wallet, id string) (*entities.SettlementRecord, error) {
	for _, rec := range r.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (r *fakeSettlementRepo) GetByTxHash(ctx context.Context, wallet, txHash string) (*entities.SettlementRecord, error) {
	for _, rec := range r.records {
		if rec.TxHash.Valid && strings.EqualFold(rec.TxHash.String, txHash) {
			return rec, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (r *fakeSettlementRepo) ListByWallet(ctx context.Context, wallet string, limit, offset int) ([]*entities.SettlementRecord, int, error) {
	var out []*entities.SettlementRecord
	for _, rec := range r.records {
		if strings.EqualFold(rec.WalletAddress, wallet) {
			out = append(out, rec)
		}
	}
	return out, len(out), nil
}

func (r *fakeSettlementRepo) UpdateStatus(ctx context.Context, wallet, id string, status entities.SettlementStatus, txHash string) error {
	rec, err := r.GetByID(ctx, wallet, id)
	if err != nil {
		return err
	}
	rec.Status = status
	return nil
}

func (r *fakeSettlementRepo) TrimToLatest(ctx context.Context, wallet string, keep int) error {
	r.trimCalls++
	return nil
}

// fakeBindingRepo is an in-memory MerchantBindingRepository with the same
// case-insensitive address matching the real one has.
type fakeBindingRepo struct {
	bindings []*entities.MerchantDepositBinding
}

func (r *fakeBindingRepo) GetByMerchantID(ctx context.Context, merchantID string) (*entities.MerchantDepositBinding, error) {
	for _, b := range r.bindings {
		if b.MerchantID == merchantID {
			return b, nil
		}
	}
	return nil, domainErrors.ErrMerchantNotFound
}

func (r *fakeBindingRepo) GetByDepositAddress(ctx context.Context, address string) (*entities.MerchantDepositBinding, error) {
	for _, b := range r.bindings {
		if strings.EqualFold(b.DepositAddress, address) {
			return b, nil
		}
	}
	return nil, domainErrors.ErrMerchantNotFound
}

func (r *fakeBindingRepo) Save(ctx context.Context, binding *entities.MerchantDepositBinding) error {
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

func (r *fakeBindingRepo) SetBankAccount(ctx context.Context, merchantID, bankAccountID string) error {
	for _, b := range r.bindings {
		if b.MerchantID == merchantID {
			b.BankAccountID.SetValid(bankAccountID)
			return nil
		}
	}
	return domainErrors.ErrMerchantNotFound
}

// fakeNotifier records notifications per channel key. wallets lists the
// channels with a live connection, lowercased like the hub's keys.
type fakeNotifier struct {
	delivered map[string][]interface{}
	live      bool
	wallets   map[string]bool
}

func newFakeNotifier(live bool) *fakeNotifier {
	return &fakeNotifier{
		delivered: make(map[string][]interface{}),
		live:      live,
		wallets:   make(map[string]bool),
	}
}

func (n *fakeNotifier) connectWallet(address string) {
	n.wallets[strings.ToLower(address)] = true
}

func (n *fakeNotifier) Notify(merchantID string, payload interface{}) int {
	if !n.live {
		return 0
	}
	n.delivered[merchantID] = append(n.delivered[merchantID], payload)
	return 1
}

func (n *fakeNotifier) Connections(merchantID string) int {
	if n.wallets[strings.ToLower(merchantID)] {
		return 1
	}
	return 0
}

// fakePayouts scripts CreatePayout.
type fakePayouts struct {
	calls []string
	err   error
}

func (p *fakePayouts) CreatePayout(ctx context.Context, idempotencyKey, bankAccountID, amount string) (*fiat.Payout, error) {
	p.calls = append(p.calls, idempotencyKey)
	if p.err != nil {
		return nil, p.err
	}
	return &fiat.Payout{ID: "payout-1", Status: "pending", Amount: fiat.PayoutAmount{Amount: amount, Currency: "USD"}}, nil
}

// fakeBridge scripts the Circle deposit/wire surface.
type fakeBridge struct {
	addresses   []fiat.DepositAddress
	createCalls int
	wireCalls   int
	wireErr     error
}

func (b *fakeBridge) ListDepositAddresses(ctx context.Context) ([]fiat.DepositAddress, error) {
	return b.addresses, nil
}

func (b *fakeBridge) CreateDepositAddress(ctx context.Context, currency, chain string) (*fiat.DepositAddress, error) {
	b.createCalls++
	addr := fiat.DepositAddress{ID: "dep-new", Address: "0xNewDeposit", Currency: currency, Chain: chain}
	b.addresses = append(b.addresses, addr)
	return &addr, nil
}

func (b *fakeBridge) CreateWireAccount(ctx context.Context, input *entities.LinkBankAccountInput) (*fiat.WireAccount, error) {
	b.wireCalls++
	if b.wireErr != nil {
		return nil, b.wireErr
	}
	return &fiat.WireAccount{ID: "wire-1", Status: "pending"}, nil
}

// fakeOracle serves a fixed price map.
type fakeOracle struct {
	prices map[string]decimal.Decimal
	err    error
}

func (o *fakeOracle) GetUSDPrices(ctx context.Context, ids []string) (map[string]decimal.Decimal, error) {
	if o.err != nil {
		return nil, o.err
	}
	out := make(map[string]decimal.Decimal)
	for _, id := range ids {
		if p, ok := o.prices[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// fakeReader serves fixed balances.
type fakeReader struct {
	native *big.Int
	tokens map[string]*big.Int // token contract -> balance
}

func (r *fakeReader) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	if r.native == nil {
		return big.NewInt(0), nil
	}
	return r.native, nil
}

func (r *fakeReader) GetTokenBalance(ctx context.Context, tokenAddress, owner string) (*big.Int, error) {
	if b, ok := r.tokens[strings.ToLower(tokenAddress)]; ok {
		return b, nil
	}
	return big.NewInt(0), nil
}

// fakeRequestRepo is an in-memory PaymentRequestRepository.
type fakeRequestRepo struct {
	requests []*entities.StoredPaymentRequest
}

func (r *fakeRequestRepo) Create(ctx context.Context, request *entities.StoredPaymentRequest) error {
	request.ID = utils.GenerateUUIDv7()
	r.requests = append(r.requests, request)
	return nil
}

func (r *fakeRequestRepo) GetByRequestID(ctx context.Context, requestID string) (*entities.StoredPaymentRequest, error) {
	for _, req := range r.requests {
		if req.RequestID == requestID {
			return req, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (r *fakeRequestRepo) ListByMerchant(ctx context.Context, merchantID string, limit, offset int) ([]*entities.StoredPaymentRequest, int, error) {
	var out []*entities.StoredPaymentRequest
	for _, req := range r.requests {
		if req.Request.MerchantID == merchantID {
			out = append(out, req)
		}
	}
	return out, len(out), nil
}

func (r *fakeRequestRepo) MarkCompleted(ctx context.Context, id uuid.UUID, txHash string) error {
	for _, req := range r.requests {
		if req.ID == id {
			req.Status = entities.PaymentRequestStatusCompleted
			req.TxHash = txHash
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (r *fakeRequestRepo) GetExpiredPending(ctx context.Context, before time.Time, limit int) ([]*entities.StoredPaymentRequest, error) {
	var out []*entities.StoredPaymentRequest
	for _, req := range r.requests {
		if req.Status == entities.PaymentRequestStatusPending && req.ExpiresAt.Before(before) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) ExpireRequests(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		for _, req := range r.requests {
			if req.ID == id {
				req.Status = entities.PaymentRequestStatusExpired
			}
		}
	}
	return nil
}

var errBoom = errors.New("boom")
