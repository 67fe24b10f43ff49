package usecases

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"blinkpay.backend/internal/domain/entities"
	domainErrors "blinkpay.backend/internal/domain/errors"
	"blinkpay.backend/internal/registry"
	"blinkpay.backend/pkg/logger"
)

// PayInput describes one payment to quote or execute. Source and destination
// default to the same network and token when the destination is left empty.
type PayInput struct {
	WalletAddress      string
	RecipientAddress   string
	SourceNetwork      string
	SourceToken        string
	DestinationNetwork string
	DestinationToken   string
	Amount             string
	Unit               AmountUnit
	ItemName           string
	Memo               string
	RequestID          string
	IsCirclePayment    bool
}

// Quote is the dry-run view of a payment: what route it would take and what
// it would cost, with nothing submitted on-chain.
type Quote struct {
	RouteKind           RouteKind `json:"routeKind"`
	SourceNetwork       string    `json:"sourceNetwork"`
	SourceToken         string    `json:"sourceToken"`
	DestinationNetwork  string    `json:"destinationNetwork"`
	DestinationToken    string    `json:"destinationToken"`
	TokenAmount         string    `json:"tokenAmount"`
	USDValue            string    `json:"usdValue"`
	Balance             string    `json:"balance"`
	InsufficientBalance bool      `json:"insufficientBalance"`
	CrossChain          bool      `json:"crossChain"`
}

// PaymentResult is what the client gets back after Pay.
type PaymentResult struct {
	Success         bool                       `json:"success"`
	TransactionHash string                     `json:"transactionHash,omitempty"`
	ApprovalTxHash  string                     `json:"approvalTxHash,omitempty"`
	ExplorerURL     string                     `json:"explorerUrl,omitempty"`
	CrossChain      bool                       `json:"crossChain"`
	Phase           entities.TxPhase           `json:"phase"`
	FailureReason   string                     `json:"failureReason,omitempty"`
	Record          *entities.SettlementRecord `json:"record,omitempty"`
}

// PaymentUsecase ties classification, amount resolution, execution and
// recording into the one flow the payment endpoint exposes.
type PaymentUsecase struct {
	registry     *registry.Registry
	classifier   *RouteClassifier
	balances     *BalanceUsecase
	resolver     *AmountResolver
	orchestrator *PaymentOrchestrator
	recorder     *SettlementRecorder
	requests     *PaymentRequestUsecase
}

func NewPaymentUsecase(
	reg *registry.Registry,
	classifier *RouteClassifier,
	balances *BalanceUsecase,
	resolver *AmountResolver,
	orchestrator *PaymentOrchestrator,
	recorder *SettlementRecorder,
	requests *PaymentRequestUsecase,
) *PaymentUsecase {
	return &PaymentUsecase{
		registry:     reg,
		classifier:   classifier,
		balances:     balances,
		resolver:     resolver,
		orchestrator: orchestrator,
		recorder:     recorder,
		requests:     requests,
	}
}

func (u *PaymentUsecase) prepare(ctx context.Context, input *PayInput) (*Route, *ResolvedAmount, error) {
	dstNetwork := input.DestinationNetwork
	if dstNetwork == "" {
		dstNetwork = input.SourceNetwork
	}
	dstToken := input.DestinationToken
	if dstToken == "" {
		dstToken = input.SourceToken
	}

	route, err := u.classifier.Classify(input.SourceNetwork, input.SourceToken, dstNetwork, dstToken)
	if err != nil {
		return nil, nil, err
	}

	snapshot, err := u.balances.Snapshot(ctx, input.SourceNetwork, input.SourceToken, input.WalletAddress)
	if err != nil {
		return nil, nil, err
	}

	resolved, err := u.resolver.Resolve(input.Amount, input.Unit, *snapshot)
	if err != nil {
		return nil, nil, err
	}
	return route, resolved, nil
}

// GetQuote classifies and prices a payment without executing it.
func (u *PaymentUsecase) GetQuote(ctx context.Context, input *PayInput) (*Quote, error) {
	route, resolved, err := u.prepare(ctx, input)
	if err != nil {
		return nil, err
	}
	return &Quote{
		RouteKind:           route.Kind,
		SourceNetwork:       route.SourceNetwork.Name,
		SourceToken:         route.SourceToken.Symbol,
		DestinationNetwork:  route.DestinationNetwork.Name,
		DestinationToken:    route.DestinationToken.Symbol,
		TokenAmount:         resolved.TokenAmount.String(),
		USDValue:            resolved.USDValue.String(),
		Balance:             resolved.Snapshot.Balance.String(),
		InsufficientBalance: resolved.HasInsufficientBalance(),
		CrossChain:          route.IsCrossChain(),
	}, nil
}

// Pay executes a payment end to end and records the outcome. The history
// record is written for failed executions too; only a confirmed payment whose
// history write failed surfaces ErrNotRecorded, so the caller can distinguish
// "your money did not move" from "it moved but we lost the receipt".
func (u *PaymentUsecase) Pay(ctx context.Context, input *PayInput) (*PaymentResult, error) {
	route, resolved, err := u.prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	outcome, execErr := u.orchestrator.Execute(ctx, route, resolved, input.WalletAddress, input.RecipientAddress)

	record, recordErr := u.recorder.Record(ctx, input.WalletAddress, outcome, &RecordContext{
		Direction:       entities.SettlementDirectionSent,
		Amount:          resolved.TokenAmount.String(),
		Currency:        route.SourceToken.Symbol,
		ItemName:        input.ItemName,
		Memo:            input.Memo,
		Network:         route.SourceNetwork.Name,
		FromAddress:     input.WalletAddress,
		ToAddress:       input.RecipientAddress,
		IsCirclePayment: input.IsCirclePayment,
	})

	result := &PaymentResult{
		Success:         outcome.Success,
		TransactionHash: outcome.TransactionHash,
		ApprovalTxHash:  outcome.ApprovalTxHash,
		CrossChain:      outcome.IsCrossChain,
		Phase:           outcome.Phase,
		FailureReason:   outcome.FailureReason,
		Record:          record,
	}
	if outcome.TransactionHash != "" {
		if url, err := u.registry.ExplorerTxURL(route.SourceNetwork.Name, outcome.TransactionHash); err == nil {
			result.ExplorerURL = url
		}
	}

	if execErr != nil {
		return result, execErr
	}
	if recordErr != nil {
		return result, recordErr
	}

	if input.RequestID != "" {
		if err := u.requests.Complete(ctx, input.RequestID, outcome.TransactionHash); err != nil {
			// the payment itself stands; the request just stays pending
			logger.Warn(ctx, "paid request could not be completed",
				zap.String("request_id", input.RequestID),
				zap.String("tx_hash", outcome.TransactionHash),
				zap.Error(err))
		}
	}
	return result, nil
}

// ParseAmountUnit maps the wire value to an AmountUnit, defaulting to fiat
// the way the mobile client sends prices.
func ParseAmountUnit(s string) (AmountUnit, error) {
	switch s {
	case "", "fiat":
		return UnitFiat, nil
	case "token":
		return UnitToken, nil
	default:
		return "", fmt.Errorf("%w: amount unit %q", domainErrors.ErrInvalidInput, s)
	}
}
