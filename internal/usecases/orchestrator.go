package usecases

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
	"blinkpay.backend/internal/domain/entities"
	domainErrors "blinkpay.backend/internal/domain/errors"
	"blinkpay.backend/pkg/logger"
)

// TxSubmitter signs and broadcasts a prepared transaction and blocks until it
// is mined or ctx expires. At most one submission per call.
type TxSubmitter interface {
	Submit(ctx context.Context, tx *entities.PreparedTx) (*entities.TxResult, error)
}

// SettlementOutcome is the terminal result of one Execute call.
type SettlementOutcome struct {
	Success         bool
	TransactionHash string
	ApprovalTxHash  string
	IsCrossChain    bool
	Phase           entities.TxPhase
	FailureReason   string
}

var (
	addressType, _ = abi.NewType("address", "", nil)
	uint256Type, _ = abi.NewType("uint256", "", nil)

	transferArgs = abi.Arguments{{Type: addressType}, {Type: uint256Type}}
	approveArgs  = abi.Arguments{{Type: addressType}, {Type: uint256Type}}

	paymentTupleType, _ = abi.NewType("tuple", "", []abi.ArgumentMarshaling{
		{Name: "tokenIn", Type: "address"},
		{Name: "amountIn", Type: "uint256"},
		{Name: "tokenOut", Type: "address"},
		{Name: "receiver", Type: "address"},
		{Name: "destinationChain", Type: "uint64"},
		{Name: "minAmountOut", Type: "uint256"},
	})
	processPaymentArgs = abi.Arguments{{Type: paymentTupleType}}

	transferSelector       = crypto.Keccak256([]byte("transfer(address,uint256)"))[:4]
	approveSelector        = crypto.Keccak256([]byte("approve(address,uint256)"))[:4]
	processPaymentSelector = crypto.Keccak256([]byte("processPayment((address,uint256,address,address,uint64,uint256))"))[:4]
)

type paymentInstruction struct {
	TokenIn          common.Address
	AmountIn         *big.Int
	TokenOut         common.Address
	Receiver         common.Address
	DestinationChain uint64
	MinAmountOut     *big.Int
}

// PaymentOrchestrator sequences the on-chain calls for a classified route.
// An ERC20-funded swap or bridge is two transactions: approve, then the
// settlement call — the second is only submitted after the first is mined
// successfully. A native-funded route attaches value and skips approval.
type PaymentOrchestrator struct {
	submitter     TxSubmitter
	minAmountOut  *big.Int
	submitTimeout time.Duration
}

// NewPaymentOrchestrator creates an orchestrator. minAmountOut is the slippage
// floor for swap/bridge settlement calls; zero accepts any output amount.
func NewPaymentOrchestrator(submitter TxSubmitter, minAmountOut *big.Int, submitTimeout time.Duration) *PaymentOrchestrator {
	if minAmountOut == nil {
		minAmountOut = big.NewInt(0)
	}
	return &PaymentOrchestrator{
		submitter:     submitter,
		minAmountOut:  minAmountOut,
		submitTimeout: submitTimeout,
	}
}

// Execute runs the route to a terminal outcome. Every rejection that can be
// detected locally happens before the first submission: a doomed request
// costs nothing on-chain.
func (o *PaymentOrchestrator) Execute(ctx context.Context, route *Route, resolved *ResolvedAmount, sender, recipient string) (*SettlementOutcome, error) {
	outcome := &SettlementOutcome{
		IsCrossChain: route.IsCrossChain(),
		Phase:        entities.TxPhaseBuilding,
	}

	if resolved.HasInsufficientBalance() {
		outcome.Phase = entities.TxPhaseFailed
		outcome.FailureReason = domainErrors.ErrInsufficientBalance.Error()
		return outcome, fmt.Errorf("%w: %s %s", domainErrors.ErrInsufficientBalance,
			resolved.TokenAmount.String(), route.SourceToken.Symbol)
	}

	amount := resolved.Scaled()

	switch route.Kind {
	case RouteDirect:
		return o.executeDirect(ctx, route, amount, recipient, outcome)
	case RouteSameChainSwap, RouteCrossChainBridge:
		return o.executeViaContract(ctx, route, amount, sender, recipient, outcome)
	default:
		outcome.Phase = entities.TxPhaseFailed
		outcome.FailureReason = "unknown route kind"
		return outcome, fmt.Errorf("%w: route kind %q", domainErrors.ErrUnsupportedRoute, route.Kind)
	}
}

func (o *PaymentOrchestrator) executeDirect(ctx context.Context, route *Route, amount *big.Int, recipient string, outcome *SettlementOutcome) (*SettlementOutcome, error) {
	var tx *entities.PreparedTx

	if route.SourceToken.IsNative() {
		tx = &entities.PreparedTx{
			Network: route.SourceNetwork.Name,
			To:      recipient,
			Value:   amount,
		}
	} else {
		data, err := packTransfer(recipient, amount)
		if err != nil {
			outcome.Phase = entities.TxPhaseFailed
			outcome.FailureReason = err.Error()
			return outcome, err
		}
		tx = &entities.PreparedTx{
			Network: route.SourceNetwork.Name,
			To:      route.SourceToken.ContractAddress,
			Data:    data,
		}
	}

	return o.settle(ctx, tx, route, outcome)
}

func (o *PaymentOrchestrator) executeViaContract(ctx context.Context, route *Route, amount *big.Int, sender, recipient string, outcome *SettlementOutcome) (*SettlementOutcome, error) {
	contract := route.SourceBridge
	if contract == "" {
		outcome.Phase = entities.TxPhaseFailed
		outcome.FailureReason = "no payment contract on source network"
		return outcome, fmt.Errorf("%w: %s has no payment contract",
			domainErrors.ErrUnsupportedRoute, route.SourceNetwork.Name)
	}

	instruction := paymentInstruction{
		TokenIn:          common.HexToAddress(route.SourceToken.Address()),
		AmountIn:         amount,
		TokenOut:         common.HexToAddress(route.DestinationToken.Address()),
		Receiver:         common.HexToAddress(recipient),
		DestinationChain: route.ChainSelector,
		MinAmountOut:     o.minAmountOut,
	}
	data, err := packProcessPayment(instruction)
	if err != nil {
		outcome.Phase = entities.TxPhaseFailed
		outcome.FailureReason = err.Error()
		return outcome, err
	}

	settlement := &entities.PreparedTx{
		Network: route.SourceNetwork.Name,
		To:      contract,
		Data:    data,
	}

	if route.SourceToken.IsNative() {
		// value rides along with the settlement call, no approval step
		settlement.Value = amount
		return o.settle(ctx, settlement, route, outcome)
	}

	// ERC20 source: the contract pulls the tokens, so it needs an allowance
	// first. Settlement is only submitted once approval is mined.
	approveData, err := packApprove(contract, amount)
	if err != nil {
		outcome.Phase = entities.TxPhaseFailed
		outcome.FailureReason = err.Error()
		return outcome, err
	}
	approval := &entities.PreparedTx{
		Network: route.SourceNetwork.Name,
		To:      route.SourceToken.ContractAddress,
		Data:    approveData,
	}

	outcome.Phase = entities.TxPhaseAwaitingApproval
	approvalResult, err := o.submit(ctx, approval)
	if err != nil {
		outcome.Phase = entities.TxPhaseFailed
		outcome.FailureReason = err.Error()
		settlementsFailedTotal.WithLabelValues(string(route.Kind), "approval").Inc()
		return outcome, fmt.Errorf("%w: %v", domainErrors.ErrApprovalFailed, err)
	}
	if !approvalResult.Success {
		outcome.Phase = entities.TxPhaseFailed
		outcome.FailureReason = "approval transaction reverted"
		settlementsFailedTotal.WithLabelValues(string(route.Kind), "approval").Inc()
		return outcome, fmt.Errorf("%w: transaction %s reverted", domainErrors.ErrApprovalFailed, approvalResult.Hash)
	}

	outcome.Phase = entities.TxPhaseApprovalConfirmed
	outcome.ApprovalTxHash = approvalResult.Hash
	logger.Debug(ctx, "approval confirmed",
		zap.String("tx_hash", approvalResult.Hash),
		zap.String("spender", contract),
		zap.String("sender", sender))

	return o.settle(ctx, settlement, route, outcome)
}

func (o *PaymentOrchestrator) settle(ctx context.Context, tx *entities.PreparedTx, route *Route, outcome *SettlementOutcome) (*SettlementOutcome, error) {
	outcome.Phase = entities.TxPhaseAwaitingSettlement

	result, err := o.submit(ctx, tx)
	if err != nil {
		outcome.Phase = entities.TxPhaseFailed
		outcome.FailureReason = err.Error()
		settlementsFailedTotal.WithLabelValues(string(route.Kind), "settlement").Inc()
		return outcome, fmt.Errorf("%w: %v", domainErrors.ErrSettlementFailed, err)
	}
	if !result.Success {
		outcome.Phase = entities.TxPhaseFailed
		outcome.TransactionHash = result.Hash
		outcome.FailureReason = "settlement transaction reverted"
		settlementsFailedTotal.WithLabelValues(string(route.Kind), "settlement").Inc()
		return outcome, fmt.Errorf("%w: transaction %s reverted", domainErrors.ErrSettlementFailed, result.Hash)
	}

	outcome.Phase = entities.TxPhaseConfirmed
	outcome.Success = true
	outcome.TransactionHash = result.Hash
	settlementsExecutedTotal.WithLabelValues(string(route.Kind)).Inc()
	return outcome, nil
}

func (o *PaymentOrchestrator) submit(ctx context.Context, tx *entities.PreparedTx) (*entities.TxResult, error) {
	if o.submitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.submitTimeout)
		defer cancel()
	}
	return o.submitter.Submit(ctx, tx)
}

func packTransfer(recipient string, amount *big.Int) ([]byte, error) {
	packed, err := transferArgs.Pack(common.HexToAddress(recipient), amount)
	if err != nil {
		return nil, fmt.Errorf("pack transfer: %w", err)
	}
	return append(append([]byte{}, transferSelector...), packed...), nil
}

func packApprove(spender string, amount *big.Int) ([]byte, error) {
	packed, err := approveArgs.Pack(common.HexToAddress(spender), amount)
	if err != nil {
		return nil, fmt.Errorf("pack approve: %w", err)
	}
	return append(append([]byte{}, approveSelector...), packed...), nil
}

func packProcessPayment(instruction paymentInstruction) ([]byte, error) {
	packed, err := processPaymentArgs.Pack(instruction)
	if err != nil {
		return nil, fmt.Errorf("pack processPayment: %w", err)
	}
	return append(append([]byte{}, processPaymentSelector...), packed...), nil
}
