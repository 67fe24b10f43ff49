package entities

import "math/big"

// TxPhase labels where an on-chain payment currently is in its lifecycle.
type TxPhase string

const (
	TxPhaseBuilding           TxPhase = "building"
	TxPhaseAwaitingApproval   TxPhase = "awaiting_approval"
	TxPhaseApprovalConfirmed  TxPhase = "approval_confirmed"
	TxPhaseAwaitingSettlement TxPhase = "awaiting_settlement"
	TxPhaseConfirmed          TxPhase = "confirmed"
	TxPhaseFailed             TxPhase = "failed"
)

// PreparedTx is a fully-built transaction ready for signing and submission.
// Value is non-nil only when native currency rides along with the call.
type PreparedTx struct {
	Network  string
	To       string
	Data     []byte
	Value    *big.Int
	GasLimit uint64
}

// TxResult is the mined outcome of a submitted transaction.
type TxResult struct {
	Hash        string
	BlockNumber uint64
	Success     bool
}
