// Package optimism layers OP Stack deposit-transaction semantics on top
// of the base execution context (C7, spec.md §9): the validation error
// taxonomy a deposit transaction can fail with, and the halt reason a
// failed deposit bubbles up as so the block still includes it with the
// sender's nonce bumped and the minted value persisted, instead of being
// excluded the way a failed L1 transaction would be. Grounded on
// optimism/result.rs.
package optimism

import "fmt"

// InvalidTransactionKind is the subset of base (non-Optimism) transaction
// validation failures this overlay wraps via InvalidTransaction.Base.
// The base EVM's own validation error taxonomy is out of this module's
// scope (spec.md Non-goals); only the wrapper slot is needed here.
type InvalidTransactionKind uint8

// InvalidTransactionReason is a thin error carrier for the wrapped
// base-layer validation failure named above.
type InvalidTransactionReason struct {
	Kind    InvalidTransactionKind
	Message string
}

func (r InvalidTransactionReason) Error() string { return r.Message }

// InvalidOptimismTransactionKind enumerates the ways a deposit
// transaction can fail validation on an OP Stack chain, beyond the base
// errors every transaction is subject to. Grounded one-for-one on
// `InvalidOptimismTransaction` in optimism/result.rs.
type InvalidOptimismTransactionKind uint8

const (
	// Base wraps an ordinary (non-Optimism-specific) validation failure.
	Base InvalidOptimismTransactionKind = iota

	// DepositSystemTxPostRegolith: system deposit transactions stopped
	// being a distinct wire-format concept at the Regolith hardfork; a
	// deposit transaction still setting the system-tx flag thereafter is
	// rejected.
	DepositSystemTxPostRegolith

	// HaltedDepositPostRegolith is the catch-all for a deposit
	// transaction whose execution halted post-Regolith: the handler
	// translates this into OptimismHaltReason.FailedDeposit rather than
	// excluding the transaction from the block.
	HaltedDepositPostRegolith

	// MissingL1BlockInfo: a non-deposit transaction was submitted
	// without the L1 block info this overlay requires to compute its
	// L1 data fee.
	MissingL1BlockInfo

	// UnexpectedL1BlockInfo: a deposit transaction was submitted with
	// L1 block info attached, which deposit transactions never carry
	// (they have no L1 data fee to compute).
	UnexpectedL1BlockInfo
)

// InvalidOptimismTransaction is the Optimism-specific transaction
// validation error.
type InvalidOptimismTransaction struct {
	Kind InvalidOptimismTransactionKind
	Base error // non-nil only when Kind == Base
}

func (e InvalidOptimismTransaction) Error() string {
	switch e.Kind {
	case Base:
		if e.Base != nil {
			return e.Base.Error()
		}
		return "invalid transaction"
	case DepositSystemTxPostRegolith:
		return "deposit system transactions post regolith hardfork are not supported"
	case HaltedDepositPostRegolith:
		return "deposit transaction halted post-regolith; error will be bubbled up to main return handler"
	case MissingL1BlockInfo:
		return "non-deposit transaction is missing L1 block info"
	case UnexpectedL1BlockInfo:
		return "deposit transaction has unexpected L1 block info"
	default:
		return fmt.Sprintf("optimism: unknown invalid transaction kind %d", e.Kind)
	}
}

// OptimismHaltReasonKind is either a base-layer halt reason (out of this
// module's scope — it is whatever InstructionResult the inner context
// already reports) or the Optimism-specific FailedDeposit catch-all.
type OptimismHaltReasonKind uint8

const (
	HaltBase OptimismHaltReasonKind = iota
	FailedDeposit
)

// OptimismHaltReason wraps a halt outcome for a deposit transaction: a
// deposit transaction's halt is never allowed to exclude the transaction
// from the block, so the handler collapses every base halt reason that
// occurs while executing a deposit transaction to FailedDeposit.
// Grounded on `OptimismHaltReason` in optimism/result.rs.
type OptimismHaltReason struct {
	Kind OptimismHaltReasonKind
	Base string // the wrapped base halt's name, set only when Kind == HaltBase
}

func (r OptimismHaltReason) String() string {
	if r.Kind == FailedDeposit {
		return "FailedDeposit"
	}
	return r.Base
}
