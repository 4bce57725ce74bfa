package evmctx

import (
	"github.com/ethcore/evmctx/state"
	"github.com/ethcore/evmctx/types"
)

// CreateScheme distinguishes CREATE from CREATE2 address derivation.
type CreateScheme uint8

const (
	SchemeCreate CreateScheme = iota
	SchemeCreate2
)

// CreateInputs is the input to a legacy CREATE/CREATE2 frame.
type CreateInputs struct {
	Caller   types.Address
	Scheme   CreateScheme
	Value    *types.Word
	InitCode []byte
	Salt     types.Word // only meaningful when Scheme == SchemeCreate2
	GasLimit uint64
}

// EOFCreateKind distinguishes an EOFCREATE opcode invocation (the
// subcontainer is already resolved at validation time) from an
// EOFCREATE-by-transaction (the container must be decoded from the raw
// transaction init data), per spec.md §4.6.2.
type EOFCreateKind uint8

const (
	EOFCreateOpcode EOFCreateKind = iota
	EOFCreateTx
)

// EOFCreateInputs is the input to an EOFCREATE frame.
type EOFCreateInputs struct {
	Kind           EOFCreateKind
	Caller         types.Address
	Value          *types.Word
	GasLimit       uint64
	CreatedAddress types.Address // set only for EOFCreateOpcode; EOFCreateTx derives it

	// Opcode-kind fields: the subcontainer has already been sliced out
	// of the parent container by EOF validation.
	InitContainer []byte
	Input         []byte

	// Tx-kind fields: raw init data a transaction supplies directly;
	// the EOF container and trailing constructor input are still
	// packed together and must be split by DecodeDangling.
	InitData []byte
}

// Frame is a create frame ready to execute: the child Contract, the
// created address, and the journal checkpoint its return handler commits
// or reverts. FrameOrResult pairs it with the immediate-result
// alternative, grounded on the original's `FrameOrResult`.
type Frame struct {
	Contract       *Contract
	CreatedAddress types.Address
	Checkpoint     state.Checkpoint
	GasLimit       uint64
	IsEOFCreate    bool
}

// FrameResult is the immediate InstructionResult produced when frame
// construction itself fails (before any interpreter runs).
type FrameResult struct {
	Result InstructionResult
	Gas    Gas
	Output []byte
}

// FrameOrResult is returned by the frame factory: exactly one of Frame or
// Result is non-nil/meaningful.
type FrameOrResult struct {
	Frame  *Frame
	Result *FrameResult
}

func frameOf(f *Frame) FrameOrResult { return FrameOrResult{Frame: f} }

func resultOf(result InstructionResult, gasLimit uint64) FrameOrResult {
	return FrameOrResult{Result: &FrameResult{Result: result, Gas: NewGas(gasLimit)}}
}
