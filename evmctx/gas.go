package evmctx

// Gas-cost and size constants this package's own frame factory and
// frame-return handlers need directly. The full opcode gas schedule is out
// of scope for this core (spec.md Non-goals); only the handful
// make_create_frame/create_return/eofcreate_return consult are kept here.
const (
	// CodeDepositGas is the per-byte cost of writing deployed code to
	// state (EIP-2 / EIP-170's accompanying gas rule).
	CodeDepositGas uint64 = 200

	// MaxInitCodeSize is EIP-3860's init-code size ceiling: twice the
	// EIP-170 deployed-code limit.
	MaxInitCodeSize = 2 * 24576
)

// Gas tracks a single frame's gas limit, remaining balance, and refund.
// Grounded on the original's `Gas` type referenced throughout
// inner_evm_context.rs (`Gas::new`, `gas.record_cost`).
type Gas struct {
	limit     uint64
	remaining uint64
	refunded  int64
}

// NewGas creates a Gas tracker with the full limit available.
func NewGas(limit uint64) Gas {
	return Gas{limit: limit, remaining: limit}
}

// Limit returns the frame's original gas limit.
func (g Gas) Limit() uint64 { return g.limit }

// Remaining returns the gas left in the frame.
func (g Gas) Remaining() uint64 { return g.remaining }

// Spent returns the gas consumed so far.
func (g Gas) Spent() uint64 { return g.limit - g.remaining }

// Refunded returns the frame's accumulated refund.
func (g Gas) Refunded() int64 { return g.refunded }

// RecordCost deducts cost from the remaining balance, reporting false
// (and leaving remaining unchanged) if that would go negative — the
// frame is then out of gas.
func (g *Gas) RecordCost(cost uint64) bool {
	if cost > g.remaining {
		return false
	}
	g.remaining -= cost
	return true
}

// RecordRefund adds to the frame's refund counter.
func (g *Gas) RecordRefund(delta int64) {
	g.refunded += delta
}
