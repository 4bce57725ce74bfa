package state

import "github.com/ethcore/evmctx/types"

// entry is a single reversible mutation. Grounded on the teacher's
// core/state/journal.go journalEntry interface and its concrete change
// types (createAccountChange/balanceChange/nonceChange/codeChange/
// storageChange/selfDestructChange/accessListAddAccountChange/
// transientStorageChange/logChange/refundChange) — generalized where the
// underlying value type changed (AccountStatus as one bitset instead of
// four separate booleans each needing their own entry kind).
type entry interface {
	revert(j *JournaledState)
}

// Checkpoint marks a point in the journal a call frame can later commit
// past or revert to. It is a plain journal-length snapshot, the same
// mechanism as the teacher's journal.snapshot()/revertToSnapshot(id), not
// a copy of state itself — reverting means replaying stored inverses, not
// restoring a cloned tree.
type Checkpoint struct {
	entryIndex int
	logIndex   int
}

// journal is the append-only entry log plus the stack discipline its
// checkpoints are used under (checkpoints always nest and unwind in LIFO
// call-frame order, so a plain length snapshot is enough — no separate
// snapshot-id table like the teacher's is required).
type journal struct {
	entries []entry
	logs    []types.Log
}

func newJournal() *journal {
	return &journal{}
}

func (j *journal) append(e entry) {
	j.entries = append(j.entries, e)
}

func (j *journal) checkpoint() Checkpoint {
	return Checkpoint{entryIndex: len(j.entries), logIndex: len(j.logs)}
}

// revert replays every entry recorded since cp in reverse order, then
// discards them and truncates the log buffer back to cp.
func (j *journal) revert(js *JournaledState, cp Checkpoint) {
	for i := len(j.entries) - 1; i >= cp.entryIndex; i-- {
		j.entries[i].revert(js)
	}
	j.entries = j.entries[:cp.entryIndex]
	j.logs = j.logs[:cp.logIndex]
}

// --- concrete journal entries ---

// accountStatusChange undoes a touched/created/selfdestructed/warm-access
// flag flip by restoring the bitset's prior value in one step.
type accountStatusChange struct {
	addr types.Address
	prev types.AccountStatus
}

func (e accountStatusChange) revert(j *JournaledState) {
	if acc := j.state[e.addr]; acc != nil {
		acc.Status = e.prev
	}
}

// accountCreated undoes installing a brand-new in-memory account: delete
// it outright so a later reload starts from the database again.
type accountCreated struct {
	addr types.Address
}

func (e accountCreated) revert(j *JournaledState) {
	delete(j.state, e.addr)
}

type balanceChange struct {
	addr types.Address
	prev *types.Word
}

func (e balanceChange) revert(j *JournaledState) {
	if acc := j.state[e.addr]; acc != nil {
		acc.Balance = e.prev
	}
}

type nonceChange struct {
	addr types.Address
	prev uint64
}

func (e nonceChange) revert(j *JournaledState) {
	if acc := j.state[e.addr]; acc != nil {
		acc.Nonce = e.prev
	}
}

type codeChange struct {
	addr     types.Address
	prevCode *types.Bytecode
	prevHash types.Hash
}

func (e codeChange) revert(j *JournaledState) {
	if acc := j.state[e.addr]; acc != nil {
		acc.Code = e.prevCode
		acc.CodeHash = e.prevHash
	}
}

// storageChange undoes one SSTORE by restoring the slot's present value;
// the slot's original value and cold/warm marker are untouched since
// those describe the state before this transaction started, not before
// this call frame.
type storageChange struct {
	addr types.Address
	key  types.Word
	prev *types.Word
}

func (e storageChange) revert(j *JournaledState) {
	if acc := j.state[e.addr]; acc != nil {
		if slot := acc.Storage[e.key]; slot != nil {
			slot.PresentValue = e.prev
		}
	}
}

type transientStorageChange struct {
	addr types.Address
	key  types.Word
	prev *types.Word // nil means the slot was unset (reads as zero)
}

func (e transientStorageChange) revert(j *JournaledState) {
	m := j.transient[e.addr]
	if m == nil {
		return
	}
	if e.prev == nil {
		delete(m, e.key)
		if len(m) == 0 {
			delete(j.transient, e.addr)
		}
	} else {
		m[e.key] = e.prev
	}
}

type selfDestructChange struct {
	addr         types.Address
	target       types.Address
	prevStatus   types.AccountStatus
	prevBalance  *types.Word
	targetSame   bool // target == addr: only one balance to restore
	prevTargetBl *types.Word
}

func (e selfDestructChange) revert(j *JournaledState) {
	if acc := j.state[e.addr]; acc != nil {
		acc.Status = e.prevStatus
		acc.Balance = e.prevBalance
	}
	if !e.targetSame {
		if tgt := j.state[e.target]; tgt != nil {
			tgt.Balance = e.prevTargetBl
		}
	}
}

type logChange struct {
	prevLen int
}

func (e logChange) revert(j *JournaledState) {
	j.journal.logs = j.journal.logs[:e.prevLen]
}

type refundChange struct {
	prev int64
}

func (e refundChange) revert(j *JournaledState) {
	j.refund = e.prev
}
