package types

// AccountStatus is a bitset of per-transaction account lifecycle flags
// (spec.md §3). Created implies Touched, SelfDestructed implies Touched,
// and once Touched is set it is never cleared within a transaction.
type AccountStatus uint8

const (
	Loaded AccountStatus = 1 << iota
	Touched
	Created
	SelfDestructed
	WarmAccess
	// NewlyCreated marks an account created within the current
	// transaction. It is set at the same moment as Created, and a later
	// SELFDESTRUCT on the same account clears neither flag. The
	// post-Cancun SELFDESTRUCT restriction (spec.md §3 Lifecycle) keys
	// actual account deletion at transaction commit on this flag: only
	// same-transaction creations are ever removed from state.
	NewlyCreated
)

// Has reports whether all bits in flag are set.
func (s AccountStatus) Has(flag AccountStatus) bool { return s&flag == flag }

// Set returns the status with flag set. Created and SelfDestructed always
// imply Touched, per the invariants in spec.md §3.
func (s AccountStatus) Set(flag AccountStatus) AccountStatus {
	s |= flag
	if flag&(Created|SelfDestructed) != 0 {
		s |= Touched
	}
	return s
}

// StorageSlot is a single cached storage slot: the value the database held
// at the start of the transaction, the current (possibly dirty) value, and
// whether this is still the slot's first access this transaction.
type StorageSlot struct {
	OriginalValue *Word
	PresentValue  *Word
	IsCold        bool
}

// NewStorageSlot creates a slot freshly loaded from the database: original
// and present both equal the loaded value, and it starts cold.
func NewStorageSlot(value *Word) *StorageSlot {
	return &StorageSlot{
		OriginalValue: new(Word).Set(value),
		PresentValue:  new(Word).Set(value),
		IsCold:        true,
	}
}

// IsChanged reports whether the present value differs from the original,
// committed-at-transaction-start value.
func (s *StorageSlot) IsChanged() bool {
	return s.OriginalValue.Cmp(s.PresentValue) != 0
}

// Account is the in-memory, journaled representation of one address's
// state: balance, nonce, code, storage cache, and lifecycle status.
type Account struct {
	Balance  *Word
	Nonce    uint64
	CodeHash Hash
	Code     *Bytecode // nil until resolved via LoadCode
	Storage  map[Word]*StorageSlot
	Status   AccountStatus
}

// NewLoadedAccount builds an Account populated from a database read,
// marked Loaded but not yet Touched or warmed.
func NewLoadedAccount(balance *Word, nonce uint64, codeHash Hash) *Account {
	return &Account{
		Balance:  new(Word).Set(balance),
		Nonce:    nonce,
		CodeHash: codeHash,
		Storage:  make(map[Word]*StorageSlot),
		Status:   Loaded,
	}
}

// IsEmpty implements the EIP-161 empty-account predicate: zero nonce, zero
// balance, and a code hash equal to either the zero hash or keccak256("").
func (a *Account) IsEmpty(emptyCodeHash Hash) bool {
	if a.Nonce != 0 {
		return false
	}
	if a.Balance.Sign() != 0 {
		return false
	}
	return a.CodeHash.IsZero() || a.CodeHash == emptyCodeHash
}

// StorageSlotOrNew returns the cached slot for key, creating an uncached
// placeholder (cold, zero-valued) if the key has never been touched. The
// caller is responsible for populating it from the database on first use.
func (a *Account) StorageSlotOrNew(key *Word) *StorageSlot {
	if slot, ok := a.Storage[*key]; ok {
		return slot
	}
	slot := &StorageSlot{
		OriginalValue: new(Word),
		PresentValue:  new(Word),
		IsCold:        true,
	}
	a.Storage[*key] = slot
	return slot
}
