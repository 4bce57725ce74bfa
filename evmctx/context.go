// Package evmctx implements the inner execution context (C6, spec.md
// §9): the struct that ties the environment, the journaled state cache,
// and the backing database together, and the frame factory / frame
// return handlers that translate a CALL/CREATE/EOFCREATE opcode into a
// journal checkpoint plus a child Contract, or directly into a halt
// result when the attempt can be rejected before an interpreter ever
// runs. Grounded throughout on inner_evm_context.rs's `InnerEvmContext`.
package evmctx

import (
	"errors"

	"github.com/ethcore/evmctx/eof"
	"github.com/ethcore/evmctx/optimism"
	"github.com/ethcore/evmctx/specid"
	"github.com/ethcore/evmctx/state"
	"github.com/ethcore/evmctx/types"
)

// Context is the inner execution context: environment, journaled state,
// and a single pending-error slot (the original's `take_error` pattern).
// TakeError returns and clears Err. No method in this package stores into
// Err or checks it on entry: each method returns a failed database read
// directly as its Go error.
type Context struct {
	Env     *types.Env
	Journal *state.JournaledState
	DB      state.Database
	Err     error

	// L1BlockInfo caches the current block's L1 data-fee attributes for
	// the OP Stack overlay (spec.md §5/§9 C7). Left nil unless
	// Env.Cfg.OptimismEnabled, mirroring the original's
	// #[cfg(feature = "optimism")] l1_block_info field.
	L1BlockInfo *optimism.L1BlockInfo
}

// New creates a Context over db with default environment and spec.
func New(db state.Database) *Context {
	return &Context{
		Env:     &types.Env{},
		Journal: state.New(specid.Latest, db),
		DB:      db,
	}
}

// NewWithEnv creates a Context with a caller-supplied environment,
// running at the given active fork.
func NewWithEnv(db state.Database, env *types.Env, spec specid.Id) *Context {
	return &Context{
		Env:     env,
		Journal: state.New(spec, db),
		DB:      db,
	}
}

// SpecId returns the active fork.
func (c *Context) SpecId() specid.Id { return c.Journal.SpecId() }

// Rules returns the derived fork-gate predicates for the active spec.
func (c *Context) Rules() specid.Rules { return specid.RulesFor(c.SpecId()) }

// LoadAccessList warms every address (and storage slot) named in the
// transaction's EIP-2930 access list.
func (c *Context) LoadAccessList() error {
	for _, entry := range c.Env.Tx.AccessList {
		slots := make([]types.Word, len(entry.StorageKeys))
		for i, h := range entry.StorageKeys {
			slots[i] = *types.BytesToWord(h.Bytes())
		}
		if err := c.Journal.InitialAccountLoad(entry.Address, slots); err != nil {
			return err
		}
	}
	return nil
}

// SetL1BlockInfo installs the per-block L1 data-fee attributes read from
// the L1Block predeploy. A no-op when the Optimism overlay is disabled.
func (c *Context) SetL1BlockInfo(info *optimism.L1BlockInfo) {
	if !c.Env.Cfg.OptimismEnabled {
		return
	}
	c.L1BlockInfo = info
}

// ValidateL1BlockInfo enforces spec.md §5/§9's Optimism invariant: a
// deposit transaction never carries L1 block info (it pays no L1 data
// fee), while every other transaction on an Optimism chain requires it
// already loaded. A no-op when the overlay is disabled.
func (c *Context) ValidateL1BlockInfo(isDepositTx bool) error {
	if !c.Env.Cfg.OptimismEnabled {
		return nil
	}
	if isDepositTx {
		if c.L1BlockInfo != nil {
			return optimism.InvalidOptimismTransaction{Kind: optimism.UnexpectedL1BlockInfo}
		}
		return nil
	}
	if c.L1BlockInfo == nil {
		return optimism.InvalidOptimismTransaction{Kind: optimism.MissingL1BlockInfo}
	}
	return nil
}

// TakeError returns the pending database error, if any, clearing it —
// the Go analogue of `core::mem::replace(&mut self.error, Ok(()))`.
func (c *Context) TakeError() error {
	err := c.Err
	c.Err = nil
	return err
}

// BlockHash fetches a past block's hash via the environment's oracle.
func (c *Context) BlockHash(number uint64) types.Hash {
	if c.Env.Block.BlockHashFn == nil {
		return types.Hash{}
	}
	return c.Env.Block.BlockHashFn(number)
}

// Balance returns an address's balance and whether this access was cold.
func (c *Context) Balance(addr types.Address) (*types.Word, bool, error) {
	acc, isCold, err := c.Journal.LoadAccount(addr)
	if err != nil {
		return nil, false, err
	}
	return acc.Balance, isCold, nil
}

// Code returns an address's on-chain code bytes (the literal EOF magic
// for an EOF account, per spec.md §6) and whether this access was cold.
func (c *Context) Code(addr types.Address) ([]byte, bool, error) {
	acc, isCold, err := c.Journal.LoadCode(addr)
	if err != nil {
		return nil, false, err
	}
	return acc.Code.OriginalBytes(), isCold, nil
}

// CodeHash returns an address's code hash (EOF_MAGIC_HASH for an EOF
// account, the empty-account zero hash for an empty account, per
// EIP-1052) and whether this access was cold.
func (c *Context) CodeHash(addr types.Address, emptyAccountHash, eofMagicHash types.Hash) (types.Hash, bool, error) {
	acc, isCold, err := c.Journal.LoadCode(addr)
	if err != nil {
		return types.Hash{}, false, err
	}
	if acc.IsEmpty(emptyAccountHash) {
		return types.Hash{}, isCold, nil
	}
	if acc.Code.IsEOF() {
		return eofMagicHash, isCold, nil
	}
	return acc.CodeHash, isCold, nil
}

// LoadAccount loads addr into the journaled cache, reporting whether this
// access was cold. Thin forwarder onto JournaledState, exposed here since
// spec.md §6 lists load_account among the operations the interpreter
// consumes directly off the Inner Context.
func (c *Context) LoadAccount(addr types.Address) (*types.Account, bool, error) {
	return c.Journal.LoadAccount(addr)
}

// LoadAccountExist is LoadAccount plus a precomputed EIP-161 existence flag.
func (c *Context) LoadAccountExist(addr types.Address) (state.LoadAccountResult, error) {
	return c.Journal.LoadAccountExist(addr)
}

// Sload reads a storage slot, reporting whether this access was cold.
func (c *Context) Sload(addr types.Address, key *types.Word) (*types.Word, bool, error) {
	return c.Journal.Sload(addr, key)
}

// Sstore writes a storage slot, returning the original/present/new value
// triple an SSTORE gas computation needs (EIP-2200/3529).
func (c *Context) Sstore(addr types.Address, key, value *types.Word) (state.SStoreResult, error) {
	return c.Journal.Sstore(addr, key, value)
}

// Tload reads a transient storage slot (EIP-1153).
func (c *Context) Tload(addr types.Address, key *types.Word) *types.Word {
	return c.Journal.Tload(addr, key)
}

// Tstore writes a transient storage slot (EIP-1153).
func (c *Context) Tstore(addr types.Address, key, value *types.Word) {
	c.Journal.Tstore(addr, key, value)
}

// Touch marks addr touched for the remainder of the transaction.
func (c *Context) Touch(addr types.Address) {
	c.Journal.Touch(addr)
}

// Selfdestruct executes SELFDESTRUCT on addr, transferring its balance to
// target and reporting the access-list/refund-relevant facts of the
// operation.
func (c *Context) Selfdestruct(addr, target types.Address) (state.SelfDestructResult, error) {
	return c.Journal.Selfdestruct(addr, target)
}

// MakeCreateFrame constructs a CREATE/CREATE2 child frame, or returns an
// immediate result if the attempt can be rejected outright (too deep,
// 0xEF00-prefixed init code from Prague, EIP-3860 init-code size limit,
// insufficient balance, nonce overflow, address collision).
// Grounded on `InnerEvmContext::make_create_frame`.
func (c *Context) MakeCreateFrame(inputs *CreateInputs) (FrameOrResult, error) {
	if c.Journal.Depth() > state.CallStackLimit {
		return resultOf(CallTooDeep, inputs.GasLimit), nil
	}

	if c.Rules().IsPrague() && eof.IsEOF(inputs.InitCode) {
		return resultOf(CreateInitCodeStartingEF00, inputs.GasLimit), nil
	}

	if c.Rules().IsShanghai() && len(inputs.InitCode) > MaxInitCodeSize {
		return resultOf(CreateInitCodeSizeLimit, inputs.GasLimit), nil
	}

	// The caller is loaded even when the balance check is disabled, since
	// the nonce bump below needs it in the cache.
	balance, _, err := c.Balance(inputs.Caller)
	if err != nil {
		return FrameOrResult{}, err
	}
	if !c.Env.Cfg.DisableBalanceCheck && balance.Cmp(inputs.Value) < 0 {
		return resultOf(OutOfFunds, inputs.GasLimit), nil
	}

	oldNonce := uint64(0)
	if !c.Env.Cfg.DisableNonceCheck {
		newNonce, ok := c.Journal.IncNonce(inputs.Caller)
		if !ok {
			return resultOf(Return, inputs.GasLimit), nil
		}
		oldNonce = newNonce - 1
	} else {
		acc, _, err := c.Journal.LoadAccount(inputs.Caller)
		if err != nil {
			return FrameOrResult{}, err
		}
		oldNonce = acc.Nonce
	}

	var createdAddress types.Address
	var initCodeHash types.Hash
	switch inputs.Scheme {
	case SchemeCreate:
		createdAddress, err = CreateAddress(inputs.Caller, oldNonce)
		if err != nil {
			return FrameOrResult{}, err
		}
	case SchemeCreate2:
		initCodeHash = types.BytesToHash(keccak(inputs.InitCode))
		createdAddress = Create2Address(inputs.Caller, inputs.Salt, initCodeHash)
	}

	cp, err := c.Journal.CreateAccountCheckpoint(inputs.Caller, createdAddress, inputs.Value)
	if err != nil {
		if errors.Is(err, state.ErrCreateCollision) {
			return resultOf(CreateCollision, inputs.GasLimit), nil
		}
		return FrameOrResult{}, err
	}

	contract := NewContract(inputs.Caller, createdAddress, types.NewRawBytecode(inputs.InitCode), initCodeHash, nil, inputs.Value)

	return frameOf(&Frame{
		Contract:       contract,
		CreatedAddress: createdAddress,
		Checkpoint:     cp,
		GasLimit:       inputs.GasLimit,
	}), nil
}

// MakeEOFCreateFrame constructs an EOFCREATE child frame (EIP-7620),
// either from an already-sliced-out subcontainer (opcode form) or by
// decoding dangling init data (transaction form). Grounded on
// `InnerEvmContext::make_eofcreate_frame`.
func (c *Context) MakeEOFCreateFrame(inputs *EOFCreateInputs) (FrameOrResult, error) {
	var (
		input          []byte
		container      *eof.Container
		createdAddress types.Address
		err            error
	)

	switch inputs.Kind {
	case EOFCreateOpcode:
		container, err = eof.Decode(inputs.InitContainer)
		if err != nil {
			return resultOf(InvalidEOFInitCode, inputs.GasLimit), nil
		}
		if verr := eof.Validate(container); verr != nil {
			return resultOf(InvalidEOFInitCode, inputs.GasLimit), nil
		}
		input = inputs.Input
		createdAddress = inputs.CreatedAddress

	case EOFCreateTx:
		// Nonce for the created address comes from the transaction (if
		// set) or from the caller's current account; CREATE's own nonce
		// bump happens below, same as the legacy path.
		nonce := uint64(0)
		if c.Env.Tx.Nonce != nil {
			nonce = *c.Env.Tx.Nonce
		} else {
			acc, _, lerr := c.Journal.LoadAccount(inputs.Caller)
			if lerr != nil {
				return FrameOrResult{}, lerr
			}
			nonce = acc.Nonce
		}

		var rest []byte
		container, rest, err = eof.DecodeDangling(inputs.InitData)
		if err != nil {
			return resultOf(InvalidEOFInitCode, inputs.GasLimit), nil
		}
		input = rest

		if verr := eof.Validate(container); verr != nil {
			return resultOf(InvalidEOFInitCode, inputs.GasLimit), nil
		}

		createdAddress, err = CreateAddress(c.Env.Tx.Caller, nonce)
		if err != nil {
			return FrameOrResult{}, err
		}
	}

	if c.Journal.Depth() > state.CallStackLimit {
		return resultOf(CallTooDeep, inputs.GasLimit), nil
	}

	balance, _, err := c.Balance(inputs.Caller)
	if err != nil {
		return FrameOrResult{}, err
	}
	if !c.Env.Cfg.DisableBalanceCheck && balance.Cmp(inputs.Value) < 0 {
		return resultOf(OutOfFunds, inputs.GasLimit), nil
	}

	if !c.Env.Cfg.DisableNonceCheck {
		if _, ok := c.Journal.IncNonce(inputs.Caller); !ok {
			return resultOf(Return, inputs.GasLimit), nil
		}
	}

	cp, err := c.Journal.CreateAccountCheckpoint(inputs.Caller, createdAddress, inputs.Value)
	if err != nil {
		if errors.Is(err, state.ErrCreateCollision) {
			return resultOf(CreateCollision, inputs.GasLimit), nil
		}
		return FrameOrResult{}, err
	}

	contract := NewContract(inputs.Caller, createdAddress, types.NewEOFBytecode(container), types.Hash{}, input, inputs.Value)
	contract.IsEOFInit = true

	return frameOf(&Frame{
		Contract:       contract,
		CreatedAddress: createdAddress,
		Checkpoint:     cp,
		GasLimit:       inputs.GasLimit,
		IsEOFCreate:    true,
	}), nil
}

// CallReturn handles a CALL-family frame's return: commit on a clean
// Stop/Return/ReturnContract/SelfDestruct, revert on anything else (including
// Revert itself, which still carries output data up to the caller but
// must not leave its own side effects installed).
func (c *Context) CallReturn(result InstructionResult, cp state.Checkpoint) {
	if result.IsOk() {
		c.Journal.CheckpointCommit()
	} else {
		c.Journal.CheckpointRevert(cp)
	}
}

// CreateReturn handles a legacy CREATE/CREATE2 frame's return: applies
// EIP-3541 (reject code starting with 0xEF), EIP-170 (size limit), and
// EIP-2/code-deposit gas accounting, then installs the deployed code.
// Grounded on `InnerEvmContext::create_return`.
func (c *Context) CreateReturn(result InstructionResult, gas *Gas, output []byte, addr types.Address, cp state.Checkpoint, perf types.AnalysisKind) (InstructionResult, []byte) {
	if !result.IsOk() {
		c.Journal.CheckpointRevert(cp)
		return result, output
	}

	rules := c.Rules()

	if rules.EIP3541RejectsEFCode() && len(output) > 0 && output[0] == 0xEF {
		c.Journal.CheckpointRevert(cp)
		return CreateContractStartingWithEF, nil
	}

	limit := c.Env.Cfg.LimitCodeSize()
	if rules.IsSpuriousDragon() && uint64(len(output)) > limit {
		c.Journal.CheckpointRevert(cp)
		return CreateContractSizeLimit, nil
	}

	gasForCode := uint64(len(output)) * CodeDepositGas
	if !gas.RecordCost(gasForCode) {
		if rules.IsHomestead() {
			c.Journal.CheckpointRevert(cp)
			return OutOfGas, nil
		}
		output = nil
	}

	c.Journal.CheckpointCommit()

	var code *types.Bytecode
	if perf == types.AnalysisAnalyse {
		code = types.NewAnalysedBytecode(output, analyseJumpdests(output))
	} else {
		code = types.NewRawBytecode(output)
	}
	c.Journal.SetCode(addr, code, types.BytesToHash(keccak(output)))

	return Return, output
}

// EOFCreateReturn handles an EOFCREATE frame's return: only
// RETURNCONTRACT is a successful outcome; anything else reverts.
// Grounded on `InnerEvmContext::eofcreate_return`.
func (c *Context) EOFCreateReturn(result InstructionResult, gas *Gas, output []byte, addr types.Address, cp state.Checkpoint) InstructionResult {
	if result != ReturnContract {
		c.Journal.CheckpointRevert(cp)
		return result
	}

	if len(output) > int(c.Env.Cfg.LimitCodeSize()) {
		c.Journal.CheckpointRevert(cp)
		return CreateContractSizeLimit
	}

	gasForCode := uint64(len(output)) * CodeDepositGas
	if !gas.RecordCost(gasForCode) {
		c.Journal.CheckpointRevert(cp)
		return OutOfGas
	}

	// The decode failure branch mirrors the non-panicking path of the
	// original's own logic (see DESIGN.md Open Questions): a corrupt
	// RETURNCONTRACT payload reports InvalidEOFInitCode and reverts the
	// checkpoint rather than panicking on attacker-controlled input. The
	// decode must happen before the commit, not after, or a failed decode
	// would find the checkpoint already merged into the parent frame.
	container, err := eof.Decode(output)
	if err != nil {
		c.Journal.CheckpointRevert(cp)
		return InvalidEOFInitCode
	}

	c.Journal.CheckpointCommit()
	c.Journal.SetCode(addr, types.NewEOFBytecode(container), types.BytesToHash(keccak(output)))
	return Return
}
