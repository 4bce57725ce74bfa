package state

import (
	"testing"

	"github.com/ethcore/evmctx/specid"
	"github.com/ethcore/evmctx/types"
)

// fakeDB is an in-memory Database backing store for tests; it supplies
// only the accounts a test seeds into it, and every storage slot reads
// as zero.
type fakeDB struct {
	accounts map[types.Address]*types.Account
}

func newFakeDB() *fakeDB {
	return &fakeDB{accounts: make(map[types.Address]*types.Account)}
}

func (d *fakeDB) BasicAccount(addr types.Address) (*types.Account, error) {
	return d.accounts[addr], nil
}

func (d *fakeDB) Code(addr types.Address, codeHash types.Hash) (*types.Bytecode, error) {
	return nil, nil
}

func (d *fakeDB) Storage(addr types.Address, key *types.Word) (*types.Word, error) {
	return new(types.Word), nil
}

func (d *fakeDB) BlockHash(number uint64) (types.Hash, error) {
	return types.Hash{}, nil
}

func addr(hex string) types.Address { return types.HexToAddress(hex) }

func TestLoadAccountColdThenWarm(t *testing.T) {
	js := New(specid.Prague, newFakeDB())
	a := addr("0x1111111111111111111111111111111111111111")

	_, isCold, err := js.LoadAccount(a)
	if err != nil {
		t.Fatal(err)
	}
	if !isCold {
		t.Fatal("first access must be cold")
	}

	_, isCold, err = js.LoadAccount(a)
	if err != nil {
		t.Fatal(err)
	}
	if isCold {
		t.Fatal("second access must be warm")
	}
}

func TestSstoreRevertRestoresPresentValueButKeepsWarmth(t *testing.T) {
	js := New(specid.Prague, newFakeDB())
	a := addr("0x2222222222222222222222222222222222222222")
	key := *types.WordFromUint64(1)
	val := types.WordFromUint64(42)

	// Pre-warm the slot through the access-list path before the frame
	// opens, so its warmth predates the checkpoint being reverted.
	if err := js.InitialAccountLoad(a, []types.Word{key}); err != nil {
		t.Fatal(err)
	}

	cp := js.Checkpoint()
	if _, err := js.Sstore(a, &key, val); err != nil {
		t.Fatal(err)
	}
	js.CheckpointRevert(cp)

	acc := js.state[a]
	slot := acc.Storage[key]
	if slot.PresentValue.Sign() != 0 {
		t.Fatalf("present value should be reverted to zero, got %s", slot.PresentValue.Hex())
	}
	if slot.IsCold {
		t.Fatal("access-list warmth must survive a revert, per EIP-2929")
	}
}

func TestCreateAccountCheckpointRejectsCollision(t *testing.T) {
	db := newFakeDB()
	caller := addr("0x3333333333333333333333333333333333333333")
	target := addr("0x4444444444444444444444444444444444444444")
	db.accounts[target] = types.NewLoadedAccount(new(types.Word), 1, types.Hash{})

	js := New(specid.Prague, db)
	if _, _, err := js.LoadAccount(caller); err != nil {
		t.Fatal(err)
	}
	js.state[caller].Balance = types.WordFromUint64(100)

	if _, err := js.CreateAccountCheckpoint(caller, target, new(types.Word)); err != ErrCreateCollision {
		t.Fatalf("expected ErrCreateCollision, got %v", err)
	}
}

func TestCreateAccountCheckpointRejectsCollisionOnCodeWithZeroNonce(t *testing.T) {
	db := newFakeDB()
	caller := addr("0xdddddddddddddddddddddddddddddddddddddddd")
	target := addr("0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	// A pre-Spurious-Dragon contract: nonce 0, but code already installed.
	db.accounts[target] = types.NewLoadedAccount(new(types.Word), 0, types.Hash{0x01})

	js := New(specid.Prague, db)
	if _, _, err := js.LoadAccount(caller); err != nil {
		t.Fatal(err)
	}
	js.state[caller].Balance = types.WordFromUint64(100)

	if _, err := js.CreateAccountCheckpoint(caller, target, new(types.Word)); err != ErrCreateCollision {
		t.Fatalf("expected ErrCreateCollision for code-bearing nonce-0 target, got %v", err)
	}
}

func TestCreateAccountCheckpointTransfersValueAndBumpsNonce(t *testing.T) {
	db := newFakeDB()
	caller := addr("0x5555555555555555555555555555555555555555")
	target := addr("0x6666666666666666666666666666666666666666")

	js := New(specid.Prague, db)
	if _, _, err := js.LoadAccount(caller); err != nil {
		t.Fatal(err)
	}
	js.state[caller].Balance = types.WordFromUint64(100)

	cp, err := js.CreateAccountCheckpoint(caller, target, types.WordFromUint64(30))
	if err != nil {
		t.Fatal(err)
	}
	js.CheckpointCommit()

	if js.state[caller].Balance.Uint64() != 70 {
		t.Fatalf("caller balance: got %d, want 70", js.state[caller].Balance.Uint64())
	}
	if js.state[target].Balance.Uint64() != 30 {
		t.Fatalf("target balance: got %d, want 30", js.state[target].Balance.Uint64())
	}
	if js.state[target].Nonce != 1 {
		t.Fatalf("target nonce: got %d, want 1", js.state[target].Nonce)
	}
	_ = cp
}

func TestCreateAccountCheckpointSkipsNonceBumpPreSpuriousDragon(t *testing.T) {
	db := newFakeDB()
	caller := addr("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	target := addr("0xcccccccccccccccccccccccccccccccccccccccc")

	js := New(specid.Homestead, db)
	if _, _, err := js.LoadAccount(caller); err != nil {
		t.Fatal(err)
	}
	js.state[caller].Balance = types.WordFromUint64(100)

	if _, err := js.CreateAccountCheckpoint(caller, target, new(types.Word)); err != nil {
		t.Fatal(err)
	}
	if js.state[target].Nonce != 0 {
		t.Fatalf("nonce should stay 0 pre-Spurious Dragon, got %d", js.state[target].Nonce)
	}
	if !js.state[target].Status.Has(types.NewlyCreated) {
		t.Fatal("target should be marked NewlyCreated regardless of the nonce-bump gate")
	}
}

func TestSelfdestructTransfersBalanceOnce(t *testing.T) {
	db := newFakeDB()
	src := addr("0x7777777777777777777777777777777777777777")
	tgt := addr("0x8888888888888888888888888888888888888888")

	js := New(specid.Prague, db)
	js.LoadAccount(src)
	js.LoadAccount(tgt)
	js.state[src].Balance = types.WordFromUint64(50)

	res, err := js.Selfdestruct(src, tgt)
	if err != nil {
		t.Fatal(err)
	}
	if !res.HadValue {
		t.Fatal("expected HadValue true")
	}
	if js.state[tgt].Balance.Uint64() != 50 {
		t.Fatalf("target balance: got %d, want 50", js.state[tgt].Balance.Uint64())
	}
	if js.state[src].Balance.Sign() != 0 {
		t.Fatal("source balance should be drained")
	}

	res2, err := js.Selfdestruct(src, tgt)
	if err != nil {
		t.Fatal(err)
	}
	if !res2.PreviouslyDestroyed {
		t.Fatal("second selfdestruct on the same account must report PreviouslyDestroyed")
	}
	if js.state[tgt].Balance.Uint64() != 50 {
		t.Fatal("re-selfdestructing must not transfer balance a second time")
	}
}

func TestTransientStorageNotVisibleAcrossAddresses(t *testing.T) {
	js := New(specid.Cancun, newFakeDB())
	a := addr("0x9999999999999999999999999999999999999999")
	b := addr("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	key := *types.WordFromUint64(7)

	js.Tstore(a, &key, types.WordFromUint64(99))
	if js.Tload(a, &key).Uint64() != 99 {
		t.Fatal("tload should see the value just tstored")
	}
	if js.Tload(b, &key).Sign() != 0 {
		t.Fatal("transient storage must not leak across addresses")
	}
}
