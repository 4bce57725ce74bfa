package evmctx

import (
	"testing"

	"github.com/ethcore/evmctx/crypto"
	"github.com/ethcore/evmctx/types"
)

// TestCreateAddressMatchesKnownVector checks the well-known
// sender=0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0, nonce=0 CREATE
// address vector used throughout the Ethereum test suites.
func TestCreateAddressMatchesKnownVector(t *testing.T) {
	sender := types.HexToAddress("0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0")
	got, err := CreateAddress(sender, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := types.HexToAddress("0xcd234a471b72ba2f1ccf0a70fcaba648a5eecd8d")
	if got != want {
		t.Errorf("got %s, want %s", got.Hex(), want.Hex())
	}
}

func TestCreateAddressVariesWithNonce(t *testing.T) {
	sender := types.HexToAddress("0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0")
	a0, err := CreateAddress(sender, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a1, err := CreateAddress(sender, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a0 == a1 {
		t.Error("expected different addresses for different nonces")
	}
}

func TestCreate2AddressMatchesEIP1014Vector(t *testing.T) {
	// EIP-1014's first worked example: deployer 0x0..0, salt 0x0..0,
	// init_code 0x00 -> 0x4d1a2e2bb4f88f0250f26ffff098b0b30b26bf38.
	sender := types.Address{}
	var salt types.Word
	initCodeHash := types.BytesToHash(crypto.Keccak256([]byte{0x00}))
	got := Create2Address(sender, salt, initCodeHash)
	want := types.HexToAddress("0x4d1a2e2bb4f88f0250f26ffff098b0b30b26bf38")
	if got != want {
		t.Errorf("got %s, want %s", got.Hex(), want.Hex())
	}
}

func TestCreate2AddressVariesWithSalt(t *testing.T) {
	sender := types.HexToAddress("0x0000000000000000000000000000000000000001")
	initCodeHash := types.BytesToHash(crypto.Keccak256([]byte{0x60, 0x00}))
	salt1 := *types.WordFromUint64(1)
	salt2 := *types.WordFromUint64(2)
	a1 := Create2Address(sender, salt1, initCodeHash)
	a2 := Create2Address(sender, salt2, initCodeHash)
	if a1 == a2 {
		t.Error("expected different addresses for different salts")
	}
}
