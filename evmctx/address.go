package evmctx

import (
	"github.com/ethcore/evmctx/crypto"
	"github.com/ethcore/evmctx/rlp"
	"github.com/ethcore/evmctx/types"
)

// CreateAddress derives the address CREATE assigns a new contract:
// keccak256(rlp([sender, nonce]))[12:]. Unlike the teacher's
// interpreter.go, which hand-assembles the RLP bytes for this one call
// site, this uses the real rlp package — the teacher imports its own
// rlp package elsewhere but never reaches for it here, a gap closed in
// this port (see DESIGN.md).
func CreateAddress(sender types.Address, nonce uint64) (types.Address, error) {
	enc := rlp.EncodeAddressNonce(sender.Bytes(), nonce)
	return types.BytesToAddress(crypto.Keccak256(enc)), nil
}

// Create2Address derives the address CREATE2 assigns a new contract:
// keccak256(0xff ++ sender ++ salt ++ keccak256(init_code))[12:]
// (EIP-1014).
func Create2Address(sender types.Address, salt types.Word, initCodeHash types.Hash) types.Address {
	saltBytes := salt.Bytes32()
	buf := make([]byte, 0, 1+20+32+32)
	buf = append(buf, 0xff)
	buf = append(buf, sender.Bytes()...)
	buf = append(buf, saltBytes[:]...)
	buf = append(buf, initCodeHash.Bytes()...)
	return types.BytesToAddress(crypto.Keccak256(buf))
}
