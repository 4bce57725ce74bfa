package types

import "github.com/holiman/uint256"

// Word is the 256-bit unsigned integer used for balances, storage slot
// keys/values, and gas-adjacent u256 arithmetic throughout the core.
// It is a thin alias over uint256.Int (EVM words wrap modulo 2^256, which
// is exactly the arithmetic uint256.Int implements) rather than math/big,
// matching how the rest of the Ethereum Go ecosystem represents EVM words.
type Word = uint256.Int

// ZeroWord is the additive identity, handy as a named comparison target.
var ZeroWord = uint256.NewInt(0)

// WordFromUint64 constructs a Word from a uint64.
func WordFromUint64(v uint64) *Word {
	return uint256.NewInt(v)
}

// BytesToWord interprets b as a big-endian 256-bit integer.
func BytesToWord(b []byte) *Word {
	return new(Word).SetBytes(b)
}
