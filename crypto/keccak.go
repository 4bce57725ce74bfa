// Package crypto provides the Keccak-256 hashing primitive consumed by
// address derivation, the EOF codec, and empty-account/empty-code checks.
package crypto

import (
	"golang.org/x/crypto/sha3"

	"github.com/ethcore/evmctx/types"
)

// Keccak256 returns the Keccak-256 digest of the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash returns Keccak256 as a types.Hash.
func Keccak256Hash(data ...[]byte) types.Hash {
	return types.BytesToHash(Keccak256(data...))
}

// KeccakEmpty is keccak256(""), the code hash of an account with no code.
var KeccakEmpty = Keccak256Hash()

// EOFMagicHash is keccak256(0xEF00), the code_hash an EOF-format account
// reports to callers per EIP-1052 (§6: "code_hash returns keccak256(0xEF00)
// for EOF accounts").
var EOFMagicHash = Keccak256Hash(types.EOFMagicBytes)
