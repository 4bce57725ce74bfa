package evmctx

import "github.com/ethcore/evmctx/crypto"

func keccak(b []byte) []byte {
	return crypto.Keccak256(b)
}

// analyseJumpdests builds a one-bit-per-byte-offset JUMPDEST bitmap for
// freshly deployed code, skipping over PUSH immediate-data bytes so a
// 0x5b byte inside push data is never mistaken for a jump destination.
// Grounded on the teacher's Contract.analyzeJumpdests (core/vm/
// contract.go), adapted from a lazily built map[uint64]bool to an
// eagerly built bitmap per spec.md's AnalysisKind.Analyse contract.
func analyseJumpdests(code []byte) []byte {
	const (
		opJUMPDEST = 0x5b
		opPUSH1    = 0x60
		opPUSH32   = 0x7f
	)
	bitmap := make([]byte, (len(code)+7)/8)
	for i := 0; i < len(code); i++ {
		op := code[i]
		if op == opJUMPDEST {
			bitmap[i/8] |= 1 << uint(i%8)
		}
		if op >= opPUSH1 && op <= opPUSH32 {
			i += int(op-opPUSH1) + 1
		}
	}
	return bitmap
}
