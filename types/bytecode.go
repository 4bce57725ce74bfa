package types

import "github.com/ethcore/evmctx/eof"

// BytecodeKind discriminates the Bytecode tagged variant (spec.md §3).
type BytecodeKind uint8

const (
	BytecodeRaw BytecodeKind = iota
	BytecodeAnalysed
	BytecodeEOF
)

// Bytecode is the tagged variant an account's code is stored as: raw bytes,
// bytes pre-analysed with a JUMPDEST bitmap, or a parsed EOF container. Its
// serialized form, when EOF, begins with the two-byte magic 0xEF00.
type Bytecode struct {
	Kind            BytecodeKind
	Raw             []byte
	JumpdestBitmap  []byte // one bit per byte offset in Raw, set if a valid JUMPDEST
	EOFContainer    *eof.Container
}

// NewRawBytecode wraps code as an unanalysed Raw variant.
func NewRawBytecode(code []byte) *Bytecode {
	return &Bytecode{Kind: BytecodeRaw, Raw: code}
}

// NewAnalysedBytecode wraps code together with its precomputed JUMPDEST
// bitmap (one bit set per valid jump destination byte offset).
func NewAnalysedBytecode(code []byte, bitmap []byte) *Bytecode {
	return &Bytecode{Kind: BytecodeAnalysed, Raw: code, JumpdestBitmap: bitmap}
}

// NewEOFBytecode wraps a parsed EOF container.
func NewEOFBytecode(c *eof.Container) *Bytecode {
	return &Bytecode{Kind: BytecodeEOF, EOFContainer: c}
}

// IsEOF reports whether this bytecode is the EOF variant.
func (b *Bytecode) IsEOF() bool { return b != nil && b.Kind == BytecodeEOF }

// OriginalBytes returns the bytecode's on-chain representation: the raw
// bytes for Raw/Analysed, or the two-byte EOF magic for the EOF variant
// (per spec.md §6, `code` returns the literal 0xEF00 for EOF accounts —
// callers needing the full container use EOFContainer directly).
func (b *Bytecode) OriginalBytes() []byte {
	if b == nil {
		return nil
	}
	if b.Kind == BytecodeEOF {
		return append([]byte(nil), EOFMagicBytes...)
	}
	return b.Raw
}

// Len returns the length of the bytecode's on-chain representation.
func (b *Bytecode) Len() int {
	if b == nil {
		return 0
	}
	if b.Kind == BytecodeEOF {
		return len(EOFMagicBytes)
	}
	return len(b.Raw)
}
