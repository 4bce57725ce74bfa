// Package state implements the journaled, checkpoint/revert state cache
// that sits between the interpreter and a backing database: JournaledState
// caches every account and storage slot it touches in memory and records
// a reversible journal entry for each mutation, so a call frame that
// reverts can undo exactly its own side effects without re-reading the
// database or copying the whole state tree (spec.md §9).
package state

import (
	"github.com/ethcore/evmctx/types"
)

// Database is the backing store JournaledState falls back to on a cache
// miss. It is grounded on the teacher's core/vm.StateDB read-side methods
// (GetBalance/GetCode/GetState/...) collapsed to the handful of bulk
// loaders the original Rust `Database` trait exposes (basic/code_by_hash/
// storage/block_hash) — one round trip per account instead of one per
// field, since every field is needed together on first touch anyway.
type Database interface {
	// BasicAccount returns the account's nonce, balance and code hash, or
	// nil if the account does not exist. Code bytes are not required; the
	// interpreter only needs the hash until the code is actually read.
	BasicAccount(addr types.Address) (*types.Account, error)

	// Code returns the bytecode for a given code hash.
	Code(addr types.Address, codeHash types.Hash) (*types.Bytecode, error)

	// Storage returns the value at a storage slot, or the zero word if
	// unset.
	Storage(addr types.Address, key *types.Word) (*types.Word, error)

	// BlockHash returns the hash of the given past block number.
	BlockHash(number uint64) (types.Hash, error)
}
