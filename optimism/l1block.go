package optimism

import "github.com/ethcore/evmctx/types"

// L1BlockInfo caches the L1 block attributes an OP Stack execution
// context needs to price a transaction's L1 data availability cost. It
// is read once per block from the L1Block predeploy's storage and
// reused for every transaction in that block rather than re-fetched.
// The holder itself is grounded directly on the `l1_block_info` field of
// inner_evm_context.rs (`Option<crate::optimism::L1BlockInfo>`); that
// file was retrieved without the L1BlockInfo type definition it names,
// so the fields below are reconstructed from the public OP Stack L1 fee
// formula rather than ported from a directly read source file (see
// DESIGN.md).
type L1BlockInfo struct {
	L1BaseFee       *types.Word
	L1FeeOverhead   *types.Word
	L1FeeScalar     *types.Word
	L1BlobBaseFee   *types.Word
	L1BaseFeeScalar uint32
	L1BlobFeeScalar uint32

	// empty is true for the zero-value holder before the first
	// per-block load; DataGas treats it the same as a nil *L1BlockInfo.
	empty bool
}

// EmptyL1BlockInfo reports a holder with no data loaded yet.
func EmptyL1BlockInfo() *L1BlockInfo { return &L1BlockInfo{empty: true} }

// DataGas estimates the L1 data-availability gas an Ecotone-or-later
// transaction of the given rollup-encoded length burns, per the OP
// Stack L1 fee formula:
//
//	gas = len(rollupData) * (16*zeroes_saved? ...) simplified to
//	gas = txDataGas * (baseFeeScalar*l1BaseFee + blobFeeScalar*l1BlobBaseFee) / 1e6
//
// Returns zero when no block info has been loaded yet (system
// transactions and deposit transactions never pay this fee).
func (b *L1BlockInfo) DataGas(txDataGasUsed uint64) *types.Word {
	if b == nil || b.empty || b.L1BaseFee == nil {
		return new(types.Word)
	}
	scaledBase := new(types.Word).Mul(b.L1BaseFee, types.WordFromUint64(uint64(b.L1BaseFeeScalar)))
	fee := new(types.Word).Mul(scaledBase, types.WordFromUint64(txDataGasUsed))
	if b.L1BlobBaseFee != nil {
		scaledBlob := new(types.Word).Mul(b.L1BlobBaseFee, types.WordFromUint64(uint64(b.L1BlobFeeScalar)))
		fee.Add(fee, new(types.Word).Mul(scaledBlob, types.WordFromUint64(txDataGasUsed)))
	}
	return fee.Div(fee, types.WordFromUint64(1_000_000))
}
