package optimism

import (
	"testing"

	"github.com/ethcore/evmctx/types"
)

func TestInvalidOptimismTransactionMessages(t *testing.T) {
	cases := []struct {
		kind InvalidOptimismTransactionKind
		want string
	}{
		{DepositSystemTxPostRegolith, "deposit system transactions post regolith hardfork are not supported"},
		{MissingL1BlockInfo, "non-deposit transaction is missing L1 block info"},
		{UnexpectedL1BlockInfo, "deposit transaction has unexpected L1 block info"},
	}
	for _, c := range cases {
		err := InvalidOptimismTransaction{Kind: c.kind}
		if err.Error() != c.want {
			t.Errorf("kind %d: got %q, want %q", c.kind, err.Error(), c.want)
		}
	}
}

func TestInvalidOptimismTransactionWrapsBase(t *testing.T) {
	base := InvalidTransactionReason{Message: "nonce too low"}
	err := InvalidOptimismTransaction{Kind: Base, Base: base}
	if err.Error() != "nonce too low" {
		t.Errorf("got %q, want base message passthrough", err.Error())
	}
}

func TestOptimismHaltReasonFailedDepositOverridesBase(t *testing.T) {
	r := OptimismHaltReason{Kind: FailedDeposit, Base: "Revert"}
	if r.String() != "FailedDeposit" {
		t.Errorf("got %q, want FailedDeposit regardless of Base", r.String())
	}
	base := OptimismHaltReason{Kind: HaltBase, Base: "Stop"}
	if base.String() != "Stop" {
		t.Errorf("got %q, want passthrough of base halt name", base.String())
	}
}

func TestL1BlockInfoDataGasZeroWhenEmpty(t *testing.T) {
	empty := EmptyL1BlockInfo()
	if got := empty.DataGas(1000); got.Sign() != 0 {
		t.Errorf("expected zero data gas for empty block info, got %s", got.Hex())
	}
	var nilInfo *L1BlockInfo
	if got := nilInfo.DataGas(1000); got.Sign() != 0 {
		t.Errorf("expected zero data gas for nil block info, got %s", got.Hex())
	}
}

func TestL1BlockInfoDataGasScalesWithBaseFee(t *testing.T) {
	info := &L1BlockInfo{
		L1BaseFee:       types.WordFromUint64(1_000_000),
		L1BaseFeeScalar: 1_000_000,
	}
	got := info.DataGas(100)
	want := types.WordFromUint64(1_000_000 * 1_000_000 * 100 / 1_000_000)
	if !got.Eq(want) {
		t.Errorf("got %s, want %s", got.Hex(), want.Hex())
	}
}
