package evmctx

import "testing"

func TestInstructionResultIsOk(t *testing.T) {
	for _, r := range []InstructionResult{Stop, Return, ReturnContract, SelfDestruct} {
		if !r.IsOk() {
			t.Errorf("%s: expected IsOk", r)
		}
		if r.IsError() {
			t.Errorf("%s: expected not IsError", r)
		}
	}
}

func TestInstructionResultRevertIsNeitherOkNorError(t *testing.T) {
	if Revert.IsOk() {
		t.Error("Revert: expected not IsOk")
	}
	if Revert.IsError() {
		t.Error("Revert: expected not IsError (it carries output data, unlike a halt)")
	}
}

func TestInstructionResultHaltsAreErrors(t *testing.T) {
	for _, r := range []InstructionResult{
		OutOfGas, CallTooDeep, CreateCollision, InvalidEOFInitCode, FatalExternalError,
	} {
		if r.IsOk() {
			t.Errorf("%s: expected not IsOk", r)
		}
		if !r.IsError() {
			t.Errorf("%s: expected IsError", r)
		}
	}
}

func TestInstructionResultStringUnknown(t *testing.T) {
	var r InstructionResult = 255
	if r.String() != "Unknown" {
		t.Errorf("got %q, want Unknown", r.String())
	}
}
