package specid

import "testing"

func TestEnabledOrdering(t *testing.T) {
	if !Enabled(Prague, Berlin) {
		t.Fatal("Prague should have Berlin rules enabled")
	}
	if Enabled(Berlin, Prague) {
		t.Fatal("Berlin must not have Prague rules enabled")
	}
	if !Enabled(Berlin, Berlin) {
		t.Fatal("a spec must enable its own rules")
	}
}

func TestRulesDerivedPredicates(t *testing.T) {
	r := RulesFor(Prague)
	if !r.EOFEnabled() {
		t.Fatal("Prague must enable EOF")
	}
	if !r.EIP2929WarmColdAccess() {
		t.Fatal("Prague must retain Berlin's warm/cold access list rules")
	}
	if !r.EIP1153TransientStorage() {
		t.Fatal("Prague must retain Cancun's transient storage")
	}

	old := RulesFor(Homestead)
	if old.EOFEnabled() || old.EIP2929WarmColdAccess() || old.EIP1153TransientStorage() {
		t.Fatal("Homestead must not enable any later-fork rule")
	}
}

func TestEIP3541GateIsLondon(t *testing.T) {
	if RulesFor(Berlin).EIP3541RejectsEFCode() {
		t.Fatal("Berlin predates EIP-3541")
	}
	if !RulesFor(London).EIP3541RejectsEFCode() {
		t.Fatal("London introduces EIP-3541")
	}
}
