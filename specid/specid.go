// Package specid defines the hard-fork ordering this core gates behavior
// on. The original Rust implementation encodes the active fork as a
// compile-time generic parameter (a distinct zero-sized SPEC type per
// fork); this port uses a totally-ordered runtime enum instead — selecting
// a fork is a configuration decision made once when an EVM instance is
// built, not a property the type system needs to enforce, and Go has no
// compile-time specialization to exploit for it anyway.
package specid

// Id is a hard fork identifier. Values are ordered: a later fork has a
// strictly greater Id, so `enabled(active, target)` is a single integer
// comparison (spec.md §4.4).
type Id uint8

const (
	Frontier Id = iota
	Homestead
	Tangerine
	SpuriousDragon
	Byzantium
	Constantinople
	Petersburg
	Istanbul
	MuirGlacier
	Berlin
	London
	ArrowGlacier
	GrayGlacier
	Merge
	Shanghai
	Cancun
	Prague
	Osaka
)

// Latest is the most recent fork this core knows about.
const Latest = Osaka

var names = map[Id]string{
	Frontier:       "Frontier",
	Homestead:      "Homestead",
	Tangerine:      "Tangerine Whistle",
	SpuriousDragon: "Spurious Dragon",
	Byzantium:      "Byzantium",
	Constantinople: "Constantinople",
	Petersburg:     "Petersburg",
	Istanbul:       "Istanbul",
	MuirGlacier:    "Muir Glacier",
	Berlin:         "Berlin",
	London:         "London",
	ArrowGlacier:   "Arrow Glacier",
	GrayGlacier:    "Gray Glacier",
	Merge:          "Merge",
	Shanghai:       "Shanghai",
	Cancun:         "Cancun",
	Prague:         "Prague",
	Osaka:          "Osaka",
}

func (id Id) String() string {
	if n, ok := names[id]; ok {
		return n
	}
	return "Unknown"
}

// Enabled reports whether target's rules are active when the chain is
// running at active — i.e. active >= target. This is the runtime
// equivalent of the original's `SPEC::enabled(target)` associated
// constant check.
func Enabled(active, target Id) bool {
	return active >= target
}

// Rules is the set of fork-gated booleans the journal, gas accounting,
// and frame factory consult. It mirrors the teacher's core/vm.ForkRules
// (interpreter.go) — a flattened boolean struct handed to call sites
// instead of a string/enum switch at every call site — generalized from
// named per-fork fields to a single Id plus derived predicates so adding
// a future fork never means touching every consumer.
type Rules struct {
	Spec Id
}

// RulesFor derives the Rules in effect at a given active spec id.
func RulesFor(active Id) Rules {
	return Rules{Spec: active}
}

// IsHomestead etc. are derived predicates, not stored flags: each is a
// single comparison against the fork that introduced the behavior.
func (r Rules) IsHomestead() bool      { return Enabled(r.Spec, Homestead) }
func (r Rules) IsSpuriousDragon() bool { return Enabled(r.Spec, SpuriousDragon) } // EIP-158/161
func (r Rules) IsByzantium() bool      { return Enabled(r.Spec, Byzantium) }
func (r Rules) IsConstantinople() bool { return Enabled(r.Spec, Constantinople) }
func (r Rules) IsIstanbul() bool       { return Enabled(r.Spec, Istanbul) }
func (r Rules) IsBerlin() bool         { return Enabled(r.Spec, Berlin) } // EIP-2929/2930
func (r Rules) IsLondon() bool         { return Enabled(r.Spec, London) } // EIP-3529
func (r Rules) IsMerge() bool          { return Enabled(r.Spec, Merge) }
func (r Rules) IsShanghai() bool       { return Enabled(r.Spec, Shanghai) }
func (r Rules) IsCancun() bool         { return Enabled(r.Spec, Cancun) } // EIP-1153
func (r Rules) IsPrague() bool         { return Enabled(r.Spec, Prague) } // EIP-7620 EOF
func (r Rules) IsOsaka() bool          { return Enabled(r.Spec, Osaka) }

// EIP161EmptyAccountCleanup reports whether zero-balance/zero-nonce/
// empty-code accounts are pruned from state when touched (EIP-161,
// introduced at Spurious Dragon).
func (r Rules) EIP161EmptyAccountCleanup() bool { return r.IsSpuriousDragon() }

// EIP3541RejectsEFCode reports whether new contract code starting with
// 0xEF is rejected at deploy time (EIP-3541, introduced at London,
// generalized by EOF at Prague to the structured container format).
func (r Rules) EIP3541RejectsEFCode() bool { return r.IsLondon() }

// EIP2929WarmColdAccess reports whether SLOAD/CALL/BALANCE/EXT* gate on
// the warm/cold access-list distinction (EIP-2929, Berlin).
func (r Rules) EIP2929WarmColdAccess() bool { return r.IsBerlin() }

// EIP1153TransientStorage reports whether TLOAD/TSTORE operate on a
// per-transaction transient storage plane (EIP-1153, Cancun).
func (r Rules) EIP1153TransientStorage() bool { return r.IsCancun() }

// EOFEnabled reports whether EOF containers (EIP-3540 and successors)
// are a legal account code representation.
func (r Rules) EOFEnabled() bool { return r.IsPrague() }
