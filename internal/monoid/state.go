// Package monoid implements the Δ-Stack partial state ⟨B, Δ, A⟩ and its
// associative combine operator. A PartialState is produced independently
// per chunk by the scanner and reduced — in any grouping, left to right —
// by Combine/Reduce/ReduceTree without loss of accuracy.
package monoid

// BoundaryFlags classifies a boundary candidate or confirmed boundary.
type BoundaryFlags uint8

const (
	// FlagStrong marks a boundary the scanner is confident about (a plain
	// terminator with no abbreviation/ellipsis ambiguity).
	FlagStrong BoundaryFlags = 1 << iota
	// FlagWeak marks a boundary that needs corroborating context from the
	// resolver (ambiguous follower, enclosure imbalance, etc).
	FlagWeak
	// FlagFromAbbreviation marks a boundary recovered after an
	// abbreviation because the following word is a known sentence starter.
	FlagFromAbbreviation
)

func (f BoundaryFlags) Has(bit BoundaryFlags) bool { return f&bit != 0 }

func (f BoundaryFlags) String() string {
	switch {
	case f.Has(FlagFromAbbreviation):
		return "from_abbreviation"
	case f.Has(FlagStrong):
		return "strong"
	case f.Has(FlagWeak):
		return "weak"
	default:
		return "none"
	}
}

// DepthVec is the per-enclosure-type nesting depth, relative to some
// origin (chunk start, or the text start after a combine). Index i
// corresponds to the rule set's enclosure type_id i.
type DepthVec []int32

// Clone returns an independent copy, since PartialStates must never share
// mutable backing arrays once they are moved through the reducer.
func (d DepthVec) Clone() DepthVec {
	out := make(DepthVec, len(d))
	copy(out, d)
	return out
}

// DeltaEntry tracks one enclosure type's net open/close count and the
// minimum prefix sum observed across a scanned span — the latter is what
// lets the resolver tell whether a later chunk closes something opened
// before its start.
type DeltaEntry struct {
	Net int32
	Min int32
}

// CombineDelta implements the delta combine law:
// (a.net+b.net, min(a.min, a.net+b.min)). Identity is (0, 0).
func CombineDelta(a, b DeltaEntry) DeltaEntry {
	return DeltaEntry{
		Net: a.Net + b.Net,
		Min: minInt32(a.Min, a.Net+b.Min),
	}
}

func minInt32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

// DeltaVec is one DeltaEntry per enclosure type.
type DeltaVec []DeltaEntry

func identityDeltaVec(n int) DeltaVec {
	return make(DeltaVec, n)
}

// CombineDeltaVec combines two delta vectors of equal length component-wise.
func CombineDeltaVec(a, b DeltaVec) DeltaVec {
	out := make(DeltaVec, len(a))
	for i := range a {
		out[i] = CombineDelta(a[i], b[i])
	}
	return out
}

// AbbreviationState carries just enough self-describing context at each
// chunk edge to let the resolver validate a cross-chunk abbreviation
// without any shared mutable "carry" state between scans.
type AbbreviationState struct {
	// DanglingDot is true when the span's rightmost non-whitespace byte
	// ends a potential abbreviation (a single trailing dot).
	DanglingDot bool
	// HeadAlpha is true when the span's leftmost non-whitespace byte is
	// alphabetic.
	HeadAlpha bool
	// FirstWord is the span's first alphabetic run, used to validate a
	// cross-chunk abbreviation against the next span's opening word.
	FirstWord string
}

// CombineAbbreviation implements A_left ∘ A_right from the spec: the
// combined dangling_dot is the right side's, head_alpha is the left
// side's, and first_word falls back to the right side's when the left
// side never captured one (an empty left span, for instance).
func CombineAbbreviation(left, right AbbreviationState) AbbreviationState {
	firstWord := left.FirstWord
	if firstWord == "" {
		firstWord = right.FirstWord
	}
	return AbbreviationState{
		DanglingDot: right.DanglingDot,
		HeadAlpha:   left.HeadAlpha,
		FirstWord:   firstWord,
	}
}

// IsCrossChunkAbbreviation reports the cross-chunk abbreviation predicate:
// A_left.dangling_dot && A_right.head_alpha.
func IsCrossChunkAbbreviation(left, right AbbreviationState) bool {
	return left.DanglingDot && right.HeadAlpha
}

// BoundaryCandidate is a terminator seen during scan, not yet confirmed.
// LocalOffset is the byte offset within the owning chunk (or, after a
// combine, within the combined span) immediately after the terminator.
type BoundaryCandidate struct {
	LocalOffset int
	LocalDepths DepthVec
	Flags       BoundaryFlags
}

// PartialState is the monoid element ⟨B, Δ, A, L⟩ produced by a single
// scan and carried through the reduction tree. It is immutable after
// Combine — every combine allocates a fresh PartialState rather than
// mutating either operand, so states can be safely shared/reused by
// concurrent scan tasks up until the point they are combined.
type PartialState struct {
	Boundaries []BoundaryCandidate
	Deltas     DeltaVec
	Abbrev     AbbreviationState
	Length     int

	// TrailingContext is up to the last 10 runes of the scanned chunk.
	// It lets the resolver re-evaluate a suppression rule for a
	// terminator that sat at the chunk's own end, where the scanner had
	// no following context of its own to check against.
	TrailingContext string
}

// Identity returns the identity element for n enclosure types:
// {B: [], Δ: [(0,0)]*n, A: zero value, L: 0}.
func Identity(n int) PartialState {
	return PartialState{
		Boundaries: nil,
		Deltas:     identityDeltaVec(n),
		Abbrev:     AbbreviationState{},
		Length:     0,
	}
}

// Combine implements ⊕ (left ⊕ right), associative but NOT commutative:
//   - B_out = B_left ++ shift(B_right, by L_left)
//   - Δ_out[i] = combine(Δ_left[i], Δ_right[i])
//   - A_out = combine(A_left, A_right)
//   - L_out = L_left + L_right
//
// local_depths on right-hand candidates are NOT rewritten here — they
// stay chunk-local; only the resolver converts them to global depths
// using the prefix sum of Δ.Net across preceding chunks.
func Combine(left, right PartialState) PartialState {
	boundaries := make([]BoundaryCandidate, 0, len(left.Boundaries)+len(right.Boundaries))
	boundaries = append(boundaries, left.Boundaries...)
	for _, b := range right.Boundaries {
		boundaries = append(boundaries, BoundaryCandidate{
			LocalOffset: b.LocalOffset + left.Length,
			LocalDepths: b.LocalDepths,
			Flags:       b.Flags,
		})
	}

	trailing := right.TrailingContext
	if trailing == "" {
		trailing = left.TrailingContext
	}

	return PartialState{
		Boundaries:      boundaries,
		Deltas:          CombineDeltaVec(left.Deltas, right.Deltas),
		Abbrev:          CombineAbbreviation(left.Abbrev, right.Abbrev),
		Length:          left.Length + right.Length,
		TrailingContext: trailing,
	}
}

// Reduce folds states left to right with a serial accumulator seeded by
// the first state, so its result equals ReduceTree's for any grouping.
// Reduce of an empty slice panics — callers must guard.
func Reduce(states []PartialState) PartialState {
	acc := states[0]
	for _, s := range states[1:] {
		acc = Combine(acc, s)
	}
	return acc
}

// ConfirmedBoundary is a boundary candidate that has survived
// cross-chunk resolution: a definite sentence end at a global byte
// offset into the original input. CharOffset is the same position
// counted in runes rather than bytes; internal/resolve leaves it at its
// zero value — the façade fills it in with one pass over the input
// once every boundary's byte offset is final.
type ConfirmedBoundary struct {
	Offset     int
	CharOffset int
	Flags      BoundaryFlags
}

// ReduceTree performs a balanced binary-tree reduction that still
// respects left-to-right chunk order — Combine is associative but not
// commutative, so the tree must never reorder leaves, only regroup them.
func ReduceTree(states []PartialState) PartialState {
	switch len(states) {
	case 0:
		return Identity(0)
	case 1:
		return states[0]
	default:
		mid := len(states) / 2
		left := ReduceTree(states[:mid])
		right := ReduceTree(states[mid:])
		return Combine(left, right)
	}
}
