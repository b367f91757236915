package monoid

import (
	"reflect"
	"testing"
)

func sampleStates() []PartialState {
	return []PartialState{
		{
			Boundaries: []BoundaryCandidate{
				{LocalOffset: 5, LocalDepths: DepthVec{0}, Flags: FlagStrong},
			},
			Deltas: DeltaVec{{Net: 1, Min: 0}},
			Abbrev: AbbreviationState{DanglingDot: false, HeadAlpha: true, FirstWord: "Hello"},
			Length: 10,
		},
		{
			Boundaries: []BoundaryCandidate{
				{LocalOffset: 2, LocalDepths: DepthVec{1}, Flags: FlagWeak},
			},
			Deltas: DeltaVec{{Net: -1, Min: -1}},
			Abbrev: AbbreviationState{DanglingDot: true, HeadAlpha: false, FirstWord: "world"},
			Length: 8,
		},
		{
			Boundaries: []BoundaryCandidate{
				{LocalOffset: 0, LocalDepths: DepthVec{0}, Flags: FlagStrong | FlagFromAbbreviation},
			},
			Deltas: DeltaVec{{Net: 0, Min: 0}},
			Abbrev: AbbreviationState{DanglingDot: false, HeadAlpha: true, FirstWord: "Again"},
			Length: 6,
		},
	}
}

func TestIdentityIsLeftAndRightUnit(t *testing.T) {
	for _, s := range sampleStates() {
		id := Identity(len(s.Deltas))

		left := Combine(id, s)
		if !reflect.DeepEqual(left.Deltas, s.Deltas) || left.Length != s.Length || !reflect.DeepEqual(left.Boundaries, s.Boundaries) {
			t.Errorf("Identity ⊕ s != s: got %+v, want %+v", left, s)
		}

		right := Combine(s, id)
		if !reflect.DeepEqual(right.Deltas, s.Deltas) || right.Length != s.Length || !reflect.DeepEqual(right.Boundaries, s.Boundaries) {
			t.Errorf("s ⊕ Identity != s: got %+v, want %+v", right, s)
		}
	}
}

func TestCombineIsAssociative(t *testing.T) {
	states := sampleStates()
	a, b, c := states[0], states[1], states[2]

	left := Combine(Combine(a, b), c)
	right := Combine(a, Combine(b, c))

	if !reflect.DeepEqual(left.Deltas, right.Deltas) {
		t.Errorf("Deltas differ by grouping: (a⊕b)⊕c=%v, a⊕(b⊕c)=%v", left.Deltas, right.Deltas)
	}
	if left.Length != right.Length {
		t.Errorf("Length differs by grouping: %d vs %d", left.Length, right.Length)
	}
	if !reflect.DeepEqual(left.Abbrev, right.Abbrev) {
		t.Errorf("Abbrev differs by grouping: %+v vs %+v", left.Abbrev, right.Abbrev)
	}
	if !reflect.DeepEqual(left.Boundaries, right.Boundaries) {
		t.Errorf("Boundaries differ by grouping: %+v vs %+v", left.Boundaries, right.Boundaries)
	}
}

func TestCombineIsNotCommutative(t *testing.T) {
	states := sampleStates()
	a, b := states[0], states[1]

	ab := Combine(a, b)
	ba := Combine(b, a)

	if reflect.DeepEqual(ab.Abbrev, ba.Abbrev) {
		t.Error("expected Abbrev to depend on operand order, got identical results")
	}
}

func TestReduceTreeMatchesSerialReduceRegardlessOfGrouping(t *testing.T) {
	states := sampleStates()

	serial := Reduce(states)
	tree := ReduceTree(states)

	if !reflect.DeepEqual(serial.Deltas, tree.Deltas) {
		t.Errorf("Deltas: serial=%v tree=%v", serial.Deltas, tree.Deltas)
	}
	if serial.Length != tree.Length {
		t.Errorf("Length: serial=%d tree=%d", serial.Length, tree.Length)
	}
	if !reflect.DeepEqual(serial.Abbrev, tree.Abbrev) {
		t.Errorf("Abbrev: serial=%+v tree=%+v", serial.Abbrev, tree.Abbrev)
	}
	if len(serial.Boundaries) != len(tree.Boundaries) {
		t.Fatalf("Boundaries count: serial=%d tree=%d", len(serial.Boundaries), len(tree.Boundaries))
	}
	for i := range serial.Boundaries {
		if serial.Boundaries[i].LocalOffset != tree.Boundaries[i].LocalOffset {
			t.Errorf("Boundary[%d].LocalOffset: serial=%d tree=%d", i, serial.Boundaries[i].LocalOffset, tree.Boundaries[i].LocalOffset)
		}
	}
}

func TestReduceTreeWithManyStatesPreservesOrder(t *testing.T) {
	// 7 chunks of length 10, each with one boundary at local offset 9,
	// forces an unbalanced split at several tree levels.
	states := make([]PartialState, 7)
	for i := range states {
		states[i] = PartialState{
			Boundaries: []BoundaryCandidate{{LocalOffset: 9, LocalDepths: DepthVec{0}, Flags: FlagStrong}},
			Deltas:     DeltaVec{{Net: 0, Min: 0}},
			Length:     10,
		}
	}

	got := ReduceTree(states)
	want := Reduce(states)

	if len(got.Boundaries) != 7 {
		t.Fatalf("expected 7 boundaries, got %d", len(got.Boundaries))
	}
	for i, b := range got.Boundaries {
		wantOffset := i*10 + 9
		if b.LocalOffset != wantOffset {
			t.Errorf("Boundary[%d].LocalOffset = %d, want %d", i, b.LocalOffset, wantOffset)
		}
		if b.LocalOffset != want.Boundaries[i].LocalOffset {
			t.Errorf("tree/serial offset mismatch at %d: %d vs %d", i, b.LocalOffset, want.Boundaries[i].LocalOffset)
		}
	}
}

func TestCrossChunkAbbreviationPredicate(t *testing.T) {
	cases := []struct {
		name  string
		left  AbbreviationState
		right AbbreviationState
		want  bool
	}{
		{"dangling dot and alpha head", AbbreviationState{DanglingDot: true}, AbbreviationState{HeadAlpha: true}, true},
		{"no dangling dot", AbbreviationState{DanglingDot: false}, AbbreviationState{HeadAlpha: true}, false},
		{"no alpha head", AbbreviationState{DanglingDot: true}, AbbreviationState{HeadAlpha: false}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsCrossChunkAbbreviation(tc.left, tc.right); got != tc.want {
				t.Errorf("IsCrossChunkAbbreviation(%+v, %+v) = %v, want %v", tc.left, tc.right, got, tc.want)
			}
		})
	}
}

func TestDeltaCombineTracksMinimumPrefix(t *testing.T) {
	// Opens 2, closes 3 (net -1), but dips to -1 mid-span relative to this
	// span's own start — min must reflect the deepest dip, not just net.
	a := DeltaEntry{Net: 2, Min: 0}
	b := DeltaEntry{Net: -3, Min: -3}

	got := CombineDelta(a, b)
	want := DeltaEntry{Net: -1, Min: -1}
	if got != want {
		t.Errorf("CombineDelta(%+v, %+v) = %+v, want %+v", a, b, got, want)
	}
}
