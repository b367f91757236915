package resolve

import (
	"testing"

	"github.com/sakurs-go/sakurs/internal/monoid"
	"github.com/sakurs-go/sakurs/internal/rules"
	"github.com/sakurs-go/sakurs/internal/scan"
)

func mustRules(t *testing.T) *rules.RuleSet {
	t.Helper()
	rs, err := rules.ForLanguage("en")
	if err != nil {
		t.Fatalf("rules.ForLanguage(en) error = %v", err)
	}
	return rs
}

func offsets(cb []monoid.ConfirmedBoundary) []int {
	out := make([]int, len(cb))
	for i, b := range cb {
		out[i] = b.Offset
	}
	return out
}

// scanAsChunks splits text at the given byte offsets and scans each
// piece independently, mimicking what the executor hands to Resolve.
func scanAsChunks(t *testing.T, text string, splits []int, rs *rules.RuleSet, overlapBytes int) []ChunkContext {
	t.Helper()
	bounds := append([]int{0}, splits...)
	bounds = append(bounds, len(text))

	var ccs []ChunkContext
	for i := 0; i < len(bounds)-1; i++ {
		start, end := bounds[i], bounds[i+1]
		state := scan.Scan([]byte(text[start:end]), rs)
		var overlap []byte
		if end < len(text) {
			tail := end + overlapBytes
			if tail > len(text) {
				tail = len(text)
			}
			overlap = []byte(text[end:tail])
		}
		ccs = append(ccs, ChunkContext{State: state, SuffixOverlap: overlap})
	}
	return ccs
}

func TestResolveSingleChunkMatchesScan(t *testing.T) {
	rs := mustRules(t)
	text := "Hello world. How are you? Fine!"
	ccs := scanAsChunks(t, text, nil, rs, 0)

	got := offsets(Resolve(ccs, rs))
	want := []int{12, 25, 31}
	if len(got) != len(want) {
		t.Fatalf("offsets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("offsets[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestResolveRecoversAbbreviationSplitAcrossChunks(t *testing.T) {
	rs := mustRules(t)
	text := "He met Dr. Smith yesterday."
	splitAt := len("He met Dr.")
	ccs := scanAsChunks(t, text, []int{splitAt}, rs, 20)

	got := offsets(Resolve(ccs, rs))
	// "Dr." must NOT be a boundary (Smith is not a sentence starter);
	// only the final period should survive.
	if len(got) != 1 || got[0] != len(text) {
		t.Errorf("offsets = %v, want [%d]", got, len(text))
	}
}

func TestResolveConfirmsAbbreviationFollowedBySentenceStarterAcrossChunks(t *testing.T) {
	rs := mustRules(t)
	text := "He left etc. However it was fine."
	splitAt := len("He left etc.")
	ccs := scanAsChunks(t, text, []int{splitAt}, rs, 20)

	got := offsets(Resolve(ccs, rs))
	found := false
	for _, o := range got {
		if o == splitAt {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a confirmed boundary at %d (cross-chunk abbreviation recovery), got %v", splitAt, got)
	}
}

func TestResolveDowngradesBoundaryInsideUnclosedEnclosure(t *testing.T) {
	rs := mustRules(t)
	// The period right after "continues" is still nested inside the
	// open parenthesis from the first chunk — it must survive only as a
	// weak boundary, never a strong one.
	text := `She said (this continues. and ends) here.`
	splitAt := len(`She said (this `)
	ccs := scanAsChunks(t, text, []int{splitAt}, rs, 20)

	nestedOffset := splitAt + len("continues.")
	got := Resolve(ccs, rs)
	for _, b := range got {
		if b.Offset == nestedOffset && b.Flags.Has(monoid.FlagStrong) {
			t.Errorf("expected boundary inside unclosed parenthesis to be downgraded to weak, got %+v", b)
		}
	}
}

func TestResolveDeduplicatesSameOffsetKeepingStrongest(t *testing.T) {
	rs := mustRules(t)
	cc := []ChunkContext{{
		State: monoid.PartialState{
			Boundaries: []monoid.BoundaryCandidate{
				{LocalOffset: 5, LocalDepths: monoid.DepthVec{0, 0, 0, 0, 0, 0}, Flags: monoid.FlagWeak},
				{LocalOffset: 5, LocalDepths: monoid.DepthVec{0, 0, 0, 0, 0, 0}, Flags: monoid.FlagStrong},
			},
			Deltas: monoid.DeltaVec{{}, {}, {}, {}, {}, {}},
			Length: 5,
		},
	}}
	got := Resolve(cc, rs)
	if len(got) != 1 {
		t.Fatalf("expected 1 boundary, got %d", len(got))
	}
	if !got[0].Flags.Has(monoid.FlagStrong) {
		t.Errorf("expected the strong candidate to be kept, got flags %v", got[0].Flags)
	}
}

func TestResolveReSuppressesDecimalSplitAcrossChunks(t *testing.T) {
	rs := mustRules(t)
	text := "The price is 3.14 dollars."
	splitAt := len("The price is 3.")
	ccs := scanAsChunks(t, text, []int{splitAt}, rs, 20)

	got := offsets(Resolve(ccs, rs))
	for _, o := range got {
		if o == splitAt {
			t.Errorf("expected decimal point split across chunks to be re-suppressed, got boundary at %d", splitAt)
		}
	}
}

func TestResolveEmptyInput(t *testing.T) {
	rs := mustRules(t)
	got := Resolve(nil, rs)
	if len(got) != 0 {
		t.Errorf("expected no boundaries for empty input, got %v", got)
	}
}
