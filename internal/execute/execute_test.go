package execute

import (
	"context"
	"reflect"
	"strings"
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

func chunkEvery(text string, size int) [][]byte {
	var out [][]byte
	for i := 0; i < len(text); i += size {
		end := i + size
		if end > len(text) {
			end = len(text)
		}
		out = append(out, []byte(text[i:end]))
	}
	return out
}

func TestSelectStrategy(t *testing.T) {
	opts := Options{Mode: "adaptive", ParallelThresholdBytes: 1000}
	if got := Select(500, opts); got != StrategySequential {
		t.Errorf("Select(500) = %v, want sequential", got)
	}
	if got := Select(1000, opts); got != StrategyParallel {
		t.Errorf("Select(1000) = %v, want parallel", got)
	}
	if got := Select(1, Options{Mode: "parallel"}); got != StrategyParallel {
		t.Errorf("forced parallel mode = %v, want parallel", got)
	}
	if got := Select(1_000_000, Options{Mode: "sequential"}); got != StrategySequential {
		t.Errorf("forced sequential mode = %v, want sequential", got)
	}
}

func TestRunSequentialAndParallelProduceIdenticalResults(t *testing.T) {
	rs := mustRules(t)
	text := strings.Repeat("Sentence number here. ", 500)
	for _, size := range []int{1024, 65536, 1 << 20} {
		chunks := chunkEvery(text, size)
		scanFn := func(c []byte) monoid.PartialState { return scan.Scan(c, rs) }

		seq, err := Run(context.Background(), chunks, StrategySequential, scanFn, Options{})
		if err != nil {
			t.Fatalf("sequential Run() error = %v", err)
		}
		par, err := Run(context.Background(), chunks, StrategyParallel, scanFn, Options{NumWorkers: 4})
		if err != nil {
			t.Fatalf("parallel Run() error = %v", err)
		}

		if !reflect.DeepEqual(seq.Deltas, par.Deltas) {
			t.Errorf("size=%d: Deltas differ: seq=%v par=%v", size, seq.Deltas, par.Deltas)
		}
		if seq.Length != par.Length {
			t.Errorf("size=%d: Length differs: seq=%d par=%d", size, seq.Length, par.Length)
		}
		if len(seq.Boundaries) != len(par.Boundaries) {
			t.Fatalf("size=%d: boundary count differs: seq=%d par=%d", size, len(seq.Boundaries), len(par.Boundaries))
		}
		for i := range seq.Boundaries {
			if seq.Boundaries[i].LocalOffset != par.Boundaries[i].LocalOffset {
				t.Errorf("size=%d: boundary[%d] offset differs: seq=%d par=%d", size, i, seq.Boundaries[i].LocalOffset, par.Boundaries[i].LocalOffset)
			}
		}
	}
}

func TestRunRespectsCancellation(t *testing.T) {
	rs := mustRules(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chunks := chunkEvery(strings.Repeat("text. ", 1000), 64)
	scanFn := func(c []byte) monoid.PartialState { return scan.Scan(c, rs) }

	_, err := Run(ctx, chunks, StrategySequential, scanFn, Options{})
	if err == nil {
		t.Error("expected cancellation error for already-cancelled context")
	}
}

func TestRunEmptyInput(t *testing.T) {
	state, err := Run(context.Background(), nil, StrategySequential, func([]byte) monoid.PartialState { return monoid.PartialState{} }, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if state.Length != 0 {
		t.Errorf("expected zero-length state for empty input, got %d", state.Length)
	}
}
