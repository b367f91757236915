// Package execute runs the scan phase over a chunk set using one of two
// strategies — sequential or a worker-pool parallel — and reduces the
// results with monoid.ReduceTree. Both strategies must produce
// byte-identical output for the same input; only wall-clock time
// differs, which internal/execute's own tests verify directly.
package execute

import (
	"context"
	"runtime"
	"sync"

	apperrors "github.com/sakurs-go/sakurs/internal/errors"
	"github.com/sakurs-go/sakurs/internal/monoid"
)

// Strategy names the execution path chosen for a run.
type Strategy string

const (
	StrategySequential Strategy = "sequential"
	StrategyParallel   Strategy = "parallel"
)

// Options configures strategy selection and the parallel worker pool.
type Options struct {
	// Mode forces a strategy ("sequential", "parallel", or "adaptive" to
	// choose based on ParallelThresholdBytes).
	Mode string
	// ParallelThresholdBytes is the total input size at or above which
	// adaptive mode selects StrategyParallel.
	ParallelThresholdBytes int
	// NumWorkers bounds the parallel worker pool. Defaults to
	// runtime.NumCPU() if <= 0.
	NumWorkers int
}

// Select resolves Options.Mode (and, for "adaptive", totalBytes) to a
// concrete Strategy.
func Select(totalBytes int, opts Options) Strategy {
	switch opts.Mode {
	case string(StrategySequential):
		return StrategySequential
	case string(StrategyParallel):
		return StrategyParallel
	default: // "adaptive" or unset
		if totalBytes >= opts.ParallelThresholdBytes {
			return StrategyParallel
		}
		return StrategySequential
	}
}

// ScanFunc scans a single chunk into a partial state. internal/scan.Scan
// satisfies this signature.
type ScanFunc func(content []byte) monoid.PartialState

// scanJob carries a chunk's position and content for a worker.
type scanJob struct {
	index   int
	content []byte
}

// scanResult carries a worker's position and output. A chunk skipped
// because of cancellation sends no result at all.
type scanResult struct {
	index int
	state monoid.PartialState
}

// ScanAll scans every chunk's content according to the selected strategy
// and returns one partial state per chunk, in original order.
// Cancellation is polled between chunks, never mid-chunk, matching the
// algorithm's chunk-granular cancellation contract.
func ScanAll(ctx context.Context, contents [][]byte, strategy Strategy, scan ScanFunc, opts Options) ([]monoid.PartialState, error) {
	if len(contents) == 0 {
		return nil, nil
	}

	switch strategy {
	case StrategyParallel:
		return runParallel(ctx, contents, scan, opts)
	default:
		return runSequential(ctx, contents, scan)
	}
}

// Run scans every chunk (via ScanAll) and reduces the results in
// original order via monoid.ReduceTree. Most callers only need the
// per-chunk states from ScanAll to feed internal/resolve; Run exists for
// callers that want the combined monoid element directly (tests proving
// strategy equivalence, primarily).
func Run(ctx context.Context, contents [][]byte, strategy Strategy, scan ScanFunc, opts Options) (monoid.PartialState, error) {
	states, err := ScanAll(ctx, contents, strategy, scan, opts)
	if err != nil {
		return monoid.PartialState{}, err
	}
	if len(states) == 0 {
		return monoid.PartialState{}, nil
	}
	return monoid.ReduceTree(states), nil
}

func runSequential(ctx context.Context, contents [][]byte, scan ScanFunc) ([]monoid.PartialState, error) {
	states := make([]monoid.PartialState, len(contents))
	for i, c := range contents {
		select {
		case <-ctx.Done():
			return nil, apperrors.CancelledError()
		default:
		}
		states[i] = scan(c)
	}
	return states, nil
}

func runParallel(ctx context.Context, contents [][]byte, scan ScanFunc, opts Options) ([]monoid.PartialState, error) {
	numWorkers := opts.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(contents) {
		numWorkers = len(contents)
	}

	jobs := make(chan scanJob, len(contents))
	results := make(chan scanResult, len(contents))

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				results <- scanResult{index: job.index, state: scan(job.content)}
			}
		}()
	}

	for i, c := range contents {
		jobs <- scanJob{index: i, content: c}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	states := make([]monoid.PartialState, len(contents))
	seen := make([]bool, len(contents))
	for res := range results {
		states[res.index] = res.state
		seen[res.index] = true
	}

	select {
	case <-ctx.Done():
		return nil, apperrors.CancelledError()
	default:
	}
	for _, ok := range seen {
		if !ok {
			return nil, apperrors.CancelledError()
		}
	}

	return states, nil
}
