// Package metrics tracks per-run statistics for a single Process call:
// bytes/chunks processed, boundary counts by flag, strategy used, and
// wall-clock duration, logged as one summary line on completion.
package metrics

import (
	"sync"
	"time"

	"github.com/sakurs-go/sakurs/internal/logger"
)

// Run accumulates counters for a single engine run. Safe for concurrent
// use by scan workers; callers outside the executor never need the lock.
type Run struct {
	mu sync.Mutex

	BytesProcessed  int
	ChunksProcessed int
	StrongBoundaries int
	WeakBoundaries   int
	StrategyUsed     string

	startTime time.Time
	duration  time.Duration
}

// NewRun starts a fresh metrics run with the clock ticking.
func NewRun() *Run {
	return &Run{startTime: time.Now()}
}

func (r *Run) RecordChunk(bytes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.BytesProcessed += bytes
	r.ChunksProcessed++
}

func (r *Run) RecordBoundary(strong bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if strong {
		r.StrongBoundaries++
	} else {
		r.WeakBoundaries++
	}
}

func (r *Run) SetStrategy(strategy string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StrategyUsed = strategy
}

// Finish stops the clock. Call once processing has completed.
func (r *Run) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.duration = time.Since(r.startTime)
}

// SentenceCount returns the number of confirmed boundaries (strong + weak)
// recorded so far.
func (r *Run) SentenceCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.StrongBoundaries + r.WeakBoundaries
}

// Log emits a single summary line at INFO level.
func (r *Run) Log() {
	r.mu.Lock()
	defer r.mu.Unlock()
	logger.Info("process run complete",
		"bytes_processed", r.BytesProcessed,
		"chunks_processed", r.ChunksProcessed,
		"strategy", r.StrategyUsed,
		"strong_boundaries", r.StrongBoundaries,
		"weak_boundaries", r.WeakBoundaries,
		"duration_ms", r.duration.Milliseconds(),
	)
}
