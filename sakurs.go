// Package sakurs is a high-throughput, parallelizable sentence-boundary
// detection engine built on the Δ-Stack Monoid algorithm: text is split
// into independently scannable chunks, each chunk is reduced to a
// compact partial state (scanned sequentially or in parallel), and the
// per-chunk partial states are resolved left to right into one final,
// order-preserving set of confirmed sentence boundaries.
package sakurs

import (
	"bufio"
	"context"
	"io"
	"os"
	"unicode/utf8"

	apperrors "github.com/sakurs-go/sakurs/internal/errors"
	"github.com/sakurs-go/sakurs/internal/chunk"
	"github.com/sakurs-go/sakurs/internal/execute"
	"github.com/sakurs-go/sakurs/internal/metrics"
	"github.com/sakurs-go/sakurs/internal/monoid"
	"github.com/sakurs-go/sakurs/internal/resolve"
	"github.com/sakurs-go/sakurs/internal/rules"
	"github.com/sakurs-go/sakurs/internal/scan"
)

// Config controls how Process splits, scans, and reduces its input.
type Config struct {
	// Rules is the rule set to scan with. If nil, Process loads the
	// built-in set for Language.
	Rules *rules.RuleSet
	// Language selects a built-in rule set when Rules is nil.
	Language string

	ChunkSizeBytes   int
	OverlapSizeBytes int

	// ExecutionMode is "sequential", "parallel", or "adaptive".
	ExecutionMode          string
	ParallelThresholdBytes int
	NumWorkers             int

	// PreserveWhitespace controls whether a caller slicing sentences out
	// of the original input at the returned boundary offsets should keep
	// the leading/trailing whitespace surrounding each sentence, or trim
	// it. Process itself never slices or trims anything — boundary
	// offsets are exact either way — this only documents and threads the
	// option through to callers (see cmd/sakurs's --preserve-whitespace)
	// that do their own slicing.
	PreserveWhitespace bool
}

// DefaultConfig returns the engine's default configuration: English
// rules, 256KiB chunks with a 256-byte overlap, and adaptive execution
// that switches to the parallel strategy at 1MiB of input or more.
func DefaultConfig() Config {
	return Config{
		Language:               "en",
		ChunkSizeBytes:          262144,
		OverlapSizeBytes:        256,
		ExecutionMode:           "adaptive",
		ParallelThresholdBytes: 1048576,
		NumWorkers:              0,
		PreserveWhitespace:      false,
	}
}

// Input is a tagged union over the ways text can be handed to Process.
// Construct one with Text, Bytes, Path, or Reader.
type Input struct {
	kind   inputKind
	text   string
	data   []byte
	path   string
	reader io.Reader
}

type inputKind int

const (
	inputBytes inputKind = iota
	inputPath
	inputReader
)

func Text(s string) Input   { return Input{kind: inputBytes, data: []byte(s)} }
func Bytes(b []byte) Input  { return Input{kind: inputBytes, data: b} }
func Path(p string) Input   { return Input{kind: inputPath, path: p} }
func Reader(r io.Reader) Input { return Input{kind: inputReader, reader: r} }

// Metadata reports summary statistics for a Process call.
type Metadata struct {
	BytesProcessed  int
	ChunksProcessed int
	StrategyUsed    string
	SentenceCount   int
}

// Result is the outcome of a Process call: every confirmed sentence
// boundary in ascending byte-offset order, plus run metadata.
type Result struct {
	Boundaries []monoid.ConfirmedBoundary
	Metadata   Metadata
}

// Process splits input into chunks, scans each chunk, resolves the
// per-chunk partial states in order (including cross-chunk ambiguity),
// and returns the final confirmed boundary list. ctx is polled for cancellation between
// chunks — not mid-chunk, so scanning a single oversized chunk cannot be
// interrupted early.
func Process(ctx context.Context, input Input, cfg Config) (Result, error) {
	rs := cfg.Rules
	if rs == nil {
		var err error
		rs, err = rules.ForLanguage(cfg.Language)
		if err != nil {
			return Result{}, err
		}
	}

	raw, err := readAll(input)
	if err != nil {
		return Result{}, err
	}

	run := metrics.NewRun()
	defer run.Finish()

	chunkOpts := chunk.Options{ChunkSizeBytes: cfg.ChunkSizeBytes, OverlapSizeBytes: cfg.OverlapSizeBytes}
	chunks, err := chunk.Split(raw, chunkOpts)
	if err != nil {
		return Result{}, err
	}

	contents := make([][]byte, len(chunks))
	for i, c := range chunks {
		contents[i] = c.Content
	}

	strategy := execute.Select(len(raw), execute.Options{
		Mode:                   cfg.ExecutionMode,
		ParallelThresholdBytes: cfg.ParallelThresholdBytes,
	})
	run.SetStrategy(string(strategy))

	scanFn := func(c []byte) monoid.PartialState { return scan.Scan(c, rs) }
	states, err := execute.ScanAll(ctx, contents, strategy, scanFn, execute.Options{
		Mode:       string(strategy),
		NumWorkers: cfg.NumWorkers,
	})
	if err != nil {
		return Result{}, err
	}

	// Each chunk's own SuffixOverlap rides alongside its scanned state so
	// the resolver can re-run suppression checks with real lookahead for
	// boundaries that landed on a chunk's own trailing edge.
	chunkContexts := make([]resolve.ChunkContext, len(chunks))
	for i, c := range chunks {
		chunkContexts[i] = resolve.ChunkContext{
			State:         states[i],
			SuffixOverlap: c.SuffixOverlap,
		}
		run.RecordChunk(len(c.Content))
	}

	boundaries := resolve.Resolve(chunkContexts, rs)
	attachCharOffsets(raw, boundaries)
	for _, b := range boundaries {
		run.RecordBoundary(b.Flags.Has(monoid.FlagStrong))
	}
	run.Finish()
	run.Log()

	return Result{
		Boundaries: boundaries,
		Metadata: Metadata{
			BytesProcessed:  len(raw),
			ChunksProcessed: len(chunks),
			StrategyUsed:    string(strategy),
			SentenceCount:   run.SentenceCount(),
		},
	}, nil
}

// attachCharOffsets fills in each boundary's CharOffset in place with a
// single left-to-right pass over raw, counting runes up to each boundary's
// byte offset. Requires boundaries sorted in ascending Offset order, which
// resolve.Resolve guarantees.
func attachCharOffsets(raw []byte, boundaries []monoid.ConfirmedBoundary) {
	bytePos, chars := 0, 0
	for i := range boundaries {
		for bytePos < boundaries[i].Offset {
			_, size := utf8.DecodeRune(raw[bytePos:])
			bytePos += size
			chars++
		}
		boundaries[i].CharOffset = chars
	}
}

func readAll(input Input) ([]byte, error) {
	switch input.kind {
	case inputPath:
		data, err := os.ReadFile(input.path)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrorTypeNotFound, "reading input file")
		}
		return data, nil
	case inputReader:
		data, err := io.ReadAll(bufio.NewReader(input.reader))
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrorTypeExternal, "reading input stream")
		}
		return data, nil
	default:
		return input.data, nil
	}
}
