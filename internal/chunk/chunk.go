// Package chunk splits large input into scan-sized pieces at safe
// boundaries: always on a UTF-8 rune boundary, preferring a word
// boundary within a bounded search radius. A small suffix overlap is
// carried alongside (not merged into) each chunk's own content so the
// resolver has lookahead context across a split without the scanner
// ever counting those bytes twice.
package chunk

import (
	"unicode"
	"unicode/utf8"

	apperrors "github.com/sakurs-go/sakurs/internal/errors"
)

// wordBoundaryRadius bounds how far findBreakPoint will search backward
// from a hard split point for a word boundary before giving up and
// splitting mid-word (always still UTF-8-safe).
const wordBoundaryRadius = 100

// Chunk is one scan unit: a byte-range view of the original input plus
// the bookkeeping the resolver needs to stitch boundaries back together
// in global coordinates.
type Chunk struct {
	// Content is exactly input[StartOffset:EndOffset] — this, and only
	// this, is what internal/scan consumes, so chunk Length sums
	// correctly across the whole input with no double-counted bytes.
	Content []byte

	// SuffixOverlap is up to Options.OverlapSizeBytes of the input that
	// immediately follows Content — lookahead context for the resolver,
	// never fed to Scan.
	SuffixOverlap []byte

	StartOffset int
	EndOffset   int

	Index int
	Total int
}

// Options configures the chunk manager.
type Options struct {
	// ChunkSizeBytes is the target (maximum) size of a chunk's content.
	ChunkSizeBytes int
	// OverlapSizeBytes is how much trailing context immediately after a
	// chunk's content is captured in SuffixOverlap.
	OverlapSizeBytes int
}

// DefaultOptions mirrors the engine's default configuration.
func DefaultOptions() Options {
	return Options{ChunkSizeBytes: 262144, OverlapSizeBytes: 256}
}

// Split divides input into Chunks according to opts. A single chunk
// covering the whole input is returned when input is not larger than
// opts.ChunkSizeBytes.
func Split(input []byte, opts Options) ([]Chunk, error) {
	if opts.ChunkSizeBytes <= 0 {
		return nil, apperrors.ValidationError("ChunkSizeBytes must be positive")
	}
	if opts.OverlapSizeBytes < 0 || opts.OverlapSizeBytes >= opts.ChunkSizeBytes {
		return nil, apperrors.ValidationError("OverlapSizeBytes must be non-negative and smaller than ChunkSizeBytes")
	}

	if len(input) <= opts.ChunkSizeBytes {
		return []Chunk{{
			Content:     input,
			StartOffset: 0,
			EndOffset:   len(input),
			Index:       0,
			Total:       1,
		}}, nil
	}

	var chunks []Chunk

	for start := 0; start < len(input); {
		end := start + opts.ChunkSizeBytes
		if end >= len(input) {
			end = len(input)
		} else {
			bp, err := findBreakPoint(input, start, end)
			if err != nil {
				return nil, err
			}
			end = bp
		}

		chunks = append(chunks, Chunk{
			Content:       input[start:end],
			SuffixOverlap: overlapAfter(input, end, opts.OverlapSizeBytes),
			StartOffset:   start,
			EndOffset:     end,
		})

		if end >= len(input) {
			break
		}
		start = end
	}

	for i := range chunks {
		chunks[i].Index = i
		chunks[i].Total = len(chunks)
	}

	return chunks, nil
}

// findBreakPoint locates a safe split point at or before end: first a
// valid UTF-8 rune boundary, then (within wordBoundaryRadius bytes) a
// word boundary — the position right after a run of whitespace — so a
// scan never starts or ends mid-word. If no word boundary exists in
// range it falls back to the rune-safe position.
func findBreakPoint(input []byte, start, end int) (int, error) {
	if end >= len(input) {
		return len(input), nil
	}

	pos := end
	for pos > start && !utf8.RuneStart(input[pos]) {
		pos--
	}
	if pos <= start {
		return 0, apperrors.UTF8BoundaryError(end)
	}
	runeSafe := pos

	limit := runeSafe - wordBoundaryRadius
	if limit < start {
		limit = start
	}

	for p := runeSafe; p > limit; {
		r, size := decodeLastRune(input, start, p)
		if size == 0 {
			break
		}
		if unicode.IsSpace(r) {
			return p, nil
		}
		p -= size
	}

	return runeSafe, nil
}

// decodeLastRune decodes the rune ending at byte offset p (exclusive),
// within input[lowerBound:], returning the rune and its encoded size.
func decodeLastRune(input []byte, lowerBound, p int) (rune, int) {
	if p <= lowerBound {
		return 0, 0
	}
	start := p - 1
	for start > lowerBound && !utf8.RuneStart(input[start]) {
		start--
	}
	r, size := utf8.DecodeRune(input[start:p])
	return r, size
}

// overlapAfter returns up to overlapBytes of input immediately following
// end, trimmed to a rune boundary.
func overlapAfter(input []byte, end, overlapBytes int) []byte {
	if overlapBytes <= 0 || end >= len(input) {
		return nil
	}
	tail := end + overlapBytes
	if tail > len(input) {
		tail = len(input)
	}
	for tail > end && tail < len(input) && !utf8.RuneStart(input[tail]) {
		tail--
	}
	return input[end:tail]
}
