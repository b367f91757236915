// Package resolve implements the reduce-phase cross-chunk resolution
// that turns a sequence of per-chunk monoid.PartialState values (plus
// the raw chunk boundaries used to recover true lookahead context) into
// a final, globally ordered list of confirmed sentence boundaries.
//
// Four passes run in sequence, each only able to downgrade or discard
// what the previous pass produced — resolution never invents a STRONG
// boundary the scanner didn't at least flag as a candidate, except for
// the one case the scanner structurally cannot see: a sentence that
// resumes immediately after an abbreviation at a chunk edge.
package resolve

import (
	"sort"

	"github.com/sakurs-go/sakurs/internal/monoid"
	"github.com/sakurs-go/sakurs/internal/rules"
)

// ChunkContext is the minimal per-chunk lookahead context the resolver
// needs beyond the scanned PartialState: the raw bytes immediately
// following the chunk, for re-evaluating a suppression rule that the
// scanner couldn't fully check with only in-chunk context.
type ChunkContext struct {
	State         monoid.PartialState
	SuffixOverlap []byte
}

// Resolve reduces an ordered sequence of per-chunk contexts into the
// final confirmed boundary list, in ascending global offset order.
func Resolve(chunks []ChunkContext, rs *rules.RuleSet) []monoid.ConfirmedBoundary {
	if len(chunks) == 0 {
		return nil
	}

	n := rs.NumEnclosureTypes()
	globalDepth := make([]int32, n)
	globalOffset := 0

	var confirmed []monoid.ConfirmedBoundary

	for idx, cc := range chunks {
		state := cc.State

		for _, b := range state.Boundaries {
			offset := globalOffset + b.LocalOffset
			flags := b.Flags

			// Step 1: enclosure-balance downgrade. A boundary found while
			// still nested inside an unclosed enclosure (global depth !=
			// 0 for any type) can't be a real sentence end yet — a
			// closing quote or parenthesis is still pending.
			nested := false
			for i := 0; i < n && i < len(b.LocalDepths); i++ {
				if globalDepth[i]+b.LocalDepths[i] != 0 {
					nested = true
					break
				}
			}
			if nested && flags.Has(monoid.FlagStrong) {
				flags = monoid.FlagWeak
			}

			// Step 3: cross-chunk re-suppression. A boundary recorded as
			// WEAK purely because it fell at this chunk's own end (so the
			// scanner had no following context to check suppression
			// rules against) gets re-evaluated now that the real
			// continuation is available.
			if flags.Has(monoid.FlagWeak) && b.LocalOffset == state.Length && idx < len(chunks)-1 {
				if reSuppressed(state, cc.SuffixOverlap, rs) {
					continue
				}
			}

			confirmed = append(confirmed, monoid.ConfirmedBoundary{Offset: offset, Flags: flags})
		}

		// Step 2: cross-chunk abbreviation check. An abbreviation dot at
		// this chunk's tail can only be ruled back IN as a boundary once
		// we know the next chunk's opening word.
		if idx < len(chunks)-1 {
			next := chunks[idx+1].State
			if monoid.IsCrossChunkAbbreviation(state.Abbrev, next.Abbrev) {
				if rs.IsSentenceStarter(next.Abbrev.FirstWord) {
					confirmed = append(confirmed, monoid.ConfirmedBoundary{
						Offset: globalOffset + state.Length,
						Flags:  monoid.FlagStrong | monoid.FlagFromAbbreviation,
					})
				}
			}
		}

		for i := 0; i < n; i++ {
			globalDepth[i] += state.Deltas[i].Net
		}
		globalOffset += state.Length
	}

	confirmed = dedupe(confirmed)

	// Step 4: weak-boundary pruning. Anything still WEAK after steps 1-3
	// had every chance to be resolved one way or the other; since
	// nothing contradicted it, a WEAK boundary at this point is a
	// legitimate sentence end reported with lower confidence, except at
	// the very end of the input sitting inside a still-open enclosure —
	// that one is dropped since it can never be balanced.
	confirmed = pruneUnresolved(confirmed, globalDepth)

	sort.Slice(confirmed, func(i, j int) bool { return confirmed[i].Offset < confirmed[j].Offset })
	return confirmed
}

// reSuppressed re-runs the fast/regex suppression checks for the
// terminator at the very end of state's content, now with the chunk's
// own trailing context on one side and the true following bytes
// (overlap) on the other, instead of the empty following-context the
// scanner saw when it recorded the candidate as WEAK.
func reSuppressed(state monoid.PartialState, suffixOverlap []byte, rs *rules.RuleSet) bool {
	if len(suffixOverlap) == 0 {
		return false
	}
	// TrailingContext ends with the terminator itself, so the character
	// immediately before it is the second-to-last rune.
	precedingRunes := []rune(state.TrailingContext)
	if len(precedingRunes) < 2 {
		return false
	}
	terminator := precedingRunes[len(precedingRunes)-1]
	before := precedingRunes[len(precedingRunes)-2]

	following := []rune(string(suffixOverlap))
	if len(following) > 10 {
		following = following[:10]
	}
	after := following[0]

	if rs.MatchFastSuppression(terminator, before, true, after, true, false) {
		return true
	}
	window := string(precedingRunes) + string(following)
	return rs.MatchRegexSuppression(window)
}

// strength ranks flag combinations so dedupe can keep the strongest
// classification recorded for a given offset: a confirmed
// from-abbreviation recovery or plain strong boundary beats a weak one.
func strength(f monoid.BoundaryFlags) int {
	switch {
	case f.Has(monoid.FlagStrong):
		return 2
	case f.Has(monoid.FlagWeak):
		return 1
	default:
		return 0
	}
}

func dedupe(boundaries []monoid.ConfirmedBoundary) []monoid.ConfirmedBoundary {
	if len(boundaries) == 0 {
		return boundaries
	}
	sort.Slice(boundaries, func(i, j int) bool {
		if boundaries[i].Offset != boundaries[j].Offset {
			return boundaries[i].Offset < boundaries[j].Offset
		}
		return strength(boundaries[i].Flags) > strength(boundaries[j].Flags)
	})

	out := boundaries[:1]
	for _, b := range boundaries[1:] {
		last := &out[len(out)-1]
		if b.Offset == last.Offset {
			if strength(b.Flags) > strength(last.Flags) {
				*last = b
			}
			continue
		}
		out = append(out, b)
	}
	return out
}

func pruneUnresolved(boundaries []monoid.ConfirmedBoundary, finalDepth []int32) []monoid.ConfirmedBoundary {
	anyUnbalanced := false
	for _, d := range finalDepth {
		if d != 0 {
			anyUnbalanced = true
			break
		}
	}
	if !anyUnbalanced || len(boundaries) == 0 {
		return boundaries
	}

	out := boundaries[:len(boundaries)-1]
	last := boundaries[len(boundaries)-1]
	if last.Flags.Has(monoid.FlagWeak) && !last.Flags.Has(monoid.FlagStrong) {
		return out
	}
	return boundaries
}
