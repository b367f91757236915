// Package scan implements the scan phase of the Δ-Stack Monoid
// algorithm: a single linear pass over one chunk of text that produces a
// monoid.PartialState without deciding anything that needs cross-chunk
// context. Boundary classification that depends on what comes before or
// after the chunk is deferred to internal/resolve.
package scan

import (
	"unicode"
	"unicode/utf8"

	"github.com/sakurs-go/sakurs/internal/monoid"
	"github.com/sakurs-go/sakurs/internal/rules"
)

// contextWindow is the number of runes of preceding/following context
// built around each candidate terminator, mirroring the reference
// parser's 10-character lookaround.
const contextWindow = 10

// Scan performs one linear pass over chunk and returns its partial
// state. chunk is assumed to be valid UTF-8 and is never mutated.
func Scan(chunk []byte, rs *rules.RuleSet) monoid.PartialState {
	n := rs.NumEnclosureTypes()
	localDepth := make([]int32, n)
	minDepth := make([]int32, n)

	var boundaries []monoid.BoundaryCandidate
	var abbrev monoid.AbbreviationState
	sawFirstWord := false

	text := string(chunk)
	runes := []rune(text)
	byteOffsets := make([]int, len(runes)+1)
	off := 0
	for i, r := range runes {
		byteOffsets[i] = off
		off += utf8.RuneLen(r)
	}
	byteOffsets[len(runes)] = off

	var curWordStart = -1
	consecutiveDots := 0
	skipTo := -1

	for i, ch := range runes {
		pos := byteOffsets[i]
		charLen := byteOffsets[i+1] - pos

		openID := rs.EnclosureOpenID(ch)
		closeID := rs.EnclosureCloseID(ch)
		switch {
		case openID >= 0 && openID == closeID && rs.Enclosures[openID].Symmetric:
			// Symmetric quote marks reuse the same rune for open and
			// close; toggle depth between 0 and 1 so "he said "hi" to
			// "bob"" never goes negative or counts past one level of
			// nesting — a documented limitation of treating straight
			// quotes symmetrically. Running the open and close branches
			// independently here would increment then immediately
			// decrement on the very same rune, so the two cases must be
			// mutually exclusive.
			if localDepth[openID] > 0 {
				localDepth[openID] = 0
			} else {
				localDepth[openID] = 1
			}
		case openID >= 0:
			localDepth[openID]++
		case closeID >= 0:
			localDepth[closeID]--
			if localDepth[closeID] < minDepth[closeID] {
				minDepth[closeID] = localDepth[closeID]
			}
		}

		if unicode.IsLetter(ch) {
			if curWordStart == -1 {
				curWordStart = i
			}
		} else {
			if curWordStart != -1 && !sawFirstWord {
				abbrev.FirstWord = string(runes[curWordStart:i])
				sawFirstWord = true
			}
			curWordStart = -1
		}

		if ch == '.' {
			consecutiveDots++
		} else {
			consecutiveDots = 0
		}

		if i < skipTo {
			continue
		}

		if length, _, ok := rs.PatternTerminatorAt(runes, i); ok {
			// A named multi-rune terminator (e.g. "?!") is an unambiguous,
			// deliberate boundary mark — no abbreviation/ellipsis cascade
			// applies, only the usual end-of-chunk weakening. Its
			// constituent runes are never separately reclassified.
			endIdx := i + length
			flags := monoid.FlagStrong
			if endIdx >= len(runes) {
				flags = monoid.FlagWeak
			}
			boundaries = append(boundaries, monoid.BoundaryCandidate{
				LocalOffset: byteOffsets[endIdx],
				LocalDepths: cloneDepths(localDepth),
				Flags:       flags,
			})
			skipTo = endIdx
			continue
		}

		if isPotentialTerminator(ch, rs) {
			preceding := windowBefore(runes, i)
			following := windowAfter(runes, i+1)

			decision := classify(ch, preceding, following, consecutiveDots, rs)

			switch decision {
			case decisionNotBoundary:
				// no candidate recorded
			case decisionBoundary, decisionWeak:
				flags := monoid.FlagStrong
				if decision == decisionWeak {
					flags = monoid.FlagWeak
				}
				boundaries = append(boundaries, monoid.BoundaryCandidate{
					LocalOffset: pos + charLen,
					LocalDepths: cloneDepths(localDepth),
					Flags:       flags,
				})

			}
		}
	}

	if curWordStart != -1 && !sawFirstWord {
		abbrev.FirstWord = string(runes[curWordStart:])
	}

	abbrev.HeadAlpha = leadsWithLetter(runes)

	// dangling_dot reflects whether the chunk's own trailing content (not
	// merely some terminator seen mid-chunk) is an unresolved abbreviation
	// dot — only that position can ever combine with the next chunk's
	// head_alpha to form a cross-chunk abbreviation.
	abbrev.DanglingDot = trailingAbbreviationDot(runes, rs)

	deltas := make(monoid.DeltaVec, n)
	for i := 0; i < n; i++ {
		deltas[i] = monoid.DeltaEntry{Net: localDepth[i], Min: minDepth[i]}
	}

	return monoid.PartialState{
		Boundaries:      boundaries,
		Deltas:          deltas,
		Abbrev:          abbrev,
		Length:          len(text),
		TrailingContext: windowBefore(runes, len(runes)),
	}
}

func cloneDepths(d []int32) monoid.DepthVec {
	out := make(monoid.DepthVec, len(d))
	copy(out, d)
	return out
}

func isPotentialTerminator(ch rune, rs *rules.RuleSet) bool {
	return rs.Terminators[ch]
}

func windowBefore(runes []rune, i int) string {
	start := i - contextWindow
	if start < 0 {
		start = 0
	}
	return string(runes[start:i])
}

func windowAfter(runes []rune, i int) string {
	end := i + contextWindow
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[i:end])
}

// wordBefore returns the alphabetic run immediately preceding index i
// (exclusive), stopping at the first non-letter.
func wordBefore(runes []rune, i int) string {
	j := i
	for j > 0 && unicode.IsLetter(runes[j-1]) {
		j--
	}
	return string(runes[j:i])
}

// leadsWithLetter reports whether the chunk's first non-whitespace rune
// is alphabetic.
func leadsWithLetter(runes []rune) bool {
	for _, r := range runes {
		if unicode.IsSpace(r) {
			continue
		}
		return unicode.IsLetter(r)
	}
	return false
}

// trailingAbbreviationDot reports whether the chunk ends (ignoring
// trailing whitespace) with a dot whose preceding word is a known
// abbreviation.
func trailingAbbreviationDot(runes []rune, rs *rules.RuleSet) bool {
	end := len(runes)
	for end > 0 && unicode.IsSpace(runes[end-1]) {
		end--
	}
	if end == 0 || runes[end-1] != '.' {
		return false
	}
	word := wordBefore(runes, end-1)
	return rs.Abbreviations.MatchSuffix(word)
}
