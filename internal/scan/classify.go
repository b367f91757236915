package scan

import (
	"strings"
	"unicode"

	"github.com/sakurs-go/sakurs/internal/rules"
)

type decision int

const (
	decisionNotBoundary decision = iota
	decisionBoundary
	decisionWeak
)

// classify decides what a candidate terminator at ch means, given its
// immediate preceding/following context (each up to contextWindow runes
// wide) and the run of consecutive dots ending at and including ch.
//
// The cascade runs: ellipsis first, then abbreviation suppression, then
// fast and regex suppression, then a weak result for a terminator at the
// chunk's end, falling through to a plain strong boundary.
func classify(ch rune, preceding, following string, consecutiveDots int, rs *rules.RuleSet) decision {
	if ch == '.' {
		precedingRunes := []rune(preceding)
		followingRunes := []rune(following)
		if isMidInitialsRun(precedingRunes, followingRunes) {
			// Not yet the last dot of a run like "i.e." or "U.S." — the
			// embedded-dot abbreviation forms in rs.Abbreviations (e.g.
			// "i.e", "e.g") only match once the whole run is complete, so
			// an earlier dot in the run is never itself a candidate.
			return decisionNotBoundary
		}
		if len(followingRunes) > 0 && followingRunes[0] == '.' {
			// Not yet the final dot of a multi-dot run: never a candidate.
			return decisionNotBoundary
		}

		if isEllipsisPattern(preceding, following, consecutiveDots, rs) {
			if ellipsisIsBoundary(preceding, following, rs) {
				return decisionBoundary
			}
			return decisionNotBoundary
		}
		word := lastAbbreviationToken(precedingRunes)
		if rs.Abbreviations.MatchSuffix(word) {
			nextWord := firstWord([]rune(following))
			if nextWord != "" && rs.IsSentenceStarter(nextWord) {
				return decisionBoundary
			}
			return decisionNotBoundary
		}
	}

	if fastSuppressed(ch, preceding, following, rs) {
		return decisionNotBoundary
	}

	window := preceding + string(ch)
	if rs.MatchRegexSuppression(window) {
		return decisionNotBoundary
	}

	followingRunes := []rune(following)
	if len(followingRunes) == 0 {
		// End of chunk: the terminator's status can't be fully resolved
		// without knowing what (if anything) follows in the next chunk.
		return decisionWeak
	}

	return decisionBoundary
}

// isEllipsisPattern reports whether ch (always '.') is part of a "..."
// or similar multi-dot run: three or more consecutive dots, a dot
// followed by another dot, or a dot completing one of the rule set's
// ellipsis patterns. classify already returns no candidate for a dot
// followed by another dot, so only a run's final dot reaches the
// ellipsisIsBoundary decision.
func isEllipsisPattern(preceding, following string, consecutiveDots int, rs *rules.RuleSet) bool {
	if consecutiveDots >= 3 {
		return true
	}
	followingRunes := []rune(following)
	if len(followingRunes) > 0 && followingRunes[0] == '.' {
		// mid-run: not yet the final dot, never itself a boundary
		// candidate worth recording as strong/weak.
		return true
	}
	for _, pat := range rs.EllipsisPatterns {
		if strings.HasSuffix(preceding+".", pat) {
			return true
		}
	}
	return false
}

// ellipsisIsBoundary decides whether a confirmed ellipsis ends its
// sentence, consulting the rule set's exceptions and context_rules before
// falling back to the plain treat_as_boundary default — exceptions take
// precedence (an exact regex match against the text surrounding the
// ellipsis), then the first matching named context_rule, in file order.
func ellipsisIsBoundary(preceding, following string, rs *rules.RuleSet) bool {
	window := preceding + "." + following
	for _, exc := range rs.EllipsisExceptions {
		if exc.Regexp.MatchString(window) {
			return exc.Boundary
		}
	}
	for _, cr := range rs.EllipsisContextRules {
		if matchesEllipsisCondition(cr.Condition, following) {
			return cr.Boundary
		}
	}
	return rs.EllipsisBoundary
}

// matchesEllipsisCondition evaluates one of the named conditions a
// context_rules entry can reference.
func matchesEllipsisCondition(condition, following string) bool {
	trimmed := strings.TrimLeft(following, " \t\n\r")
	followingRunes := []rune(trimmed)
	switch condition {
	case "followed_by_uppercase":
		return len(followingRunes) > 0 && unicode.IsUpper(followingRunes[0])
	case "followed_by_lowercase":
		return len(followingRunes) > 0 && unicode.IsLower(followingRunes[0])
	case "followed_by_end_of_text":
		return len(followingRunes) == 0
	default:
		return false
	}
}

func fastSuppressed(ch rune, preceding, following string, rs *rules.RuleSet) bool {
	precedingRunes := []rune(preceding)
	followingRunes := []rune(following)

	var before rune
	beforeOK := len(precedingRunes) > 0
	if beforeOK {
		before = precedingRunes[len(precedingRunes)-1]
	}
	var after rune
	afterOK := len(followingRunes) > 0
	if afterOK {
		after = followingRunes[0]
	}
	atLineStart := len(precedingRunes) == 0 || precedingRunes[len(precedingRunes)-1] == '\n'

	return rs.MatchFastSuppression(ch, before, beforeOK, after, afterOK, atLineStart)
}

// lastAbbreviationToken returns the run immediately preceding a candidate
// terminator that a whole-word-or-embedded-dot abbreviation lookup should
// be matched against: the trailing letter run, plus any earlier
// letter.letter-style segments joined by single embedded dots (so "i.e"
// and "e.g" — both registered as abbreviations with their own internal
// dot — are recognized as one token rather than just their last letter).
func lastAbbreviationToken(runes []rune) string {
	end := len(runes)
	for end > 0 && !unicode.IsLetter(runes[end-1]) {
		end--
	}
	start := end
	for start > 0 {
		r := runes[start-1]
		if unicode.IsLetter(r) {
			start--
			continue
		}
		if r == '.' && start >= 2 && unicode.IsLetter(runes[start-2]) {
			start--
			continue
		}
		break
	}
	return string(runes[start:end])
}

// isMidInitialsRun reports whether the dot being classified sits inside a
// run like "i.e." / "U.S." / "J.R.R." — preceded by exactly one letter and
// followed immediately by another letter-dot pair — so it is never itself
// a boundary candidate; only the run's last dot is classified.
func isMidInitialsRun(precedingRunes, followingRunes []rune) bool {
	if len(precedingRunes) == 0 || !unicode.IsLetter(precedingRunes[len(precedingRunes)-1]) {
		return false
	}
	if len(precedingRunes) >= 2 && unicode.IsLetter(precedingRunes[len(precedingRunes)-2]) {
		return false
	}
	return len(followingRunes) >= 2 && unicode.IsLetter(followingRunes[0]) && followingRunes[1] == '.'
}

func firstWord(runes []rune) string {
	start := 0
	for start < len(runes) && unicode.IsSpace(runes[start]) {
		start++
	}
	end := start
	for end < len(runes) && unicode.IsLetter(runes[end]) {
		end++
	}
	return string(runes[start:end])
}
