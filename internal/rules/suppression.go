package rules

import "unicode"

// classMatches reports whether r satisfies the named character class
// used in a fast suppression pattern's before/after fields: "digit",
// "alpha", "space", or "any" (empty string also means "any").
func classMatches(class string, r rune, present bool) bool {
	switch class {
	case "", "any":
		return true
	case "digit":
		return present && unicode.IsDigit(r)
	case "alpha":
		return present && unicode.IsLetter(r)
	case "space":
		return present && unicode.IsSpace(r)
	case "none":
		return !present
	default:
		return false
	}
}

// MatchFastSuppression reports whether any fast-path suppression
// pattern matches a terminator ch with the given immediate context.
// beforeOK/afterOK report whether a before/after rune exists at all
// (false at text start/end).
func (rs *RuleSet) MatchFastSuppression(ch rune, before rune, beforeOK bool, after rune, afterOK bool, atLineStart bool) bool {
	for _, p := range rs.FastSuppressions {
		if p.Char != ch {
			continue
		}
		if p.LineStart && !atLineStart {
			continue
		}
		if !classMatches(p.Before, before, beforeOK) {
			continue
		}
		if !classMatches(p.After, after, afterOK) {
			continue
		}
		return true
	}
	return false
}

// MatchRegexSuppression reports whether any slow-path regex suppression
// pattern matches within window (typically the preceding context plus
// the boundary character).
func (rs *RuleSet) MatchRegexSuppression(window string) bool {
	for _, p := range rs.RegexSuppressions {
		if p.Regexp.MatchString(window) {
			return true
		}
	}
	return false
}
