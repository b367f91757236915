// Package rules loads and represents the declarative rule set that
// drives internal/scan: terminators, abbreviations, enclosures, ellipsis
// handling, suppression patterns, and sentence starters. Rule sets are
// authored as TOML files — two built-ins (en, ja) are embedded, and
// internal/watch can hot-swap a custom one from disk.
package rules

import (
	"fmt"
	"regexp"
	"unicode"

	toml "github.com/pelletier/go-toml/v2"

	apperrors "github.com/sakurs-go/sakurs/internal/errors"
)

// fileConfig mirrors the on-disk TOML schema. Field names map to TOML
// keys via the default go-toml lowercasing of the Go field name unless
// tagged.
type fileConfig struct {
	Metadata struct {
		Code string `toml:"code"`
		Name string `toml:"name"`
	} `toml:"metadata"`

	Terminators struct {
		Chars []string `toml:"chars"`
		// Patterns are named multi-character terminator sequences (e.g.
		// "?!") that should be recognized and consumed as a single
		// terminator rather than as separate single-rune ones.
		Patterns []struct {
			Name    string `toml:"name"`
			Pattern string `toml:"pattern"`
		} `toml:"patterns"`
	} `toml:"terminators"`

	Ellipsis struct {
		TreatAsBoundary bool     `toml:"treat_as_boundary"`
		Patterns        []string `toml:"patterns"`
		// ContextRules and Exceptions let a rule file override the
		// treat_as_boundary default for specific surrounding contexts
		// without writing Go code — see EllipsisContextRule/EllipsisException.
		ContextRules []struct {
			Condition string `toml:"condition"`
			Boundary  bool   `toml:"boundary"`
		} `toml:"context_rules"`
		Exceptions []struct {
			Pattern     string `toml:"pattern"`
			Boundary    bool   `toml:"boundary"`
			Description string `toml:"description"`
		} `toml:"exceptions"`
	} `toml:"ellipsis"`

	Abbreviations struct {
		Categories map[string][]string `toml:"categories"`
	} `toml:"abbreviations"`

	Enclosures struct {
		Pairs []struct {
			Open      string `toml:"open"`
			Close     string `toml:"close"`
			Symmetric bool   `toml:"symmetric"`
		} `toml:"pairs"`
	} `toml:"enclosures"`

	Suppression struct {
		FastPatterns []struct {
			Char      string `toml:"char"`
			LineStart bool   `toml:"line_start"`
			Before    string `toml:"before"`
			After     string `toml:"after"`
		} `toml:"fast_patterns"`
		RegexPatterns []struct {
			Pattern     string `toml:"pattern"`
			Description string `toml:"description"`
		} `toml:"regex_patterns"`
	} `toml:"suppression"`

	SentenceStarters []string `toml:"sentence_starters"`
}

// EnclosurePair is one open/close rune pair. Symmetric pairs (plain
// quote marks that reuse the same rune for open and close) get a depth
// clamp of 1 when scanned — see internal/scan.
type EnclosurePair struct {
	TypeID    int
	Open      rune
	Close     rune
	Symmetric bool
}

// SuppressionFastPattern is a single-character context check evaluated
// before falling back to the (slower) regex patterns.
type SuppressionFastPattern struct {
	Char      rune
	LineStart bool
	Before    string
	After     string
}

// SuppressionRegexPattern is a compiled fallback suppression rule, for
// contractions/possessives/decimals that a fixed-character check can't
// express precisely.
type SuppressionRegexPattern struct {
	Description string
	Regexp      *regexp.Regexp
}

// EllipsisContextRule overrides the ellipsis treat_as_boundary default
// when a named surrounding-context condition holds (see
// internal/scan.matchesEllipsisCondition for the recognized conditions).
// The first matching rule, in file order, wins.
type EllipsisContextRule struct {
	Condition string
	Boundary  bool
}

// EllipsisException overrides the ellipsis treat_as_boundary default (and
// any matching EllipsisContextRule) when Regexp matches the text
// immediately surrounding the ellipsis. Checked before context_rules, so
// an exception always wins.
type EllipsisException struct {
	Description string
	Regexp      *regexp.Regexp
	Boundary    bool
}

// TerminatorPattern is a named multi-rune terminator sequence (an
// interrobang written "?!", for instance) that scan recognizes and
// consumes as one terminator instead of its individual runes.
type TerminatorPattern struct {
	Name    string
	Pattern []rune
}

// RuleSet is the fully parsed, ready-to-scan rule configuration.
type RuleSet struct {
	Code string
	Name string

	Terminators        map[rune]bool
	TerminatorPatterns []TerminatorPattern

	EllipsisBoundary     bool
	EllipsisPatterns     []string
	EllipsisContextRules []EllipsisContextRule
	EllipsisExceptions   []EllipsisException

	Enclosures      []EnclosurePair
	enclosureOpenID map[rune]int
	enclosureClose  map[rune]int

	Abbreviations *abbreviationTrie

	FastSuppressions  []SuppressionFastPattern
	RegexSuppressions []SuppressionRegexPattern

	SentenceStarters map[string]bool
}

// Load reads and parses a rule set from a TOML file on disk.
func Load(path string) (*RuleSet, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(data)
}

// LoadBytes parses a rule set from raw TOML bytes, as used for the
// embedded built-ins and for files handed in by internal/watch.
func LoadBytes(data []byte) (*RuleSet, error) {
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, apperrors.InvalidRulesError(fmt.Sprintf("parsing rule TOML: %v", err))
	}
	return build(&fc)
}

func build(fc *fileConfig) (*RuleSet, error) {
	rs := &RuleSet{
		Code:             fc.Metadata.Code,
		Name:             fc.Metadata.Name,
		Terminators:      make(map[rune]bool, len(fc.Terminators.Chars)),
		EllipsisBoundary: fc.Ellipsis.TreatAsBoundary,
		EllipsisPatterns: fc.Ellipsis.Patterns,
		enclosureOpenID:  make(map[rune]int),
		enclosureClose:   make(map[rune]int),
		SentenceStarters: make(map[string]bool, len(fc.SentenceStarters)),
	}

	for _, s := range fc.Terminators.Chars {
		r, err := singleRune(s)
		if err != nil {
			return nil, apperrors.InvalidRulesError(fmt.Sprintf("terminators.chars: %v", err))
		}
		rs.Terminators[r] = true
	}

	for i, p := range fc.Terminators.Patterns {
		runes := []rune(p.Pattern)
		if len(runes) < 2 {
			return nil, apperrors.InvalidRulesError(fmt.Sprintf("terminators.patterns[%d].pattern: expected at least two characters, got %q", i, p.Pattern))
		}
		rs.TerminatorPatterns = append(rs.TerminatorPatterns, TerminatorPattern{Name: p.Name, Pattern: runes})
	}

	for _, r := range fc.Ellipsis.ContextRules {
		rs.EllipsisContextRules = append(rs.EllipsisContextRules, EllipsisContextRule{
			Condition: r.Condition, Boundary: r.Boundary,
		})
	}

	for i, e := range fc.Ellipsis.Exceptions {
		re, err := regexp.Compile(e.Pattern)
		if err != nil {
			return nil, apperrors.InvalidRulesError(fmt.Sprintf("ellipsis.exceptions[%d]: %v", i, err))
		}
		rs.EllipsisExceptions = append(rs.EllipsisExceptions, EllipsisException{
			Description: e.Description, Regexp: re, Boundary: e.Boundary,
		})
	}

	for i, p := range fc.Enclosures.Pairs {
		open, err := singleRune(p.Open)
		if err != nil {
			return nil, apperrors.InvalidRulesError(fmt.Sprintf("enclosures.pairs[%d].open: %v", i, err))
		}
		close_, err := singleRune(p.Close)
		if err != nil {
			return nil, apperrors.InvalidRulesError(fmt.Sprintf("enclosures.pairs[%d].close: %v", i, err))
		}
		pair := EnclosurePair{TypeID: i, Open: open, Close: close_, Symmetric: p.Symmetric || open == close_}
		rs.Enclosures = append(rs.Enclosures, pair)
		rs.enclosureOpenID[open] = i
		rs.enclosureClose[close_] = i
	}

	var allAbbrevs []string
	for _, words := range fc.Abbreviations.Categories {
		allAbbrevs = append(allAbbrevs, words...)
	}
	rs.Abbreviations = newAbbreviationTrie(allAbbrevs)

	for i, p := range fc.Suppression.FastPatterns {
		r, err := singleRune(p.Char)
		if err != nil {
			return nil, apperrors.InvalidRulesError(fmt.Sprintf("suppression.fast_patterns[%d].char: %v", i, err))
		}
		rs.FastSuppressions = append(rs.FastSuppressions, SuppressionFastPattern{
			Char: r, LineStart: p.LineStart, Before: p.Before, After: p.After,
		})
	}

	for i, p := range fc.Suppression.RegexPatterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, apperrors.InvalidRulesError(fmt.Sprintf("suppression.regex_patterns[%d]: %v", i, err))
		}
		rs.RegexSuppressions = append(rs.RegexSuppressions, SuppressionRegexPattern{
			Description: p.Description, Regexp: re,
		})
	}

	for _, w := range fc.SentenceStarters {
		rs.SentenceStarters[w] = true
	}

	if len(rs.Terminators) == 0 {
		return nil, apperrors.InvalidRulesError("rule set has no terminators.chars")
	}

	return rs, nil
}

func singleRune(s string) (rune, error) {
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("expected exactly one character, got %q", s)
	}
	return runes[0], nil
}

// PatternTerminatorAt reports whether one of the rule set's named
// multi-rune terminator patterns starts at runes[i], returning its rune
// length and name. Patterns are tried in file order; the first match
// wins, so more specific patterns should be listed first.
func (rs *RuleSet) PatternTerminatorAt(runes []rune, i int) (length int, name string, ok bool) {
	for _, p := range rs.TerminatorPatterns {
		if i+len(p.Pattern) > len(runes) {
			continue
		}
		match := true
		for j, r := range p.Pattern {
			if runes[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return len(p.Pattern), p.Name, true
		}
	}
	return 0, "", false
}

// EnclosureOpenID returns the type_id of r as an opener, or -1.
func (rs *RuleSet) EnclosureOpenID(r rune) int {
	if id, ok := rs.enclosureOpenID[r]; ok {
		return id
	}
	return -1
}

// EnclosureCloseID returns the type_id of r as a closer, or -1.
func (rs *RuleSet) EnclosureCloseID(r rune) int {
	if id, ok := rs.enclosureClose[r]; ok {
		return id
	}
	return -1
}

// NumEnclosureTypes returns the width every DepthVec/DeltaVec in this
// rule set's scans must use.
func (rs *RuleSet) NumEnclosureTypes() int {
	return len(rs.Enclosures)
}

// IsSentenceStarter reports whether word is a known sentence-initial
// word, case-sensitively (capitalization is itself part of the signal —
// see sakurs-core's cross_chunk module, which this mirrors).
func (rs *RuleSet) IsSentenceStarter(word string) bool {
	if word == "" {
		return false
	}
	if !unicode.IsUpper([]rune(word)[0]) {
		return false
	}
	return rs.SentenceStarters[word]
}
