package chunker

import (
	"regexp"
	"sort"
	"unicode"
	"unicode/utf8"
)

// BoundaryRule recognizes sentence-terminal positions in text. Ends must
// return the end offsets (exclusive) of recognized sentence terminals in
// ascending order. Rules are purely positional so additional scripts can
// be added without touching the splitting algorithm.
type BoundaryRule interface {
	Ends(text string) []int
}

// patternRule recognizes a terminal when the pattern matches and the match
// is followed by whitespace or end-of-text.
type patternRule struct {
	re *regexp.Regexp
}

// PatternRule builds a BoundaryRule from a regular expression describing
// sentence-terminal punctuation. The whitespace-or-end-of-text lookahead
// is applied outside the pattern.
func PatternRule(expr string) BoundaryRule {
	return patternRule{re: regexp.MustCompile(expr)}
}

func (r patternRule) Ends(text string) []int {
	var ends []int
	for _, loc := range r.re.FindAllStringIndex(text, -1) {
		if loc[1] == len(text) {
			ends = append(ends, loc[1])
			continue
		}
		next, _ := utf8.DecodeRuneInString(text[loc[1]:])
		if unicode.IsSpace(next) {
			ends = append(ends, loc[1])
		}
	}
	return ends
}

// DefaultBoundaryRules covers the scripts that appear in the meeting
// corpus: Latin terminal punctuation and the common Korean polite/plain
// terminal syllables.
var DefaultBoundaryRules = []BoundaryRule{
	PatternRule(`[.!?]`),
	PatternRule(`다\.|요\.|함\.`),
}

// sentenceEnds merges the end offsets produced by all rules into one
// ascending, deduplicated list.
func sentenceEnds(text string, rules []BoundaryRule) []int {
	var ends []int
	for _, rule := range rules {
		ends = append(ends, rule.Ends(text)...)
	}
	if len(ends) == 0 {
		return nil
	}

	sort.Ints(ends)
	merged := ends[:1]
	for _, end := range ends[1:] {
		if end != merged[len(merged)-1] {
			merged = append(merged, end)
		}
	}
	return merged
}
