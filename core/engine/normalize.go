// Package engine computes tiered incentive allocations from operational records.
// Every function here is pure: no I/O, no shared state, no clocks.
package engine

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var separatorPattern = regexp.MustCompile(`[\s_|-]+`)

// legacyPrefix was renamed across the feeds; both spellings refer to the same bases.
const (
	legacyPrefix  = "LAJ"
	currentPrefix = "LRJ"
)

// NormalizeCode returns the canonical join key of a base code.
// It is idempotent: NormalizeCode(NormalizeCode(x)) == NormalizeCode(x).
func NormalizeCode(code string) string {
	c := strings.ToUpper(code)
	c = separatorPattern.ReplaceAllString(c, "")
	if strings.HasPrefix(c, legacyPrefix) {
		c = currentPrefix + c[len(legacyPrefix):]
	}
	return c
}

// NormalizeLabel folds accents, trims and lowercases a period label so that
// "Março", "marco" and " MARÇO " compare equal.
func NormalizeLabel(label string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, label)
	if err != nil {
		folded = label
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
