package schema

import (
	"strings"
	"unicode"
)

// nameParticles are connectors that never serve as a surname initial.
var nameParticles = map[string]struct{}{
	"da": {}, "de": {}, "do": {}, "das": {}, "dos": {}, "e": {},
}

// AbbreviateName formats "Maria Aparecida da Silva" to "Maria S".
// Single-word names are returned unchanged; connector particles are skipped.
func AbbreviateName(name string) string {
	parts := strings.FieldsFunc(strings.TrimSpace(name), func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
	var kept []string
	for _, p := range parts {
		p = strings.Trim(p, "()\"'`.")
		if p == "" {
			continue
		}
		if _, ok := nameParticles[strings.ToLower(p)]; ok {
			continue
		}
		kept = append(kept, p)
	}
	switch len(kept) {
	case 0:
		return strings.TrimSpace(name)
	case 1:
		return kept[0]
	default:
		last := []rune(kept[len(kept)-1])
		return kept[0] + " " + string(last[0])
	}
}

// ContainsFold reports whether sub is within s, ignoring case.
// An empty sub matches everything.
func ContainsFold(s, sub string) bool {
	if sub == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
