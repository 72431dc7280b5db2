package dataset

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents decomposes characters and drops combining marks, so "Café"
// becomes "Cafe" instead of losing the letter entirely.
var foldAccents = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeColumnName trims the header, removes spaces, turns hyphens into
// underscores and drops anything that is not an ASCII letter, digit or underscore.
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	if folded, _, err := transform.String(foldAccents, name); err == nil {
		name = folded
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '-':
			b.WriteByte('_')
		case r == '_', r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeColumnNames normalises every header and makes the result unique.
// Empty names become column{N} (1-based position); repeats get _2, _3 suffixes.
func NormalizeColumnNames(headers []string) []string {
	out := make([]string, len(headers))
	seen := make(map[string]bool, len(headers))
	for i, h := range headers {
		name := NormalizeColumnName(h)
		if name == "" {
			name = fmt.Sprintf("column%d", i+1)
		}
		candidate := name
		for n := 2; seen[strings.ToLower(candidate)]; n++ {
			candidate = fmt.Sprintf("%s_%d", name, n)
		}
		seen[strings.ToLower(candidate)] = true
		out[i] = candidate
	}
	return out
}
