// Package normalize flattens parsed documents into the single ordered text
// stream the extraction engine consumes. Line breaks are the only structural
// signal the extractor relies on, so the normalizer preserves line order and
// never splits a line across segments.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Flatten joins per-page or per-paragraph text segments into one stream and
// cleans it. A segment that yielded no text contributes nothing rather than
// aborting the whole document; a document with zero extractable text flattens
// to the empty string, which is a valid (if unfortunate) result downstream
// stages must handle.
func Flatten(segments []string) string {
	return Clean(strings.Join(segments, "\n"))
}

// Clean canonicalizes a raw text stream: Unicode NFC, CR/LF line endings
// folded to LF, blank lines removed, and runs of spaces and tabs inside a
// line collapsed to single spaces. Line order is preserved.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		out = append(out, collapseSpaces(trimmed))
	}
	return strings.Join(out, "\n")
}

func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}
