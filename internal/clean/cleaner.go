// Package clean removes extraction artifacts from raw PDF lines before
// any field parsing happens. Cleaning is pure and never fails:
// unresolvable characters are dropped, not errored.
package clean

import (
	"regexp"
	"strings"

	"github.com/dmarrero/vidalaboral/internal/entity"
)

// cidMarker matches a complete glyph-encoding artifact such as "(cid:12)".
// These are left behind when the extractor cannot resolve a character
// code against the document's font tables.
var cidMarker = regexp.MustCompile(`\(cid:\d+\)`)

// cidPartial matches a marker truncated by line wrap, e.g. a line ending
// in "(cid:12" or just "(ci". Best-effort prefix match; the closing
// delimiter never arrives on the same line.
var cidPartial = regexp.MustCompile(`\((?:c(?:i(?:d(?::\d*)?)?)?)?$`)

var multiSpace = regexp.MustCompile(`[ \t]+`)

// separatorCutset are the separator characters trimmed from line edges
// after marker removal. Hyphens stay: they are date syntax.
const separatorCutset = " \t|,;·"

// Cleaner strips corruption markers and normalizes whitespace. Marker
// patterns are per-instance state so concurrent document runs cannot
// interfere; extra patterns extend the built-in (cid:N) rule.
type Cleaner struct {
	markers []*regexp.Regexp
}

// New builds a Cleaner. Additional marker patterns beyond the built-in
// (cid:N) form may be supplied as regular expressions.
func New(extraPatterns ...string) (*Cleaner, error) {
	markers := []*regexp.Regexp{cidMarker}
	for _, p := range extraPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		markers = append(markers, re)
	}
	return &Cleaner{markers: markers}, nil
}

// CleanLine produces the CleanedLine for one RawLine. Removal is
// exhaustive: every marker occurrence goes, including a trailing
// truncated one.
func (c *Cleaner) CleanLine(l entity.RawLine) entity.CleanedLine {
	return entity.CleanedLine{
		Page: l.Page,
		Line: l.Line,
		Text: c.CleanText(l.Text),
		Raw:  l.Text,
	}
}

// CleanLines cleans a full document in order, 1:1 with the input.
func (c *Cleaner) CleanLines(lines []entity.RawLine) []entity.CleanedLine {
	out := make([]entity.CleanedLine, len(lines))
	for i, l := range lines {
		out[i] = c.CleanLine(l)
	}
	return out
}

// CleanText applies marker removal and whitespace normalization to a
// bare string. Idempotent: cleaning already-clean text is a no-op.
func (c *Cleaner) CleanText(s string) string {
	for _, re := range c.markers {
		s = re.ReplaceAllString(s, "")
	}
	s = cidPartial.ReplaceAllString(s, "")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.Trim(s, separatorCutset)
}
