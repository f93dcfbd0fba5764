// Package parse recognizes typed fields on cleaned report lines:
// dates, status keywords, affiliation numbers, document IDs, names,
// labelled numeric columns and trailing situation codes.
package parse

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmarrero/vidalaboral/constants"
	"github.com/dmarrero/vidalaboral/internal/common"
	"github.com/dmarrero/vidalaboral/internal/entity"
)

var (
	// Affiliation numbers are "NN NNNNNNNNN(N)": a two-digit province
	// prefix and a 9-10 digit sequence. The cleaner has already collapsed
	// whitespace, so a single space separates the groups.
	reAffiliation = regexp.MustCompile(`\b\d{2} \d{9,10}\b`)

	// Document IDs look like "N NNNNNNNN(N)L": a leading check digit,
	// 8-9 digits and an uppercase control letter.
	reDocumentID = regexp.MustCompile(`\b\d \d{8,9}[A-Z]\b`)

	reStatus = regexp.MustCompile(`(?i)\b(ALTA|BAJA)\b`)

	reDate = regexp.MustCompile(`\b(\d{2})[-/](\d{2})[-/](\d{4})\b`)

	// Numeric column values: integers ("08", "540") or Spanish-locale
	// decimals ("1,80"). Identifiers and dates are masked before this
	// pattern runs, so anything left is a generic column value.
	reNumeric = regexp.MustCompile(`\b\d+(?:,\d+)?\b`)

	// Trailing situation codes (CLV): 2-4 uppercase alphanumerics with at
	// least one letter. Pure digit runs are column data, not codes.
	reCode = regexp.MustCompile(`\b[A-Z0-9]{2,4}\b$`)

	reHasLetter = regexp.MustCompile(`[A-Z]`)

	// Candidate names: runs of uppercase letters (accents allowed) and
	// spaces. Minimum length rules are applied after cleanup.
	reName = regexp.MustCompile(`[A-ZÁÉÍÓÚÜÑ][A-ZÁÉÍÓÚÜÑ ]{8,60}`)

	reLeadingLetter = regexp.MustCompile(`^[A-ZÁÉÍÓÚÜÑ] `)

	// Trailing short codes glued to a name need a digit; an all-letter
	// tail like "JUAN" is a name word.
	reTrailingCode = regexp.MustCompile(` [A-Z0-9]{0,3}\d[A-Z0-9]{0,3}$`)

	reEfectoContext = regexp.MustCompile(`(?i)EFECTO`)
	reRealContext   = regexp.MustCompile(`(?i)REAL`)
)

// reservedNameWords are report-boilerplate tokens that disqualify a
// candidate name. Section titles like "TODAS LAS SITUACIONES" would
// otherwise pass the uppercase-run shape check.
var reservedNameWords = map[string]struct{}{
	"SITUACION":   {},
	"SITUACIONES": {},
	"INFORME":     {},
	"TESORERIA":   {},
	"SEGURIDAD":   {},
	"AFILIACION":  {},
	"COTIZACION":  {},
	"EMPRESA":     {},
	"REGIMEN":     {},
	"LABORAL":     {},
	"EMPLEADO":    {},
	"TRABAJADOR":  {},
}

// Config carries per-run parser state. The name denylist is explicit
// configuration, never package-level, so concurrent runs stay isolated.
type Config struct {
	NameDenylist []string
}

type Parser struct {
	denylist map[string]struct{}
}

func New(cfg Config) *Parser {
	deny := make(map[string]struct{}, len(cfg.NameDenylist))
	for _, n := range cfg.NameDenylist {
		deny[strings.ToUpper(strings.TrimSpace(n))] = struct{}{}
	}
	return &Parser{denylist: deny}
}

// Denylisted reports whether a name matches the configured denylist.
// The reconciliation engine uses this for block-level validation.
func (p *Parser) Denylisted(name string) bool {
	_, ok := p.denylist[strings.ToUpper(strings.TrimSpace(name))]
	return ok
}

// ParseLines parses a full document in order, recording dropped fields
// on the diagnostics report.
func (p *Parser) ParseLines(lines []entity.CleanedLine, diag *common.Diagnostics) []entity.ParsedField {
	var fields []entity.ParsedField
	for _, l := range lines {
		fs, warns := p.ParseLine(l)
		fields = append(fields, fs...)
		for _, w := range warns {
			diag.AddParseWarning(l.Page, l.Line, l.Raw, "%s", w)
		}
	}
	return fields
}

// ParseLine produces zero or more typed fields from one cleaned line.
// When a span matches several kinds the most specific wins: identifiers
// and document IDs are claimed before generic numbers, status keywords
// before name tokens. The returned warnings describe dropped values.
func (p *Parser) ParseLine(l entity.CleanedLine) ([]entity.ParsedField, []string) {
	text := l.Text
	if text == "" {
		return nil, nil
	}

	var fields []entity.ParsedField
	var warnings []string
	masked := []byte(text)

	mask := func(start, end int) {
		for i := start; i < end; i++ {
			masked[i] = ' '
		}
	}

	field := func(kind entity.FieldKind, offset, column int) entity.ParsedField {
		return entity.ParsedField{Kind: kind, Page: l.Page, Line: l.Line, Offset: offset, Column: column}
	}

	// Identifiers first: they outrank generic numbers.
	for i, loc := range reAffiliation.FindAllStringIndex(text, -1) {
		f := field(entity.KindIdentifier, loc[0], i)
		f.Text = text[loc[0]:loc[1]]
		fields = append(fields, f)
		mask(loc[0], loc[1])
	}
	for i, loc := range reDocumentID.FindAllStringIndex(string(masked), -1) {
		f := field(entity.KindDocumentID, loc[0], i)
		f.Text = text[loc[0]:loc[1]]
		fields = append(fields, f)
		mask(loc[0], loc[1])
	}

	// Status keywords outrank name tokens.
	for i, loc := range reStatus.FindAllStringIndex(string(masked), -1) {
		sit, ok := constants.Canonicalize(text[loc[0]:loc[1]])
		if !ok {
			continue
		}
		f := field(entity.KindStatus, loc[0], i)
		f.Situation = sit
		f.Text = string(sit)
		fields = append(fields, f)
		mask(loc[0], loc[1])
	}

	// Dates, with strict calendar validation. Invalid dates are dropped
	// with a warning, never passed through as text.
	for i, loc := range reDate.FindAllStringIndex(string(masked), -1) {
		raw := text[loc[0]:loc[1]]
		d, err := parseDateToken(raw)
		if err != nil {
			warnings = append(warnings, "invalid date dropped: "+raw)
			mask(loc[0], loc[1])
			continue
		}
		f := field(entity.KindDate, loc[0], i)
		f.Date = d
		f.Text = d.String()
		f.Label = dateContext(text, loc[0])
		fields = append(fields, f)
		mask(loc[0], loc[1])
	}

	// Column header labels.
	labelCol := 0
	for _, tok := range tokenize(string(masked)) {
		label, ok := constants.NumericLabels[strings.ToUpper(tok.text)]
		if !ok {
			continue
		}
		f := field(entity.KindColumnLabel, tok.offset, labelCol)
		labelCol++
		f.Label = label
		f.Text = tok.text
		fields = append(fields, f)
		mask(tok.offset, tok.offset+len(tok.text))
	}

	// A trailing CLV code, only on lines that carry other recognized
	// structure; a bare short uppercase line is more likely a header.
	if len(fields) > 0 {
		if loc := reCode.FindStringIndex(strings.TrimRight(string(masked), " ")); loc != nil {
			tok := text[loc[0]:loc[1]]
			if reHasLetter.MatchString(tok) {
				f := field(entity.KindCode, loc[0], 0)
				f.Text = tok
				fields = append(fields, f)
				mask(loc[0], loc[1])
			}
		}
	}

	// Remaining numbers are generic numeric columns, locale-aware.
	numCol := 0
	for _, loc := range reNumeric.FindAllStringIndex(string(masked), -1) {
		raw := text[loc[0]:loc[1]]
		v, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
		if err != nil {
			warnings = append(warnings, "unparseable numeric dropped: "+raw)
			mask(loc[0], loc[1])
			continue
		}
		f := field(entity.KindNumeric, loc[0], numCol)
		f.Value = v
		f.Text = raw
		fields = append(fields, f)
		mask(loc[0], loc[1])
		numCol++
	}

	// Names from whatever uppercase text survives the masking.
	for i, loc := range reName.FindAllStringIndex(string(masked), -1) {
		name, ok := p.cleanName(string(masked[loc[0]:loc[1]]))
		if !ok {
			continue
		}
		f := field(entity.KindName, loc[0], i)
		f.Text = name
		fields = append(fields, f)
	}

	return fields, warnings
}

// cleanName applies the cleanup rules for candidate names: strip stray
// single letters bleeding in from an adjacent document ID, trailing
// short codes, and trailing single letters; then enforce the minimum
// shape (two words, ten characters) and the denylist.
func (p *Parser) cleanName(s string) (string, bool) {
	name := strings.TrimSpace(s)
	name = reLeadingLetter.ReplaceAllString(name, "")
	name = reTrailingCode.ReplaceAllString(name, "")

	words := strings.Fields(name)
	for len(words) >= 3 {
		last := words[len(words)-1]
		if len(last) == 1 {
			words = words[:len(words)-1]
			continue
		}
		break
	}
	name = strings.Join(words, " ")

	if len(words) < 2 || len(name) < 10 {
		return "", false
	}
	for _, w := range words {
		if _, reserved := reservedNameWords[w]; reserved {
			return "", false
		}
	}
	if p.Denylisted(name) {
		return "", false
	}
	return name, true
}

// dateContext classifies a date by nearby label text: an "efecto"
// label marks effect dates, "real" marks real dates. Positional rules
// in the reconciliation engine handle everything unlabelled.
func dateContext(line string, offset int) string {
	start := offset - 20
	if start < 0 {
		start = 0
	}
	window := line[start:offset]
	switch {
	case reEfectoContext.MatchString(window):
		return "EFECTO"
	case reRealContext.MatchString(window):
		return "REAL"
	default:
		return ""
	}
}

func parseDateToken(s string) (entity.Date, error) {
	norm := strings.ReplaceAll(s, "/", "-")
	parts := strings.Split(norm, "-")
	d := atoi(parts[0])
	m := atoi(parts[1])
	y := atoi(parts[2])
	return entity.NewDate(y, time.Month(m), d)
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

type token struct {
	text   string
	offset int
}

func tokenize(s string) []token {
	var toks []token
	i := 0
	for i < len(s) {
		if s[i] == ' ' {
			i++
			continue
		}
		j := i
		for j < len(s) && s[j] != ' ' {
			j++
		}
		toks = append(toks, token{text: s[i:j], offset: i})
		i = j
	}
	return toks
}
