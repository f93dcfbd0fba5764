package common

import (
	"fmt"

	"github.com/google/uuid"
)

// WarningKind categorizes recoverable failures recorded during a run.
type WarningKind string

const (
	ParseWarning        WarningKind = "PARSE_WARNING"
	SegmentationWarning WarningKind = "SEGMENTATION_WARNING"
	ValidationSkip      WarningKind = "VALIDATION_SKIP"
)

// Warning is one recorded recoverable failure: the field or block was
// dropped, processing continued.
type Warning struct {
	Kind    WarningKind
	Page    int
	Line    int
	Message string
	Raw     string // offending source text, kept for audit
}

// Diagnostics is the per-run report accumulated alongside the
// reconciled rows. One instance per document pipeline; not safe for
// concurrent use, matching the single-threaded per-document flow.
type Diagnostics struct {
	RunID    uuid.UUID
	Source   string
	Warnings []Warning
}

func NewDiagnostics(source string) *Diagnostics {
	return &Diagnostics{RunID: uuid.New(), Source: source}
}

func (d *Diagnostics) AddParseWarning(page, line int, raw, format string, args ...any) {
	d.add(ParseWarning, page, line, raw, format, args...)
}

func (d *Diagnostics) AddSegmentationWarning(page, line int, raw, format string, args ...any) {
	d.add(SegmentationWarning, page, line, raw, format, args...)
}

func (d *Diagnostics) AddValidationSkip(page, line int, raw, format string, args ...any) {
	d.add(ValidationSkip, page, line, raw, format, args...)
}

func (d *Diagnostics) add(kind WarningKind, page, line int, raw, format string, args ...any) {
	d.Warnings = append(d.Warnings, Warning{
		Kind:    kind,
		Page:    page,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
		Raw:     raw,
	})
}

// Count returns the number of warnings of one kind.
func (d *Diagnostics) Count(kind WarningKind) int {
	n := 0
	for _, w := range d.Warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

// Merge folds another report into this one, keeping this run's ID.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}
	d.Warnings = append(d.Warnings, other.Warnings...)
}
