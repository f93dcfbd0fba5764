// Package extract turns a PDF document into positioned raw text lines.
// Two strategies exist: the external pdftotext tool and a pure-Go text
// layer reader; "auto" tries them in order and never mixes output from
// both.
package extract

import (
	"context"
	"fmt"
	"os"

	"github.com/dmarrero/vidalaboral/internal/entity"
)

// Reason classifies a fatal per-document extraction failure.
type Reason string

const (
	ReasonEncrypted  Reason = "ENCRYPTED"
	ReasonEmpty      Reason = "EMPTY"
	ReasonTooLarge   Reason = "TOO_LARGE"
	ReasonUnreadable Reason = "UNREADABLE"
	ReasonToolFailed Reason = "TOOL_FAILED"
)

// ExtractionError aborts processing of one document; other documents
// in a batch are unaffected.
type ExtractionError struct {
	Path   string
	Reason Reason
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("extract %s: %s", e.Path, e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func newExtractionError(path string, reason Reason, err error) *ExtractionError {
	return &ExtractionError{Path: path, Reason: reason, Err: err}
}

// LineExtractor produces the raw lines of one document, with 1-based
// page and line positions.
type LineExtractor interface {
	Extract(ctx context.Context, path string) ([]entity.RawLine, error)
	Name() string
}

// preflight rejects unreadable or oversized files before any parsing.
func preflight(path string, maxBytes int64) *ExtractionError {
	info, err := os.Stat(path)
	if err != nil {
		return newExtractionError(path, ReasonUnreadable, err)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return newExtractionError(path, ReasonTooLarge,
			fmt.Errorf("%d bytes exceeds limit of %d", info.Size(), maxBytes))
	}
	return nil
}
