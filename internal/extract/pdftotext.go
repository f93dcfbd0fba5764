package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dmarrero/vidalaboral/internal/entity"
)

// PdftotextExtractor shells out to the poppler pdftotext tool with
// layout preservation. It is the most faithful strategy for the
// column-aligned report tables.
type PdftotextExtractor struct {
	bin      string
	maxBytes int64
	runner   Runner
	logger   *slog.Logger
}

func NewPdftotext(bin string, maxBytes int64, logger *slog.Logger) *PdftotextExtractor {
	if bin == "" {
		bin = "pdftotext"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PdftotextExtractor{bin: bin, maxBytes: maxBytes, runner: execRunner{}, logger: logger}
}

// WithRunner swaps the command runner; tests use this to stub the tool.
func (e *PdftotextExtractor) WithRunner(r Runner) *PdftotextExtractor {
	e.runner = r
	return e
}

func (e *PdftotextExtractor) Name() string { return "pdftotext" }

func (e *PdftotextExtractor) Extract(ctx context.Context, path string) ([]entity.RawLine, error) {
	start := time.Now()
	if err := preflight(path, e.maxBytes); err != nil {
		return nil, err
	}

	stdout, stderr, err := e.runner.Run(ctx, e.bin, "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		if isEncryptedMessage(string(stderr)) {
			return nil, newExtractionError(path, ReasonEncrypted, err)
		}
		return nil, newExtractionError(path, ReasonToolFailed, err)
	}

	lines := splitPages(string(stdout))
	if len(lines) == 0 {
		return nil, newExtractionError(path, ReasonEmpty, nil)
	}

	e.logger.Debug("extract.pdftotext.ok",
		"path", path,
		"lines", len(lines),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return lines, nil
}

func isEncryptedMessage(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "encrypted") || strings.Contains(s, "incorrect password")
}

// splitPages converts pdftotext output into positioned lines. Pages are
// separated by form feeds; line numbers restart on each page. Blank
// lines are dropped, they carry no fields.
func splitPages(text string) []entity.RawLine {
	var out []entity.RawLine
	for p, page := range strings.Split(text, "\f") {
		lineNo := 0
		for _, raw := range strings.Split(page, "\n") {
			lineNo++
			if strings.TrimSpace(raw) == "" {
				continue
			}
			out = append(out, entity.RawLine{Page: p + 1, Line: lineNo, Text: raw})
		}
	}
	return out
}
