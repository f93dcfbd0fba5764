package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/dmarrero/vidalaboral/internal/entity"
)

// TextLayerExtractor reads the PDF text layer in-process. No external
// tools needed, at the cost of weaker layout reconstruction than
// pdftotext.
type TextLayerExtractor struct {
	maxBytes int64
	logger   *slog.Logger
}

func NewTextLayer(maxBytes int64, logger *slog.Logger) *TextLayerExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextLayerExtractor{maxBytes: maxBytes, logger: logger}
}

func (e *TextLayerExtractor) Name() string { return "text" }

func (e *TextLayerExtractor) Extract(ctx context.Context, path string) ([]entity.RawLine, error) {
	start := time.Now()
	if err := preflight(path, e.maxBytes); err != nil {
		return nil, err
	}

	lines, err := readTextLayer(ctx, path)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "encrypted") {
			return nil, newExtractionError(path, ReasonEncrypted, err)
		}
		return nil, newExtractionError(path, ReasonUnreadable, err)
	}
	if len(lines) == 0 {
		return nil, newExtractionError(path, ReasonEmpty, nil)
	}

	e.logger.Debug("extract.text.ok",
		"path", path,
		"lines", len(lines),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return lines, nil
}

// readTextLayer walks every page row by row. The pdf library panics on
// some malformed content streams; those are converted to errors so one
// bad document cannot take down a batch worker.
func readTextLayer(ctx context.Context, path string) (lines []entity.RawLine, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf content: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for pageNo := 1; pageNo <= reader.NumPage(); pageNo++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(pageNo)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNo, err)
		}
		lineNo := 0
		for _, row := range rows {
			lineNo++
			text := rowString(row)
			if strings.TrimSpace(text) == "" {
				continue
			}
			lines = append(lines, entity.RawLine{Page: pageNo, Line: lineNo, Text: text})
		}
	}
	return lines, nil
}

func rowString(row *pdf.Row) string {
	var sb strings.Builder
	for _, t := range row.Content {
		sb.WriteString(t.S)
	}
	return sb.String()
}
