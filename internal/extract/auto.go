package extract

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmarrero/vidalaboral/internal/common"
	"github.com/dmarrero/vidalaboral/internal/entity"
)

// AutoExtractor tries strategies in priority order and returns the
// first full success. Output from different strategies is never mixed;
// a document is extracted by exactly one of them.
type AutoExtractor struct {
	strategies []LineExtractor
	logger     *slog.Logger
}

func NewAuto(logger *slog.Logger, strategies ...LineExtractor) *AutoExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &AutoExtractor{strategies: strategies, logger: logger}
}

func (e *AutoExtractor) Name() string { return "auto" }

func (e *AutoExtractor) Extract(ctx context.Context, path string) ([]entity.RawLine, error) {
	var firstErr error
	for _, s := range e.strategies {
		lines, err := s.Extract(ctx, path)
		if err == nil {
			return lines, nil
		}
		e.logger.Warn("extract.strategy.failed",
			"path", path,
			"strategy", s.Name(),
			"error", err,
		)
		if firstErr == nil {
			firstErr = err
		}
		// An oversized or encrypted document fails the same way under
		// every strategy; stop early.
		var xe *ExtractionError
		if errors.As(err, &xe) && (xe.Reason == ReasonTooLarge || xe.Reason == ReasonEncrypted) {
			break
		}
	}
	if firstErr == nil {
		firstErr = newExtractionError(path, ReasonToolFailed, errors.New("no extraction strategies configured"))
	}
	return nil, firstErr
}

// ForConfig builds the extractor selected by configuration.
func ForConfig(cfg common.ExtractionConfig, logger *slog.Logger) (LineExtractor, error) {
	maxBytes := cfg.MaxSizeMB << 20
	switch cfg.Strategy {
	case "pdftotext":
		return NewPdftotext(cfg.Pdftotext, maxBytes, logger), nil
	case "text":
		return NewTextLayer(maxBytes, logger), nil
	case "", "auto":
		return NewAuto(logger,
			NewPdftotext(cfg.Pdftotext, maxBytes, logger),
			NewTextLayer(maxBytes, logger),
		), nil
	default:
		return nil, common.NewAppError("CONFIG_ERROR",
			"unknown extraction strategy: "+cfg.Strategy, common.ErrInvalidInput)
	}
}
