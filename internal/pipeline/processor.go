// Package pipeline coordinates the per-document stages: extract, clean,
// parse, segment, reconcile. One document flows through single-threaded;
// batches run documents in parallel.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmarrero/vidalaboral/internal/clean"
	"github.com/dmarrero/vidalaboral/internal/common"
	"github.com/dmarrero/vidalaboral/internal/entity"
	"github.com/dmarrero/vidalaboral/internal/extract"
	"github.com/dmarrero/vidalaboral/internal/parse"
	"github.com/dmarrero/vidalaboral/internal/reconcile"
	"github.com/dmarrero/vidalaboral/internal/segment"
)

// Processor owns one fully wired pipeline. All stage state is
// per-instance; two processors never share mutable state.
type Processor struct {
	extractor extract.LineExtractor
	cleaner   *clean.Cleaner
	parser    *parse.Parser
	segmenter *segment.Segmenter
	engine    *reconcile.Engine
	timeout   time.Duration
	logger    *slog.Logger
}

func NewProcessor(cfg *common.Config, extractor extract.LineExtractor, logger *slog.Logger) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cleaner, err := clean.New()
	if err != nil {
		return nil, err
	}
	return &Processor{
		extractor: extractor,
		cleaner:   cleaner,
		parser:    parse.New(parse.Config{NameDenylist: cfg.Cleaning.NameDenylist}),
		segmenter: segment.New(),
		engine:    reconcile.New(reconcile.Config{NameDenylist: cfg.Cleaning.NameDenylist}),
		timeout:   cfg.Extraction.Timeout,
		logger:    logger,
	}, nil
}

// DocumentResult is the outcome of one successfully processed document.
type DocumentResult struct {
	Source      string
	Employees   []entity.ReconciledEmployee
	Diagnostics *common.Diagnostics
}

// EventCount totals status events across all employees.
func (r *DocumentResult) EventCount() int {
	n := 0
	for _, emp := range r.Employees {
		n += len(emp.Events)
	}
	return n
}

// ProcessDocument runs the full pipeline for one file. An extraction
// failure is fatal for the document; every later stage degrades to
// warnings on the diagnostics report instead.
func (p *Processor) ProcessDocument(ctx context.Context, path string) (*DocumentResult, error) {
	start := time.Now()
	diag := common.NewDiagnostics(path)

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	raw, err := p.extractor.Extract(ctx, path)
	if err != nil {
		p.logger.Error("pipeline.extract.failed", "path", path, "error", err)
		return nil, err
	}

	cleaned := p.cleaner.CleanLines(raw)
	fields := p.parser.ParseLines(cleaned, diag)
	blocks := p.segmenter.Segment(fields, diag)
	employees := p.engine.Reconcile(blocks, diag)

	res := &DocumentResult{Source: path, Employees: employees, Diagnostics: diag}
	p.logger.Info("pipeline.document.ok",
		"run_id", diag.RunID.String(),
		"path", path,
		"lines", len(raw),
		"employees", len(employees),
		"events", res.EventCount(),
		"warnings", len(diag.Warnings),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}
