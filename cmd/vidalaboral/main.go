package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dmarrero/vidalaboral/constants"
	"github.com/dmarrero/vidalaboral/internal/common"
	"github.com/dmarrero/vidalaboral/internal/entity"
	"github.com/dmarrero/vidalaboral/internal/export"
	"github.com/dmarrero/vidalaboral/internal/extract"
	"github.com/dmarrero/vidalaboral/internal/join"
	"github.com/dmarrero/vidalaboral/internal/pipeline"
	"github.com/dmarrero/vidalaboral/internal/reftable"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		pdfPath    = flag.String("pdf", "", "single PDF report to process")
		dir        = flag.String("dir", "", "directory of PDF reports to process")
		rosterPath = flag.String("roster", "", "client roster file (.xlsx or .csv) to join by name")
		out        = flag.String("out", "", "output path; .xlsx or .csv (defaults to vida_laboral.xlsx next to the input)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if (*pdfPath == "") == (*dir == "") {
		printError("Error: exactly one of --pdf or --dir is required\n")
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	paths, err := collectInputs(*pdfPath, *dir)
	if err != nil {
		logger.Error("failed to collect inputs", "error", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		printError("Error: no PDF files found\n")
		os.Exit(1)
	}

	if *out == "" {
		base := *dir
		if base == "" {
			base = filepath.Dir(*pdfPath)
		}
		*out = filepath.Join(base, "vida_laboral.xlsx")
	}

	extractor, err := extract.ForConfig(cfg.Extraction, logger)
	if err != nil {
		logger.Error("failed to build extractor", "error", err)
		os.Exit(1)
	}
	processor, err := pipeline.NewProcessor(cfg, extractor, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	batch := processor.ProcessBatch(ctx, paths, cfg.Batch.Workers)
	for _, f := range batch.Failures {
		logger.Error("document failed", "path", f.Path, "error", f.Err)
	}

	var employees []entity.ReconciledEmployee
	warnings := 0
	for _, doc := range batch.Documents {
		employees = append(employees, doc.Employees...)
		warnings += len(doc.Diagnostics.Warnings)
	}

	joined := false
	if *rosterPath != "" {
		roster, err := reftable.Load(*rosterPath)
		if err != nil {
			logger.Error("failed to load roster", "path", *rosterPath, "error", err)
			os.Exit(1)
		}
		res := join.New(join.Config{FuzzyThreshold: cfg.Join.FuzzyThreshold}).Join(employees, roster)
		joined = true
		logger.Info("join.done",
			"roster_rows", len(roster),
			"matched", res.Matched,
			"fuzzy", res.Fuzzy,
			"unmatched", res.Unmatched,
		)
	}

	svc := export.NewService(logger)
	if err := writeOutput(svc, *out, employees, joined); err != nil {
		logger.Error("failed to write output", "path", *out, "error", err)
		os.Exit(1)
	}

	events := 0
	for i := range batch.Documents {
		events += batch.Documents[i].EventCount()
	}
	fmt.Printf("Processing complete!\n")
	fmt.Printf("- Documents processed: %d\n", len(batch.Documents))
	fmt.Printf("- Documents failed: %d\n", len(batch.Failures))
	fmt.Printf("- Employees: %d\n", len(employees))
	fmt.Printf("- Status events: %d\n", events)
	fmt.Printf("- Warnings: %d\n", warnings)
	fmt.Printf("- Output: %s\n", *out)
}

// collectInputs lists the documents to process: the single file, or
// every allowed file in the directory, sorted for stable batch order.
func collectInputs(pdfPath, dir string) ([]string, error) {
	if pdfPath != "" {
		return []string{pdfPath}, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := constants.NormalizeExt(filepath.Ext(e.Name()))
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func writeOutput(svc *export.Service, out string, employees []entity.ReconciledEmployee, joined bool) error {
	if strings.EqualFold(filepath.Ext(out), ".csv") {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		return svc.CSV(f, employees)
	}
	b, err := svc.XLSX(employees, joined)
	if err != nil {
		return err
	}
	return os.WriteFile(out, b, 0o644)
}
