package pipeline

import (
	"context"
	"sync"
	"time"
)

// DocumentFailure records one document that could not be processed.
// The rest of the batch is unaffected.
type DocumentFailure struct {
	Path string
	Err  error
}

// BatchResult aggregates a batch run. Documents keep the input order
// regardless of which worker finished first.
type BatchResult struct {
	Documents []DocumentResult
	Failures  []DocumentFailure
}

// ProcessBatch runs documents through a fixed-size worker pool. Results
// are aggregated by a single goroutine; workers never touch shared
// state.
func (p *Processor) ProcessBatch(ctx context.Context, paths []string, workers int) *BatchResult {
	start := time.Now()
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	type outcome struct {
		idx int
		res *DocumentResult
		err error
	}

	jobs := make(chan int)
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				res, err := p.ProcessDocument(ctx, paths[idx])
				outcomes <- outcome{idx: idx, res: res, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range paths {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	byIndex := make([]*outcome, len(paths))
	for o := range outcomes {
		o := o
		byIndex[o.idx] = &o
	}

	result := &BatchResult{}
	for i, o := range byIndex {
		if o == nil {
			result.Failures = append(result.Failures, DocumentFailure{Path: paths[i], Err: ctx.Err()})
			continue
		}
		if o.err != nil {
			result.Failures = append(result.Failures, DocumentFailure{Path: paths[o.idx], Err: o.err})
			continue
		}
		result.Documents = append(result.Documents, *o.res)
	}

	p.logger.Info("pipeline.batch.done",
		"documents", len(result.Documents),
		"failures", len(result.Failures),
		"workers", workers,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result
}
