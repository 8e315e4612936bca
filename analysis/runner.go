package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/source"
)

// DefaultConcurrency is the default number of concurrent analyses.
const DefaultConcurrency = 10

// Runner analyzes many documents concurrently over a bounded worker pool.
type Runner struct {
	analyzer *Analyzer
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner) error

// WithConcurrency sets the worker pool size.
// Values below 1 are treated as 1.
func WithConcurrency(size int) Option {
	return func(r *Runner) error {
		if size < 1 {
			size = 1
		}
		if r.pool != nil {
			r.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithAnalyzer replaces the default analyzer.
func WithAnalyzer(analyzer *Analyzer) Option {
	return func(r *Runner) error {
		if analyzer != nil {
			r.analyzer = analyzer
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRunner creates a runner. Call Release when done with it.
func NewRunner(opts ...Option) (*Runner, error) {
	pool, err := ants.NewPool(DefaultConcurrency)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		analyzer: NewAnalyzer(),
		pool:     pool,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(r); optErr != nil {
			r.Release()
			return nil, optErr
		}
	}
	r.logger = r.logger.With("component", "analysis")
	return r, nil
}

// Concurrency returns the worker pool size.
func (r *Runner) Concurrency() int {
	return r.pool.Cap()
}

// Run analyzes every document and returns the items in discovery order
// together with the documents that failed.
//
// When ctx is cancelled no further documents are submitted; analyses that
// already started run to completion.
func (r *Runner) Run(ctx context.Context, docs []source.Document) ([]*core.Item, []*AnalysisError) {
	items := make([]*core.Item, len(docs))
	failures := make([]*AnalysisError, len(docs))

	var wg sync.WaitGroup
	for i, doc := range docs {
		if ctx.Err() != nil {
			r.logger.Warn("analysis cancelled", "submitted", i, "total", len(docs))
			break
		}

		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			items[i], failures[i] = r.analyzeOne(context.WithoutCancel(ctx), doc)
		})
		if err != nil {
			wg.Done()
			failures[i] = &AnalysisError{Path: doc.Path, Cause: fmt.Errorf("submit analysis: %w", err)}
		}
	}
	wg.Wait()

	var analyzed []*core.Item
	var failed []*AnalysisError
	seen := make(map[core.ItemID]string)
	for i := range docs {
		if item := items[i]; item != nil {
			if first, ok := seen[item.ID]; ok {
				failures[i] = &AnalysisError{Path: item.SourcePath, Cause: fmt.Errorf("%w: same item as %s", ErrDuplicatePath, first)}
			} else {
				seen[item.ID] = item.SourcePath
				analyzed = append(analyzed, item)
			}
		}
		if failures[i] != nil {
			r.logger.Warn("document analysis failed", "path", failures[i].Path, "err", failures[i].Cause)
			failed = append(failed, failures[i])
		}
	}

	r.logger.Info("analysis complete", "documents", len(docs), "analyzed", len(analyzed), "failed", len(failed))
	return analyzed, failed
}

func (r *Runner) analyzeOne(ctx context.Context, doc source.Document) (item *core.Item, failure *AnalysisError) {
	defer func() {
		if p := recover(); p != nil {
			item = nil
			failure = &AnalysisError{Path: doc.Path, Cause: fmt.Errorf("panic: %v", p)}
		}
	}()

	item, err := r.analyzer.AnalyzeDocument(ctx, doc)
	if err != nil {
		var ae *AnalysisError
		if errors.As(err, &ae) {
			return nil, ae
		}
		return nil, &AnalysisError{Path: doc.Path, Cause: err}
	}
	return item, nil
}

// Release releases the worker pool.
func (r *Runner) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}
