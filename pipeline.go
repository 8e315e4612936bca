// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package corpora

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/corpora/analysis"
	"github.com/poiesic/corpora/config"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/dedupe"
	"github.com/poiesic/corpora/migration"
	"github.com/poiesic/corpora/planning"
	"github.com/poiesic/corpora/report"
	"github.com/poiesic/corpora/source"
	"github.com/poiesic/corpora/storage"
)

var (
	// ErrStoreRequired indicates a pipeline built without a document store.
	ErrStoreRequired = errors.New("document store is required")

	// ErrSourceRequired indicates a run without a document source.
	ErrSourceRequired = errors.New("document source is required")
)

// Pipeline runs discovery, analysis, duplicate detection, planning,
// migration and reporting for one corpus. It owns every stage; the store is
// borrowed and must be closed by the caller.
type Pipeline struct {
	cfg      *config.Config
	runner   *analysis.Runner
	detector *dedupe.Detector
	planner  *planning.Planner
	executor *migration.Executor
	logger   *slog.Logger
}

type pipelineOptions struct {
	cfg      *config.Config
	logger   *slog.Logger
	progress migration.Progress
	hook     migration.WaveHook
}

// Option configures a Pipeline.
type Option func(*pipelineOptions)

// WithConfig sets the run configuration. Default is config.Default().
func WithConfig(cfg *config.Config) Option {
	return func(o *pipelineOptions) {
		if cfg != nil {
			o.cfg = cfg
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *pipelineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProgress reports migrated items to p.
func WithProgress(p migration.Progress) Option {
	return func(o *pipelineOptions) {
		o.progress = p
	}
}

// WithWaveHook observes wave boundaries during migration.
func WithWaveHook(hook migration.WaveHook) Option {
	return func(o *pipelineOptions) {
		o.hook = hook
	}
}

// NewPipeline validates the configuration and builds every stage.
func NewPipeline(store storage.DocumentStore, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	o := pipelineOptions{cfg: config.Default(), logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	cfg := o.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	detector, err := dedupe.NewDetector(
		dedupe.WithThreshold(cfg.DuplicateSimilarityThreshold),
		dedupe.WithLogger(o.logger),
	)
	if err != nil {
		return nil, err
	}

	planner, err := planning.NewPlanner(
		planning.WithTierThresholds(cfg.Tiers.HighThreshold, cfg.Tiers.MediumThreshold),
		planning.WithItemEstimates(cfg.Tiers.HighEstimate.Std(), cfg.Tiers.MediumEstimate.Std(), cfg.Tiers.LowEstimate.Std()),
	)
	if err != nil {
		return nil, err
	}

	execOpts := []migration.Option{
		migration.WithConcurrency(cfg.MigrationConcurrency),
		migration.WithItemTimeout(cfg.PerItemTimeout.Std()),
		migration.WithRateLimit(cfg.StoreRateLimit, cfg.StoreBurst),
		migration.WithSkipExisting(cfg.SkipExisting),
		migration.WithRetainThreshold(cfg.RetainThreshold),
		migration.WithLogger(o.logger),
	}
	if o.progress != nil {
		execOpts = append(execOpts, migration.WithProgress(o.progress))
	}
	if o.hook != nil {
		execOpts = append(execOpts, migration.WithWaveHook(o.hook))
	}
	executor, err := migration.NewExecutor(store, execOpts...)
	if err != nil {
		return nil, err
	}

	// The runner goes last: it holds a worker pool that must be released.
	runner, err := analysis.NewRunner(
		analysis.WithConcurrency(cfg.AnalysisConcurrency),
		analysis.WithLogger(o.logger),
	)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:      cfg,
		runner:   runner,
		detector: detector,
		planner:  planner,
		executor: executor,
		logger:   o.logger.With("component", "pipeline"),
	}, nil
}

// Release frees the analysis worker pool. The pipeline cannot be used
// afterwards.
func (p *Pipeline) Release() {
	p.runner.Release()
}

// Plan is the outcome of the stages that precede migration.
type Plan struct {
	Discovered       int                    `json:"discovered"`
	Items            []*core.Item           `json:"items"`
	AnalysisFailures []core.AnalysisFailure `json:"analysisFailures"`
	Duplicates       int                    `json:"duplicates"`
	Batches          []*core.Batch          `json:"batches"`
	Summary          planning.Summary       `json:"summary"`
}

// Prepare discovers, analyzes, deduplicates and plans the corpus without
// migrating anything. A discovery stopped by ctx yields an empty plan.
func (p *Pipeline) Prepare(ctx context.Context, src source.Source) (*Plan, error) {
	if src == nil {
		return nil, ErrSourceRequired
	}

	docs, err := src.Discover(ctx)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			p.logger.Warn("discovery cancelled", "err", err)
			return &Plan{
				Items:            []*core.Item{},
				AnalysisFailures: []core.AnalysisFailure{},
				Batches:          []*core.Batch{},
			}, nil
		}
		return nil, fmt.Errorf("discover documents: %w", err)
	}
	p.logger.Info("documents discovered", "count", len(docs))

	p.logger.Debug("analyzing documents", "concurrency", p.runner.Concurrency())
	items, failed := p.runner.Run(ctx, docs)

	items, err = p.detector.Detect(items)
	if err != nil {
		return nil, fmt.Errorf("detect duplicates: %w", err)
	}
	duplicates := dedupe.CountDuplicates(items)
	p.logger.Debug("duplicates detected", "count", duplicates, "threshold", p.detector.Threshold())

	batches, err := p.planner.Plan(items, p.cfg.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("plan batches: %w", err)
	}
	summary := planning.Summarize(batches)
	p.logger.Info("migration planned",
		"items", len(items),
		"duplicates", duplicates,
		"batches", summary.Batches,
		"estimatedSeconds", summary.EstimatedDurationSeconds)

	return &Plan{
		Discovered:       len(docs),
		Items:            items,
		AnalysisFailures: analysisFailures(failed),
		Duplicates:       duplicates,
		Batches:          batches,
		Summary:          summary,
	}, nil
}

// Run executes a full pass over src and returns its report.
//
// A cancelled run still yields a report, marked Cancelled, covering
// whatever completed. Errors are returned only for failures that make a
// report meaningless: discovery failures other than cancellation, malformed
// duplicate input or planning.
func (p *Pipeline) Run(ctx context.Context, src source.Source) (*core.CorpusReport, error) {
	plan, err := p.Prepare(ctx, src)
	if err != nil {
		return nil, err
	}

	results := p.executor.ExecuteAll(ctx, plan.Batches)

	cancelled := ctx.Err() != nil
	if cancelled {
		p.logger.Warn("run cancelled, report is partial", "batchesExecuted", len(results), "batchesPlanned", len(plan.Batches))
	}

	r := report.Aggregate(plan.Discovered, len(plan.Items), plan.Duplicates, results,
		report.WithBatchesPlanned(len(plan.Batches)),
		report.WithAnalysisFailures(plan.AnalysisFailures),
		report.WithCancelled(cancelled),
	)
	p.logger.Info("run complete",
		"runId", r.RunID,
		"succeeded", r.SuccessCount,
		"failed", r.FailureCount,
		"skipped", r.SkipCount,
		"throughput", r.Throughput)
	return r, nil
}

func analysisFailures(failed []*analysis.AnalysisError) []core.AnalysisFailure {
	out := make([]core.AnalysisFailure, 0, len(failed))
	for _, f := range failed {
		out = append(out, core.AnalysisFailure{Path: f.Path, ErrorMessage: f.Cause.Error()})
	}
	return out
}
