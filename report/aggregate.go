package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/corpora/core"
)

type options struct {
	runID            string
	batchesPlanned   int
	analysisFailures []core.AnalysisFailure
	cancelled        bool
}

// Option adds run-level context to a report.
type Option func(*options)

// WithRunID sets the run identifier. A random UUID is used otherwise.
func WithRunID(id string) Option {
	return func(o *options) {
		o.runID = id
	}
}

// WithBatchesPlanned records how many batches the planner produced.
// Defaults to the number of results.
func WithBatchesPlanned(n int) Option {
	return func(o *options) {
		o.batchesPlanned = n
	}
}

// WithAnalysisFailures records the documents that could not be analyzed.
func WithAnalysisFailures(failures []core.AnalysisFailure) Option {
	return func(o *options) {
		o.analysisFailures = failures
	}
}

// WithCancelled marks the report as partial.
func WithCancelled(cancelled bool) Option {
	return func(o *options) {
		o.cancelled = cancelled
	}
}

// Aggregate merges batch results and corpus counters into a report.
func Aggregate(discovered, analyzed, duplicates int, results []*core.MigrationResult, opts ...Option) *core.CorpusReport {
	o := options{batchesPlanned: -1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}
	if o.batchesPlanned < 0 {
		o.batchesPlanned = len(results)
	}

	r := &core.CorpusReport{
		RunID:              o.runID,
		TotalDiscovered:    discovered,
		TotalAnalyzed:      analyzed,
		DuplicatesDetected: duplicates,
		BatchesPlanned:     o.batchesPlanned,
		Cancelled:          o.cancelled,
		Tiers:              make(map[core.Tier]core.TierSummary),
		AnalysisFailures:   nonNil(o.analysisFailures),
		BatchErrors:        []core.BatchFailure{},
		Results:            []*core.MigrationResult{},
	}

	var started, finished time.Time
	for _, res := range results {
		if res == nil {
			continue
		}
		r.Results = append(r.Results, res)
		r.BatchesExecuted++
		r.TotalItems += res.TotalItems
		r.SuccessCount += res.SuccessCount
		r.FailureCount += res.FailureCount
		r.SkipCount += res.SkipCount
		r.CancelledCount += res.CancelledCount

		if res.BatchError != "" {
			r.BatchErrors = append(r.BatchErrors, core.BatchFailure{BatchID: res.BatchID, ErrorMessage: res.BatchError})
		}

		if core.ValidateTier(res.Tier) == nil {
			ts := r.Tiers[res.Tier]
			ts.Batches++
			ts.Items += res.TotalItems
			ts.SuccessCount += res.SuccessCount
			ts.FailureCount += res.FailureCount
			ts.SkipCount += res.SkipCount
			r.Tiers[res.Tier] = ts
		}

		if !res.StartedAt.IsZero() && (started.IsZero() || res.StartedAt.Before(started)) {
			started = res.StartedAt
		}
		if res.FinishedAt.After(finished) {
			finished = res.FinishedAt
		}
	}

	r.StartedAt = started
	r.FinishedAt = finished
	if !started.IsZero() && finished.After(started) {
		r.DurationSeconds = finished.Sub(started).Seconds()
		r.Throughput = float64(r.SuccessCount) / r.DurationSeconds
	}
	return r
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
