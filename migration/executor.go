package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/storage"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	// DefaultConcurrency is the default number of concurrent batches per wave.
	DefaultConcurrency = 5

	// DefaultItemTimeout bounds every store call.
	DefaultItemTimeout = 30 * time.Second
)

// Executor runs batches wave by wave.
type Executor struct {
	store           storage.DocumentStore
	index           storage.ChecksumIndex
	concurrency     int
	timeout         time.Duration
	limiter         *rate.Limiter
	skipExisting    bool
	retainThreshold float64
	progress        Progress
	hook            WaveHook
	logger          *slog.Logger

	runMu sync.Mutex // serializes runs

	mu      sync.Mutex
	state   State
	claimed map[core.ItemID]string // item -> first batch, per run
}

// Option configures an Executor.
type Option func(*Executor) error

// WithConcurrency sets how many batches of a wave may run at once.
func WithConcurrency(n int) Option {
	return func(e *Executor) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidConcurrency, n)
		}
		e.concurrency = n
		return nil
	}
}

// WithItemTimeout sets the timeout of each store call.
func WithItemTimeout(d time.Duration) Option {
	return func(e *Executor) error {
		if d <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidTimeout, d)
		}
		e.timeout = d
		return nil
	}
}

// WithRateLimit throttles store calls to rps requests per second across
// all batches. Zero disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(e *Executor) error {
		if math.IsNaN(rps) || rps < 0 || (rps > 0 && burst < 1) {
			return fmt.Errorf("%w: rps=%v burst=%d", ErrInvalidRateLimit, rps, burst)
		}
		if rps == 0 {
			e.limiter = nil
			return nil
		}
		e.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		return nil
	}
}

// WithSkipExisting skips items whose checksum the store already holds.
// The store must implement storage.ChecksumIndex.
func WithSkipExisting(skip bool) Option {
	return func(e *Executor) error {
		e.skipExisting = skip
		return nil
	}
}

// WithRetainThreshold sets the importance at or above which records are
// flagged for permanent retention.
func WithRetainThreshold(threshold float64) Option {
	return func(e *Executor) error {
		if core.ValidateScore(threshold) != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRetainThreshold, threshold)
		}
		e.retainThreshold = threshold
		return nil
	}
}

// WithProgress reports per-item progress.
func WithProgress(p Progress) Option {
	return func(e *Executor) error {
		e.progress = p
		return nil
	}
}

// WithWaveHook observes wave starts and finishes.
func WithWaveHook(hook WaveHook) Option {
	return func(e *Executor) error {
		e.hook = hook
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewExecutor creates an executor that migrates into store.
func NewExecutor(store storage.DocumentStore, opts ...Option) (*Executor, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	e := &Executor{
		store:           store,
		concurrency:     DefaultConcurrency,
		timeout:         DefaultItemTimeout,
		retainThreshold: DefaultRetainThreshold,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	if e.skipExisting {
		index, ok := store.(storage.ChecksumIndex)
		if !ok {
			return nil, ErrChecksumIndexRequired
		}
		e.index = index
	}
	e.logger = e.logger.With("component", "migration")
	return e, nil
}

// State returns the current run state.
func (e *Executor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Executor) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
	e.logger.Debug("run state", "state", s.String())
}

// ExecuteAll runs every batch and returns one result per executed batch,
// in input order. Batches not scheduled because ctx was cancelled have no
// result. ExecuteAll never fails as a whole: every problem is recorded in
// the results.
func (e *Executor) ExecuteAll(ctx context.Context, batches []*core.Batch) []*core.MigrationResult {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	e.mu.Lock()
	e.state = State{Phase: PhasePending}
	e.claimed = make(map[core.ItemID]string)
	e.mu.Unlock()

	results := make([]*core.MigrationResult, len(batches))

	if e.progress != nil {
		total := 0
		for _, b := range batches {
			total += len(b.Items)
		}
		e.progress.Start(total)
		defer e.progress.Finish()
	}

	waves := make(map[core.Tier][]int, len(core.Tiers))
	for i, b := range batches {
		if core.ValidateTier(b.Tier) != nil {
			results[i] = e.rejectBatch(b)
			continue
		}
		waves[b.Tier] = append(waves[b.Tier], i)
	}

	for _, tier := range core.Tiers {
		wave := waves[tier]
		if len(wave) == 0 {
			continue
		}
		if ctx.Err() != nil {
			e.logger.Warn("run cancelled, skipping wave", "tier", tier, "batches", len(wave))
			continue
		}
		e.runWave(ctx, tier, wave, batches, results)
	}

	e.setState(State{Phase: PhaseDone})

	executed := make([]*core.MigrationResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			executed = append(executed, r)
		}
	}
	return executed
}

// runWave executes one tier under the concurrency gate and returns when
// every batch it scheduled has finished.
func (e *Executor) runWave(ctx context.Context, tier core.Tier, wave []int, batches []*core.Batch, results []*core.MigrationResult) {
	e.setState(State{Phase: PhaseRunning, Wave: tier})
	e.logger.Info("wave started", "tier", tier, "batches", len(wave))
	if e.hook != nil {
		e.hook(WaveEvent{Tier: tier, Batches: len(wave)})
	}

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for _, idx := range wave {
		if ctx.Err() != nil {
			break
		}
		batch := batches[idx]
		g.Go(func() error {
			// Go may have blocked on the gate while the run was cancelled.
			if ctx.Err() != nil {
				return nil
			}
			results[idx] = e.executeBatch(ctx, batch)
			return nil
		})
	}
	_ = g.Wait()

	executed := 0
	for _, idx := range wave {
		if results[idx] != nil {
			executed++
		}
	}
	if ctx.Err() != nil && executed < len(wave) {
		e.logger.Warn("wave cancelled", "tier", tier, "executed", executed, "batches", len(wave))
	}
	e.logger.Info("wave finished", "tier", tier, "executed", executed)
	if e.hook != nil {
		e.hook(WaveEvent{Tier: tier, Finished: true, Batches: len(wave), Executed: executed})
	}
}

// executeBatch migrates the items of one batch sequentially.
func (e *Executor) executeBatch(ctx context.Context, batch *core.Batch) (result *core.MigrationResult) {
	result = &core.MigrationResult{
		BatchID:      batch.ID,
		Tier:         batch.Tier,
		TotalItems:   len(batch.Items),
		SucceededIDs: []core.ItemID{},
		StoreIDs:     make(map[core.ItemID]core.ID),
		Failures:     []core.ItemFailure{},
		StartedAt:    time.Now(),
	}
	logger := e.logger.With("batch", batch.ID, "tier", batch.Tier)

	current := 0
	defer func() {
		if p := recover(); p != nil {
			e.abortBatch(result, batch, current, fmt.Errorf("panic: %v", p), logger)
		}
		result.FinishedAt = time.Now()
		logger.Debug("batch finished",
			"success", result.SuccessCount, "failed", result.FailureCount,
			"skipped", result.SkipCount, "cancelled", result.CancelledCount)
	}()

	for current = 0; current < len(batch.Items); current++ {
		if ctx.Err() != nil {
			result.CancelledCount = len(batch.Items) - current
			logger.Warn("batch cancelled", "remaining", result.CancelledCount)
			return result
		}

		item := batch.Items[current]
		id, skipped, err := e.migrateItem(ctx, batch, item)
		switch {
		case errors.Is(err, errCancelled):
			result.CancelledCount = len(batch.Items) - current
			logger.Warn("batch cancelled", "remaining", result.CancelledCount)
			return result
		case err != nil && storage.IsSystemic(err):
			e.abortBatch(result, batch, current, err, logger)
			return result
		case err != nil:
			merr := &ItemMigrationError{ItemID: item.ID, Cause: err}
			result.FailureCount++
			result.Failures = append(result.Failures, core.ItemFailure{ItemID: item.ID, ErrorMessage: merr.Error()})
			logger.Warn("item migration failed", "item", item.ID, "path", item.SourcePath, "err", err)
		case skipped:
			result.SkipCount++
		default:
			result.SuccessCount++
			result.SucceededIDs = append(result.SucceededIDs, item.ID)
			result.StoreIDs[item.ID] = id
		}
		e.increment(1)
	}
	return result
}

// abortBatch marks the item at index from and everything after it as failed.
// Items claimed by another batch, and duplicates, count as skips.
func (e *Executor) abortBatch(result *core.MigrationResult, batch *core.Batch, from int, cause error, logger *slog.Logger) {
	berr := &BatchExecutionError{BatchID: batch.ID, Cause: cause}
	result.BatchError = berr.Error()
	failed := make(map[core.ItemID]bool)
	for _, item := range batch.Items[from:] {
		if item.IsDuplicate || failed[item.ID] || !e.own(item.ID, batch.ID) {
			result.SkipCount++
			continue
		}
		failed[item.ID] = true
		result.FailureCount++
		result.Failures = append(result.Failures, core.ItemFailure{ItemID: item.ID, ErrorMessage: berr.Error()})
	}
	e.increment(len(batch.Items) - from)
	logger.Error("batch aborted", "failed", len(failed), "err", cause)
}

// rejectBatch fails every item of a batch that cannot be scheduled.
func (e *Executor) rejectBatch(batch *core.Batch) *core.MigrationResult {
	now := time.Now()
	result := &core.MigrationResult{
		BatchID:      batch.ID,
		Tier:         batch.Tier,
		TotalItems:   len(batch.Items),
		SucceededIDs: []core.ItemID{},
		StoreIDs:     make(map[core.ItemID]core.ID),
		Failures:     []core.ItemFailure{},
		StartedAt:    now,
	}
	e.abortBatch(result, batch, 0, fmt.Errorf("%w: %d", ErrInvalidBatch, int(batch.Tier)), e.logger.With("batch", batch.ID))
	result.FinishedAt = now
	return result
}

// errCancelled marks an item that was not started because the run was
// cancelled while it waited for the rate limiter.
var errCancelled = errors.New("run cancelled")

// migrateItem migrates one item. It reports skipped items separately from
// failures.
func (e *Executor) migrateItem(ctx context.Context, batch *core.Batch, item *core.Item) (core.ID, bool, error) {
	if item.IsDuplicate {
		return 0, true, nil
	}
	if !e.claim(item.ID, batch.ID) {
		e.logger.Warn("item scheduled twice, skipping", "item", item.ID, "batch", batch.ID)
		return 0, true, nil
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return 0, false, errCancelled
			}
			return 0, false, err
		}
	}

	// In-flight calls outlive run cancellation but never the item timeout.
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	if e.index != nil {
		exists, err := e.index.HasChecksum(callCtx, item.Checksum)
		if err != nil {
			return 0, false, e.timeoutError(callCtx, fmt.Errorf("checksum lookup: %w", err))
		}
		if exists {
			e.logger.Debug("item already stored, skipping", "item", item.ID)
			return 0, true, nil
		}
	}

	id, err := e.store.CreateAndIndex(callCtx, NewRecord(item, batch.Tier, e.retainThreshold))
	if err != nil {
		return 0, false, e.timeoutError(callCtx, err)
	}
	return id, false, nil
}

func (e *Executor) timeoutError(callCtx context.Context, err error) error {
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %w", ErrItemTimeout, e.timeout, err)
	}
	return err
}

// claim records the first batch an item is scheduled in.
func (e *Executor) claim(id core.ItemID, batchID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.claimed[id]; ok {
		return false
	}
	e.claimed[id] = batchID
	return true
}

// own claims id for batchID, or reports whether batchID already holds it.
func (e *Executor) own(id core.ItemID, batchID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if holder, ok := e.claimed[id]; ok {
		return holder == batchID
	}
	e.claimed[id] = batchID
	return true
}

func (e *Executor) increment(n int) {
	if e.progress != nil && n > 0 {
		e.progress.Increment(n)
	}
}
