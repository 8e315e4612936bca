package planning

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/poiesic/corpora/core"
)

const (
	// DefaultBatchSize is the default number of items per batch.
	DefaultBatchSize = 50

	// DefaultHighThreshold is the minimum importance of a HIGH item.
	DefaultHighThreshold = 0.7

	// DefaultMediumThreshold is the minimum importance of a MEDIUM item.
	DefaultMediumThreshold = 0.4
)

// Default per-item migration estimates by tier.
const (
	DefaultHighEstimate   = 30 * time.Second
	DefaultMediumEstimate = 18 * time.Second
	DefaultLowEstimate    = 12 * time.Second
)

var (
	// ErrInvalidBatchSize indicates a batch size below 1.
	ErrInvalidBatchSize = errors.New("batch size must be positive")

	// ErrInvalidThresholds indicates tier thresholds that are not
	// 0 < medium < high <= 1.
	ErrInvalidThresholds = errors.New("tier thresholds must satisfy 0 < medium < high <= 1")

	// ErrInvalidEstimate indicates a negative per-item estimate.
	ErrInvalidEstimate = errors.New("per-item estimate cannot be negative")
)

// Planner builds batches.
type Planner struct {
	highThreshold   float64
	mediumThreshold float64
	estimates       map[core.Tier]time.Duration
}

// Option configures a Planner.
type Option func(*Planner) error

// WithTierThresholds sets the minimum importance scores of the HIGH and
// MEDIUM tiers.
func WithTierThresholds(high, medium float64) Option {
	return func(p *Planner) error {
		if math.IsNaN(high) || math.IsNaN(medium) || medium <= 0 || high <= medium || high > 1 {
			return fmt.Errorf("%w: high=%v medium=%v", ErrInvalidThresholds, high, medium)
		}
		p.highThreshold = high
		p.mediumThreshold = medium
		return nil
	}
}

// WithItemEstimates sets the per-item duration estimate of each tier.
func WithItemEstimates(high, medium, low time.Duration) Option {
	return func(p *Planner) error {
		if high < 0 || medium < 0 || low < 0 {
			return ErrInvalidEstimate
		}
		p.estimates = map[core.Tier]time.Duration{
			core.TierHigh:   high,
			core.TierMedium: medium,
			core.TierLow:    low,
		}
		return nil
	}
}

// NewPlanner creates a planner with the default thresholds and estimates.
func NewPlanner(opts ...Option) (*Planner, error) {
	p := &Planner{
		highThreshold:   DefaultHighThreshold,
		mediumThreshold: DefaultMediumThreshold,
		estimates: map[core.Tier]time.Duration{
			core.TierHigh:   DefaultHighEstimate,
			core.TierMedium: DefaultMediumEstimate,
			core.TierLow:    DefaultLowEstimate,
		},
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// TierOf assigns a tier from an importance score.
func (p *Planner) TierOf(importance float64) core.Tier {
	switch {
	case importance >= p.highThreshold:
		return core.TierHigh
	case importance >= p.mediumThreshold:
		return core.TierMedium
	default:
		return core.TierLow
	}
}

// Plan partitions the non-duplicate items into batches of at most
// batchSize items. Batch IDs are "<tier>_<sequence>", e.g. "high_001",
// with sequences starting at 1 in every tier.
func (p *Planner) Plan(items []*core.Item, batchSize int) ([]*core.Batch, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBatchSize, batchSize)
	}

	byTier := make(map[core.Tier][]*core.Item, len(core.Tiers))
	for _, item := range items {
		if item == nil || item.IsDuplicate {
			continue
		}
		tier := p.TierOf(item.ImportanceScore)
		byTier[tier] = append(byTier[tier], item)
	}

	var batches []*core.Batch
	for _, tier := range core.Tiers {
		tierItems := byTier[tier]
		perItem := int(p.estimates[tier] / time.Second)
		for seq, start := 1, 0; start < len(tierItems); seq, start = seq+1, start+batchSize {
			end := min(start+batchSize, len(tierItems))
			chunk := make([]*core.Item, end-start)
			copy(chunk, tierItems[start:end])

			batches = append(batches, &core.Batch{
				ID:                       fmt.Sprintf("%s_%03d", tier, seq),
				Items:                    chunk,
				Tier:                     tier,
				EstimatedDurationSeconds: len(chunk) * perItem,
			})
		}
	}
	return batches, nil
}

// Plan partitions items with the default thresholds and estimates.
func Plan(items []*core.Item, batchSize int) ([]*core.Batch, error) {
	p, err := NewPlanner()
	if err != nil {
		return nil, err
	}
	return p.Plan(items, batchSize)
}
