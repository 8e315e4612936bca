package dedupe

import (
	"log/slog"
	"math"
	"sort"

	"github.com/poiesic/corpora/core"
)

// DefaultThreshold is the default near-duplicate similarity threshold.
const DefaultThreshold = 0.8

// Detector marks duplicate items.
type Detector struct {
	threshold float64
	logger    *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector) error

// WithThreshold sets the near-duplicate threshold. A pair is a near
// duplicate only when its similarity is strictly greater than it.
func WithThreshold(threshold float64) Option {
	return func(d *Detector) error {
		if math.IsNaN(threshold) || threshold <= 0 || threshold > 1 {
			return ErrInvalidThreshold
		}
		d.threshold = threshold
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
		return nil
	}
}

// NewDetector creates a detector.
func NewDetector(opts ...Option) (*Detector, error) {
	d := &Detector{
		threshold: DefaultThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	d.logger = d.logger.With("component", "dedupe")
	return d, nil
}

// Threshold returns the near-duplicate threshold.
func (d *Detector) Threshold() float64 {
	return d.threshold
}

// Detect sets the duplicate fields of every item and returns the same slice.
// Any duplicate fields already set are recomputed from scratch, so calling
// Detect twice gives the same result.
//
// A malformed item fails the whole call with a *DuplicateResolutionError and
// leaves every item untouched.
func (d *Detector) Detect(items []*core.Item) ([]*core.Item, error) {
	if err := validate(items); err != nil {
		return nil, err
	}

	for _, item := range items {
		item.IsDuplicate = false
		item.MergeTargetID = ""
		item.SimilarItemIDs = nil
	}
	byID := make(map[core.ItemID]*core.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	exact := d.markExact(items)
	near := d.markNear(items, byID)
	resolve(items, byID)

	d.logger.Info("duplicate detection complete",
		"items", len(items), "exact", exact, "near", near, "threshold", d.threshold)
	return items, nil
}

// markExact groups items by checksum and marks every non-primary member.
func (d *Detector) markExact(items []*core.Item) int {
	groups := make(map[string][]*core.Item)
	var order []string
	for _, item := range items {
		if _, ok := groups[item.Checksum]; !ok {
			order = append(order, item.Checksum)
		}
		groups[item.Checksum] = append(groups[item.Checksum], item)
	}

	marked := 0
	for _, checksum := range order {
		group := groups[checksum]
		if len(group) < 2 {
			continue
		}
		ranked := make([]*core.Item, len(group))
		copy(ranked, group)
		sort.SliceStable(ranked, func(i, j int) bool {
			return outranks(ranked[i], ranked[j])
		})

		primary := ranked[0]
		for _, dup := range ranked[1:] {
			markDuplicate(dup, primary)
			marked++
		}
		d.logger.Debug("exact duplicate group", "primary", primary.ID, "size", len(group))
	}
	return marked
}

// markNear compares every pair whose source is not yet a duplicate.
// A duplicate may still be compared against; when it wins, the loser is
// merged into the duplicate's own primary.
func (d *Detector) markNear(items []*core.Item, byID map[core.ItemID]*core.Item) int {
	sets := make([]tokenSet, len(items))
	for i, item := range items {
		sets[i] = newTokenSet(item.Content())
	}

	marked := 0
	for i := 0; i < len(items); i++ {
		a := items[i]
		if a.IsDuplicate {
			continue
		}
		for j := i + 1; j < len(items); j++ {
			b := items[j]
			if upperBound(sets[i], sets[j]) <= d.threshold {
				continue
			}
			sim := jaccard(sets[i], sets[j])
			if sim <= d.threshold {
				continue
			}

			if b.IsDuplicate {
				if !outranks(b, a) {
					continue
				}
				markDuplicate(a, root(b, byID))
			} else if outranks(a, b) {
				markDuplicate(b, a)
			} else {
				markDuplicate(a, b)
			}
			marked++
			d.logger.Debug("near duplicate", "a", a.ID, "b", b.ID, "similarity", sim)

			if a.IsDuplicate {
				break
			}
		}
	}
	return marked
}

// resolve points every duplicate at its root primary and rebuilds the
// primaries' similar ID lists in discovery order.
func resolve(items []*core.Item, byID map[core.ItemID]*core.Item) {
	for _, item := range items {
		if item.IsDuplicate {
			item.MergeTargetID = root(item, byID).ID
		}
	}
	for _, item := range items {
		if item.IsDuplicate {
			primary := byID[item.MergeTargetID]
			primary.SimilarItemIDs = append(primary.SimilarItemIDs, item.ID)
		}
	}
}

// root follows merge targets until it reaches an item that is not a
// duplicate. Targets only ever point at items that were primaries when
// marked, so the chain has no cycles; the step bound guards that invariant.
func root(item *core.Item, byID map[core.ItemID]*core.Item) *core.Item {
	current := item
	for steps := 0; current.IsDuplicate && steps <= len(byID); steps++ {
		next, ok := byID[current.MergeTargetID]
		if !ok {
			break
		}
		current = next
	}
	return current
}

func markDuplicate(dup, primary *core.Item) {
	dup.IsDuplicate = true
	dup.MergeTargetID = primary.ID
}

// outranks reports whether a takes precedence over b as a primary.
func outranks(a, b *core.Item) bool {
	if a.ImportanceScore != b.ImportanceScore {
		return a.ImportanceScore > b.ImportanceScore
	}
	if a.SizeBytes != b.SizeBytes {
		return a.SizeBytes > b.SizeBytes
	}
	return a.ID < b.ID
}

func validate(items []*core.Item) error {
	seen := make(map[core.ItemID]bool, len(items))
	for i, item := range items {
		if item == nil {
			return &DuplicateResolutionError{Index: i, Cause: ErrNilItem}
		}
		if item.ID == "" {
			return &DuplicateResolutionError{Index: i, Cause: ErrMissingID}
		}
		if seen[item.ID] {
			return &DuplicateResolutionError{ItemID: item.ID, Index: i, Cause: ErrDuplicateID}
		}
		seen[item.ID] = true
		if item.Checksum == "" {
			return &DuplicateResolutionError{ItemID: item.ID, Index: i, Cause: ErrMissingChecksum}
		}
		if core.ValidateScore(item.ImportanceScore) != nil {
			return &DuplicateResolutionError{ItemID: item.ID, Index: i, Cause: ErrInvalidImportance}
		}
	}
	return nil
}

// CountDuplicates returns how many items are marked as duplicates.
func CountDuplicates(items []*core.Item) int {
	n := 0
	for _, item := range items {
		if item.IsDuplicate {
			n++
		}
	}
	return n
}
