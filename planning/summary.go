package planning

import "github.com/poiesic/corpora/core"

// TierPlan summarizes the batches of one tier.
type TierPlan struct {
	Tier                     core.Tier `json:"priorityTier"`
	Batches                  int       `json:"batches"`
	Items                    int       `json:"items"`
	EstimatedDurationSeconds int       `json:"estimatedDurationSeconds"`
	BatchIDs                 []string  `json:"batchIds"`
}

// Summary describes a complete plan.
type Summary struct {
	Batches                  int        `json:"batches"`
	Items                    int        `json:"items"`
	EstimatedDurationSeconds int        `json:"estimatedDurationSeconds"`
	Tiers                    []TierPlan `json:"tiers"`
}

// Summarize aggregates batches per tier, in wave order. Tiers without
// batches are omitted.
func Summarize(batches []*core.Batch) Summary {
	var s Summary
	for _, tier := range core.Tiers {
		tp := TierPlan{Tier: tier}
		for _, b := range batches {
			if b.Tier != tier {
				continue
			}
			tp.Batches++
			tp.Items += len(b.Items)
			tp.EstimatedDurationSeconds += b.EstimatedDurationSeconds
			tp.BatchIDs = append(tp.BatchIDs, b.ID)
		}
		if tp.Batches == 0 {
			continue
		}
		s.Batches += tp.Batches
		s.Items += tp.Items
		s.EstimatedDurationSeconds += tp.EstimatedDurationSeconds
		s.Tiers = append(s.Tiers, tp)
	}
	return s
}
