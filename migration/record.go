package migration

import (
	"math"
	"slices"

	"github.com/poiesic/corpora/core"
)

// DefaultRetainThreshold is the importance at or above which a record is
// retained permanently.
const DefaultRetainThreshold = 0.8

// NewRecord normalizes an item into the record handed to the store.
// Priority is ceil(importance*10) clamped to 1..10.
func NewRecord(item *core.Item, tier core.Tier, retainThreshold float64) *core.Record {
	priority := int(math.Ceil(core.Clamp01(item.ImportanceScore) * 10))
	priority = max(1, min(priority, 10))

	return &core.Record{
		ItemID:     item.ID,
		SourcePath: item.SourcePath,
		Title:      item.Title,
		Content:    item.Content(),
		Checksum:   item.Checksum,
		Category:   item.Category,
		Kind:       item.Kind,
		Tags:       slices.Clone(item.Tags),
		Tier:       tier,
		Priority:   priority,
		Retain:     item.ImportanceScore >= retainThreshold,
		Quality:    item.QualityScore,
		Complexity: item.ComplexityScore,
		Importance: item.ImportanceScore,
		Aliases:    slices.Clone(item.SimilarItemIDs),
	}
}
