package main

import (
	"encoding/json"
	"io"

	"github.com/poiesic/corpora"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/planning"
)

type planItem struct {
	ID         core.ItemID `json:"id"`
	Path       string      `json:"path"`
	Category   string      `json:"category"`
	Kind       string      `json:"kind"`
	Importance float64     `json:"importance"`
}

type planBatch struct {
	ID                       string     `json:"id"`
	Tier                     core.Tier  `json:"priorityTier"`
	EstimatedDurationSeconds int        `json:"estimatedDurationSeconds"`
	Items                    []planItem `json:"items"`
}

type planDuplicate struct {
	ID            core.ItemID `json:"id"`
	Path          string      `json:"path"`
	MergeTargetID core.ItemID `json:"mergeTargetId"`
}

type planView struct {
	Discovered       int                    `json:"discovered"`
	Analyzed         int                    `json:"analyzed"`
	AnalysisFailures []core.AnalysisFailure `json:"analysisFailures"`
	Duplicates       []planDuplicate        `json:"duplicates"`
	Summary          planning.Summary       `json:"summary"`
	Batches          []planBatch            `json:"batches"`
}

// writePlan prints the plan without item contents.
func writePlan(w io.Writer, plan *corpora.Plan) error {
	view := planView{
		Discovered:       plan.Discovered,
		Analyzed:         len(plan.Items),
		AnalysisFailures: plan.AnalysisFailures,
		Duplicates:       []planDuplicate{},
		Summary:          plan.Summary,
		Batches:          make([]planBatch, 0, len(plan.Batches)),
	}
	for _, item := range plan.Items {
		if item.IsDuplicate {
			view.Duplicates = append(view.Duplicates, planDuplicate{
				ID:            item.ID,
				Path:          item.SourcePath,
				MergeTargetID: item.MergeTargetID,
			})
		}
	}
	for _, b := range plan.Batches {
		pb := planBatch{ID: b.ID, Tier: b.Tier, EstimatedDurationSeconds: b.EstimatedDurationSeconds}
		for _, item := range b.Items {
			pb.Items = append(pb.Items, planItem{
				ID:         item.ID,
				Path:       item.SourcePath,
				Category:   item.Category.String(),
				Kind:       item.Kind.String(),
				Importance: item.ImportanceScore,
			})
		}
		view.Batches = append(view.Batches, pb)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}
