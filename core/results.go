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


package core

import "time"

// ItemFailure records why a single item could not be migrated.
type ItemFailure struct {
	ItemID       ItemID `json:"itemId"`
	ErrorMessage string `json:"errorMessage"`
}

// MigrationResult is the outcome of executing one batch.
// It is produced by the executor and never mutated after creation.
type MigrationResult struct {
	BatchID        string        `json:"batchId"`
	Tier           Tier          `json:"priorityTier"`
	TotalItems     int           `json:"totalItems"`
	SuccessCount   int           `json:"successCount"`
	FailureCount   int           `json:"failureCount"`
	SkipCount      int           `json:"skipCount"`
	CancelledCount int           `json:"cancelledCount"` // items never reached because the run was cancelled
	SucceededIDs   []ItemID      `json:"succeededIds"`
	StoreIDs       map[ItemID]ID `json:"storeIds,omitempty"`
	Failures       []ItemFailure `json:"failures"`
	BatchError     string        `json:"batchError,omitempty"` // set when a systemic failure aborted the batch
	StartedAt      time.Time     `json:"startedAt"`
	FinishedAt     time.Time     `json:"finishedAt"`
}

// Duration returns the wall-clock time the batch took.
func (r *MigrationResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// BatchFailure surfaces a systemic batch failure in the corpus report.
type BatchFailure struct {
	BatchID      string `json:"batchId"`
	ErrorMessage string `json:"errorMessage"`
}

// AnalysisFailure surfaces an item that could not be analyzed.
type AnalysisFailure struct {
	Path         string `json:"path"`
	ErrorMessage string `json:"errorMessage"`
}

// TierSummary breaks report counters down by tier.
type TierSummary struct {
	Batches      int `json:"batches"`
	Items        int `json:"items"`
	SuccessCount int `json:"successCount"`
	FailureCount int `json:"failureCount"`
	SkipCount    int `json:"skipCount"`
}

// CorpusReport aggregates a full run. It is created once, at the end of a run.
type CorpusReport struct {
	RunID              string               `json:"runId"`
	TotalDiscovered    int                  `json:"totalDiscovered"`
	TotalAnalyzed      int                  `json:"totalAnalyzed"`
	DuplicatesDetected int                  `json:"duplicatesDetected"`
	BatchesPlanned     int                  `json:"batchesPlanned"`
	BatchesExecuted    int                  `json:"batchesExecuted"`
	TotalItems         int                  `json:"totalItems"`
	SuccessCount       int                  `json:"successCount"`
	FailureCount       int                  `json:"failureCount"`
	SkipCount          int                  `json:"skipCount"`
	CancelledCount     int                  `json:"cancelledCount"`
	DurationSeconds    float64              `json:"durationSeconds"`
	Throughput         float64              `json:"throughput"` // successes per second
	StartedAt          time.Time            `json:"startedAt"`
	FinishedAt         time.Time            `json:"finishedAt"`
	Cancelled          bool                 `json:"cancelled"`
	Tiers              map[Tier]TierSummary `json:"tiers"`
	AnalysisFailures   []AnalysisFailure    `json:"analysisFailures"`
	BatchErrors        []BatchFailure       `json:"batchErrors"`
	Results            []*MigrationResult   `json:"results"`
}
