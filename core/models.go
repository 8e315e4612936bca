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

// Item represents a single analyzed content unit from the source corpus.
// Items are created by the analyzer and are immutable afterwards, except for
// the duplicate fields which the duplicate detector sets.
type Item struct {
	ID              ItemID   `json:"id"`
	SourcePath      string   `json:"sourcePath"`
	RawContent      []byte   `json:"-"`
	SizeBytes       int64    `json:"sizeBytes"`
	Checksum        string   `json:"checksum"` // BLAKE2b-256 over RawContent
	Title           string   `json:"title"`
	Category        Category `json:"classificationCategory"`
	Kind            Kind     `json:"itemKind"`
	Tags            []string `json:"tags"`
	QualityScore    float64  `json:"qualityScore"`
	ComplexityScore float64  `json:"complexityScore"`
	ImportanceScore float64  `json:"importanceScore"`

	// Populated by the duplicate detector
	IsDuplicate    bool     `json:"isDuplicate"`
	MergeTargetID  ItemID   `json:"mergeTargetId,omitempty"` // empty unless IsDuplicate
	SimilarItemIDs []ItemID `json:"similarItemIds,omitempty"`
}

// Content returns the raw content as text.
func (i *Item) Content() string {
	return string(i.RawContent)
}

// HasMergeTarget reports whether the item points at a primary.
func (i *Item) HasMergeTarget() bool {
	return i.MergeTargetID != ""
}

// Batch is an ordered group of non-duplicate items from a single tier.
// Batches are immutable once planned and are consumed exactly once.
type Batch struct {
	ID                       string  `json:"id"`
	Items                    []*Item `json:"items"`
	Tier                     Tier    `json:"priorityTier"`
	EstimatedDurationSeconds int     `json:"estimatedDurationSeconds"`
}

// Record is the normalized form of an item handed to the document store.
type Record struct {
	ItemID     ItemID   `json:"itemId"`
	SourcePath string   `json:"sourcePath"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Checksum   string   `json:"checksum"`
	Category   Category `json:"category"`
	Kind       Kind     `json:"kind"`
	Tags       []string `json:"tags"`
	Tier       Tier     `json:"tier"`
	Priority   int      `json:"priority"` // 1-10, derived from importance
	Retain     bool     `json:"retain"`   // never expire from the store
	Quality    float64  `json:"quality"`
	Complexity float64  `json:"complexity"`
	Importance float64  `json:"importance"`
	Aliases    []ItemID `json:"aliases,omitempty"` // items merged into this one
}

// Document is a record as persisted by the document store.
type Document struct {
	ID         ID        `json:"id"`
	Record     Record    `json:"record"`
	Vector     []float32 `json:"vector"` // Normalized embedding of Record.Content
	InsertedAt time.Time `json:"insertedAt"`
}

// SearchResult is a stored document matched by vector similarity.
type SearchResult struct {
	Document *Document `json:"document"`
	Score    float32   `json:"score"`
}
