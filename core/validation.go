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

import (
	"fmt"
	"math"
)

// ValidateRecord validates a Record according to domain rules.
//
// Validation rules:
//   - ItemID, Checksum and Content must not be empty
//   - Category, Kind and Tier must be known values
//   - Priority must be between 1 and 10
//   - Scores must be within [0,1]
//
// NOT validated:
//   - Tags and Aliases (may be empty)
//   - Title (derived from the path when the content has no heading)
func ValidateRecord(record *Record) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if record.ItemID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyItemID)
	}

	if record.Checksum == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyChecksum)
	}

	if record.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyContent)
	}

	if err := ValidateCategory(record.Category); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	if err := ValidateKind(record.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	if err := ValidateTier(record.Tier); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	if record.Priority < 1 || record.Priority > 10 {
		return fmt.Errorf("%w: %w: %d", ErrInvalidRecord, ErrInvalidPriority, record.Priority)
	}

	for name, score := range map[string]float64{
		"quality":    record.Quality,
		"complexity": record.Complexity,
		"importance": record.Importance,
	} {
		if err := ValidateScore(score); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidRecord, name, err)
		}
	}

	return nil
}

// ValidateCategory validates that a Category has a known value.
func ValidateCategory(c Category) error {
	if _, ok := categoryNames[c]; !ok {
		return fmt.Errorf("%w: value %d", ErrInvalidCategory, c)
	}
	return nil
}

// ValidateKind validates that a Kind has a known value.
func ValidateKind(k Kind) error {
	if _, ok := kindNames[k]; !ok {
		return fmt.Errorf("%w: value %d", ErrInvalidKind, k)
	}
	return nil
}

// ValidateTier validates that a Tier has a known value.
func ValidateTier(t Tier) error {
	if t != TierHigh && t != TierMedium && t != TierLow {
		return fmt.Errorf("%w: value %d", ErrInvalidTier, t)
	}
	return nil
}

// ValidateScore checks that a score is a number within [0,1].
func ValidateScore(score float64) error {
	if math.IsNaN(score) || score < 0 || score > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidScore, score)
	}
	return nil
}

// Clamp01 clips a value to [0,1]. NaN becomes 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
