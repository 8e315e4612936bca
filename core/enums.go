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
	"strings"
)

// Category is the domain taxonomy an item is classified into.
type Category int

const (
	// CategoryGeneral is assigned when no category keyword matches.
	CategoryGeneral Category = iota
	// CategorySecurity covers authentication, secrets and hardening content.
	CategorySecurity
	// CategoryInfrastructure covers servers, networks, clusters and provisioning.
	CategoryInfrastructure
	// CategoryOperations covers monitoring, incidents, backups and on-call work.
	CategoryOperations
	// CategoryDevelopment covers source code, APIs, builds and testing.
	CategoryDevelopment
	// CategoryData covers databases, schemas, pipelines and analytics.
	CategoryData
)

// Categories lists every category in tie-break priority order.
// When two categories score equally, the one listed first wins.
var Categories = []Category{
	CategorySecurity,
	CategoryInfrastructure,
	CategoryOperations,
	CategoryDevelopment,
	CategoryData,
	CategoryGeneral,
}

var categoryNames = map[Category]string{
	CategoryGeneral:        "general",
	CategorySecurity:       "security",
	CategoryInfrastructure: "infrastructure",
	CategoryOperations:     "operations",
	CategoryDevelopment:    "development",
	CategoryData:           "data",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	if _, ok := categoryNames[c]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCategory, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory converts a category name into a Category.
func ParseCategory(name string) (Category, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}
	return CategoryGeneral, fmt.Errorf("%w: %q", ErrInvalidCategory, name)
}

// Kind describes the shape of an item's content.
type Kind int

const (
	// KindKnowledge is the fallback kind for descriptive content.
	KindKnowledge Kind = iota
	// KindGuide is tutorial or how-to content.
	KindGuide
	// KindProcedure is step-by-step operational content such as runbooks.
	KindProcedure
	// KindConfig is configuration content or configuration documentation.
	KindConfig
	// KindReference is API or specification style reference content.
	KindReference
)

// Kinds lists every kind in tie-break priority order.
var Kinds = []Kind{
	KindProcedure,
	KindGuide,
	KindConfig,
	KindReference,
	KindKnowledge,
}

var kindNames = map[Kind]string{
	KindKnowledge: "knowledge",
	KindGuide:     "guide",
	KindProcedure: "procedure",
	KindConfig:    "config",
	KindReference: "reference",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind converts a kind name into a Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindKnowledge, fmt.Errorf("%w: %q", ErrInvalidKind, name)
}

// Tier is the priority tier that drives batch grouping and wave order.
type Tier int

const (
	// TierHigh items migrate in the first wave.
	TierHigh Tier = iota + 1
	// TierMedium items migrate in the second wave.
	TierMedium
	// TierLow items migrate in the last wave.
	TierLow
)

// Tiers lists the tiers in wave execution order.
var Tiers = []Tier{TierHigh, TierMedium, TierLow}

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	case TierLow:
		return "low"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// MarshalText encodes the tier in upper case, e.g. "HIGH".
func (t Tier) MarshalText() ([]byte, error) {
	if err := ValidateTier(t); err != nil {
		return nil, err
	}
	return []byte(strings.ToUpper(t.String())), nil
}

// UnmarshalText decodes a tier name in any case.
func (t *Tier) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "high":
		*t = TierHigh
	case "medium":
		*t = TierMedium
	case "low":
		*t = TierLow
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTier, string(text))
	}
	return nil
}
