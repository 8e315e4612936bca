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


package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/poiesic/corpora/ai"
)

const (
	DefaultBatchSize            = 50
	DefaultAnalysisConcurrency  = 10
	DefaultMigrationConcurrency = 5
	DefaultSimilarityThreshold  = 0.8
	DefaultPerItemTimeout       = 30 * time.Second
	DefaultStoreBurst           = 1
	DefaultHighThreshold        = 0.7
	DefaultMediumThreshold      = 0.4
	DefaultHighEstimate         = 30 * time.Second
	DefaultMediumEstimate       = 18 * time.Second
	DefaultLowEstimate          = 12 * time.Second
	DefaultRetainThreshold      = 0.8
)

// ErrInvalidConfig is wrapped by every validation problem.
var ErrInvalidConfig = errors.New("invalid configuration")

// Duration is a time.Duration that reads and writes as a string like "30s".
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Tiers holds the importance thresholds and per-item estimates of the planner.
type Tiers struct {
	HighThreshold   float64  `toml:"high_threshold"`
	MediumThreshold float64  `toml:"medium_threshold"`
	HighEstimate    Duration `toml:"high_estimate"`
	MediumEstimate  Duration `toml:"medium_estimate"`
	LowEstimate     Duration `toml:"low_estimate"`
}

// Source describes where documents are discovered.
type Source struct {
	Root    string   `toml:"root"`
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

// Embedding mirrors ai.Config in the configuration file.
type Embedding struct {
	Host  string `toml:"host"`
	Model string `toml:"model"`
	Token string `toml:"token"`
}

// Config holds every tunable of a run.
type Config struct {
	BatchSize                    int       `toml:"batch_size"`
	AnalysisConcurrency          int       `toml:"analysis_concurrency"`
	MigrationConcurrency         int       `toml:"migration_concurrency"`
	DuplicateSimilarityThreshold float64   `toml:"duplicate_similarity_threshold"`
	PerItemTimeout               Duration  `toml:"per_item_timeout"`
	StoreRateLimit               float64   `toml:"store_rate_limit"` // requests per second, 0 is unlimited
	StoreBurst                   int       `toml:"store_burst"`
	SkipExisting                 bool      `toml:"skip_existing"`
	RetainThreshold              float64   `toml:"retain_threshold"`
	Tiers                        Tiers     `toml:"tiers"`
	Source                       Source    `toml:"source"`
	Embedding                    Embedding `toml:"embedding"`
	DatabasePath                 string    `toml:"database"`
	ReportPath                   string    `toml:"report"`
}

// Option adjusts a Config.
type Option func(*Config)

// WithBatchSize sets the maximum number of items per batch.
func WithBatchSize(n int) Option {
	return func(c *Config) {
		c.BatchSize = n
	}
}

// WithAnalysisConcurrency sets the analysis fan-out bound.
func WithAnalysisConcurrency(n int) Option {
	return func(c *Config) {
		c.AnalysisConcurrency = n
	}
}

// WithMigrationConcurrency sets the number of concurrent batches per wave.
func WithMigrationConcurrency(n int) Option {
	return func(c *Config) {
		c.MigrationConcurrency = n
	}
}

// WithSimilarityThreshold sets the near-duplicate Jaccard threshold.
func WithSimilarityThreshold(threshold float64) Option {
	return func(c *Config) {
		c.DuplicateSimilarityThreshold = threshold
	}
}

// WithPerItemTimeout sets the timeout of each store call.
func WithPerItemTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.PerItemTimeout = Duration(d)
	}
}

// WithStoreRateLimit throttles store calls. Zero disables throttling.
func WithStoreRateLimit(rps float64, burst int) Option {
	return func(c *Config) {
		c.StoreRateLimit = rps
		c.StoreBurst = burst
	}
}

// WithSkipExisting skips items whose checksum is already stored.
func WithSkipExisting(skip bool) Option {
	return func(c *Config) {
		c.SkipExisting = skip
	}
}

// WithRetainThreshold sets the importance at which records are retained.
func WithRetainThreshold(threshold float64) Option {
	return func(c *Config) {
		c.RetainThreshold = threshold
	}
}

// WithTierThresholds sets the HIGH and MEDIUM importance thresholds.
func WithTierThresholds(high, medium float64) Option {
	return func(c *Config) {
		c.Tiers.HighThreshold = high
		c.Tiers.MediumThreshold = medium
	}
}

// WithSource sets the source root and its glob filters. Nil filters keep
// the current values.
func WithSource(root string, include, exclude []string) Option {
	return func(c *Config) {
		c.Source.Root = root
		if include != nil {
			c.Source.Include = include
		}
		if exclude != nil {
			c.Source.Exclude = exclude
		}
	}
}

// WithEmbedding sets the embedding service. Empty values keep the current ones.
func WithEmbedding(host, model string) Option {
	return func(c *Config) {
		if host != "" {
			c.Embedding.Host = host
		}
		if model != "" {
			c.Embedding.Model = model
		}
	}
}

// WithDatabasePath sets the badger directory.
func WithDatabasePath(path string) Option {
	return func(c *Config) {
		c.DatabasePath = path
	}
}

// WithReportPath sets where the JSON report is written.
func WithReportPath(path string) Option {
	return func(c *Config) {
		c.ReportPath = path
	}
}

// Default returns a Config populated with the default values.
func Default() *Config {
	embedding := ai.DefaultConfig()
	return &Config{
		BatchSize:                    DefaultBatchSize,
		AnalysisConcurrency:          DefaultAnalysisConcurrency,
		MigrationConcurrency:         DefaultMigrationConcurrency,
		DuplicateSimilarityThreshold: DefaultSimilarityThreshold,
		PerItemTimeout:               Duration(DefaultPerItemTimeout),
		StoreBurst:                   DefaultStoreBurst,
		RetainThreshold:              DefaultRetainThreshold,
		Tiers: Tiers{
			HighThreshold:   DefaultHighThreshold,
			MediumThreshold: DefaultMediumThreshold,
			HighEstimate:    Duration(DefaultHighEstimate),
			MediumEstimate:  Duration(DefaultMediumEstimate),
			LowEstimate:     Duration(DefaultLowEstimate),
		},
		Embedding: Embedding{
			Host:  embedding.EmbeddingHost,
			Model: embedding.EmbeddingModel,
			Token: embedding.Token,
		},
	}
}

// New returns the default Config with opts applied.
func New(opts ...Option) *Config {
	cfg := Default()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// AI returns the embedding settings as an ai.Config.
func (c *Config) AI() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.Embedding.Host),
		ai.WithEmbeddingModel(c.Embedding.Model),
		ai.WithToken(c.Embedding.Token),
	)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.BatchSize <= 0 {
		invalid("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.AnalysisConcurrency < 1 {
		invalid("analysis_concurrency must be at least 1, got %d", c.AnalysisConcurrency)
	}
	if c.MigrationConcurrency < 1 {
		invalid("migration_concurrency must be at least 1, got %d", c.MigrationConcurrency)
	}
	if !inUnitInterval(c.DuplicateSimilarityThreshold) {
		invalid("duplicate_similarity_threshold must be in (0, 1], got %v", c.DuplicateSimilarityThreshold)
	}
	if c.PerItemTimeout <= 0 {
		invalid("per_item_timeout must be positive, got %s", c.PerItemTimeout.Std())
	}
	if math.IsNaN(c.StoreRateLimit) || c.StoreRateLimit < 0 {
		invalid("store_rate_limit must not be negative, got %v", c.StoreRateLimit)
	}
	if c.StoreRateLimit > 0 && c.StoreBurst < 1 {
		invalid("store_burst must be at least 1, got %d", c.StoreBurst)
	}
	if !inUnitInterval(c.RetainThreshold) {
		invalid("retain_threshold must be in (0, 1], got %v", c.RetainThreshold)
	}
	if !inUnitInterval(c.Tiers.HighThreshold) {
		invalid("tiers.high_threshold must be in (0, 1], got %v", c.Tiers.HighThreshold)
	}
	if !inUnitInterval(c.Tiers.MediumThreshold) {
		invalid("tiers.medium_threshold must be in (0, 1], got %v", c.Tiers.MediumThreshold)
	}
	if c.Tiers.HighThreshold <= c.Tiers.MediumThreshold {
		invalid("tiers.high_threshold (%v) must exceed tiers.medium_threshold (%v)",
			c.Tiers.HighThreshold, c.Tiers.MediumThreshold)
	}
	if c.Tiers.HighEstimate <= 0 || c.Tiers.MediumEstimate <= 0 || c.Tiers.LowEstimate <= 0 {
		invalid("tier estimates must be positive")
	}

	return errors.Join(errs...)
}

func inUnitInterval(v float64) bool {
	return !math.IsNaN(v) && v > 0 && v <= 1
}
