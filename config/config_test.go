package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 10, cfg.AnalysisConcurrency)
	assert.Equal(t, 5, cfg.MigrationConcurrency)
	assert.Equal(t, 0.8, cfg.DuplicateSimilarityThreshold)
	assert.Equal(t, 30*time.Second, cfg.PerItemTimeout.Std())
	assert.Equal(t, 0.0, cfg.StoreRateLimit)
	assert.False(t, cfg.SkipExisting)
	assert.Equal(t, 0.7, cfg.Tiers.HighThreshold)
	assert.Equal(t, 0.4, cfg.Tiers.MediumThreshold)
	assert.Equal(t, 30*time.Second, cfg.Tiers.HighEstimate.Std())
	assert.Equal(t, 18*time.Second, cfg.Tiers.MediumEstimate.Std())
	assert.Equal(t, 12*time.Second, cfg.Tiers.LowEstimate.Std())
	assert.Equal(t, "http://localhost:11434/v1", cfg.Embedding.Host)
	assert.NoError(t, cfg.Validate())
}

func TestNew_Options(t *testing.T) {
	cfg := New(
		WithBatchSize(10),
		WithAnalysisConcurrency(3),
		WithMigrationConcurrency(2),
		WithSimilarityThreshold(0.9),
		WithPerItemTimeout(time.Second),
		WithStoreRateLimit(20, 4),
		WithSkipExisting(true),
		WithRetainThreshold(0.95),
		WithTierThresholds(0.8, 0.5),
		WithSource("/docs", []string{"**/*.md"}, nil),
		WithEmbedding("http://embed:8080", ""),
		WithDatabasePath("/tmp/db"),
		WithReportPath("/tmp/report.json"),
	)

	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, 3, cfg.AnalysisConcurrency)
	assert.Equal(t, 2, cfg.MigrationConcurrency)
	assert.Equal(t, 0.9, cfg.DuplicateSimilarityThreshold)
	assert.Equal(t, time.Second, cfg.PerItemTimeout.Std())
	assert.Equal(t, 20.0, cfg.StoreRateLimit)
	assert.Equal(t, 4, cfg.StoreBurst)
	assert.True(t, cfg.SkipExisting)
	assert.Equal(t, 0.95, cfg.RetainThreshold)
	assert.Equal(t, 0.8, cfg.Tiers.HighThreshold)
	assert.Equal(t, 0.5, cfg.Tiers.MediumThreshold)
	assert.Equal(t, "/docs", cfg.Source.Root)
	assert.Equal(t, []string{"**/*.md"}, cfg.Source.Include)
	assert.Nil(t, cfg.Source.Exclude)
	assert.Equal(t, "http://embed:8080", cfg.Embedding.Host)
	assert.Equal(t, "embeddinggemma", cfg.Embedding.Model, "empty model keeps default")
	assert.Equal(t, "/tmp/db", cfg.DatabasePath)
	assert.Equal(t, "/tmp/report.json", cfg.ReportPath)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_AI(t *testing.T) {
	cfg := New(WithEmbedding("http://embed:8080", "nomic"))
	aiCfg := cfg.AI()

	require.NoError(t, aiCfg.Validate())
	assert.Equal(t, "http://embed:8080/v1", aiCfg.EmbeddingHost)
	assert.Equal(t, "nomic", aiCfg.EmbeddingModel)
	assert.Equal(t, "none", aiCfg.Token)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero batch size", WithBatchSize(0)},
		{"negative batch size", WithBatchSize(-1)},
		{"zero analysis concurrency", WithAnalysisConcurrency(0)},
		{"zero migration concurrency", WithMigrationConcurrency(0)},
		{"zero similarity threshold", WithSimilarityThreshold(0)},
		{"similarity threshold above one", WithSimilarityThreshold(1.5)},
		{"zero timeout", WithPerItemTimeout(0)},
		{"negative rate", WithStoreRateLimit(-1, 1)},
		{"rate without burst", WithStoreRateLimit(5, 0)},
		{"zero retain threshold", WithRetainThreshold(0)},
		{"inverted tier thresholds", WithTierThresholds(0.4, 0.7)},
		{"equal tier thresholds", WithTierThresholds(0.5, 0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.opt).Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestValidate_JoinsProblems(t *testing.T) {
	err := New(WithBatchSize(0), WithMigrationConcurrency(0)).Validate()
	require.Error(t, err)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok, "errors are joined")
	assert.Len(t, joined.Unwrap(), 2)
	assert.Contains(t, err.Error(), "batch_size")
	assert.Contains(t, err.Error(), "migration_concurrency")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpora.toml")
	content := `
batch_size = 25
migration_concurrency = 3
per_item_timeout = "5s"
skip_existing = true
database = "/var/lib/corpora"

[tiers]
high_threshold = 0.75
low_estimate = "10s"

[source]
root = "/srv/docs"
exclude = ["drafts/**"]

[embedding]
model = "text-embedding-3-small"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, 3, cfg.MigrationConcurrency)
	assert.Equal(t, 10, cfg.AnalysisConcurrency, "unset keys keep defaults")
	assert.Equal(t, 5*time.Second, cfg.PerItemTimeout.Std())
	assert.True(t, cfg.SkipExisting)
	assert.Equal(t, "/var/lib/corpora", cfg.DatabasePath)
	assert.Equal(t, 0.75, cfg.Tiers.HighThreshold)
	assert.Equal(t, 0.4, cfg.Tiers.MediumThreshold)
	assert.Equal(t, 10*time.Second, cfg.Tiers.LowEstimate.Std())
	assert.Equal(t, 30*time.Second, cfg.Tiers.HighEstimate.Std())
	assert.Equal(t, "/srv/docs", cfg.Source.Root)
	assert.Equal(t, []string{"drafts/**"}, cfg.Source.Exclude)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Embedding.Host)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpora.toml")
	require.NoError(t, os.WriteFile(path, []byte("batchsize = 10\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpora.toml")
	require.NoError(t, os.WriteFile(path, []byte(`per_item_timeout = "soon"`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpora.toml")
	original := New(WithBatchSize(7), WithPerItemTimeout(90*time.Second), WithSource("/docs", []string{"**/*.md"}, []string{"tmp/**"}))

	require.NoError(t, Save(path, original))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}
