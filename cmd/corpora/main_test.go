package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/corpora"
	"github.com/poiesic/corpora/config"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/planning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func findFlag(cmd *cli.Command, name string) cli.Flag {
	for _, flag := range cmd.Flags {
		for _, n := range flag.Names() {
			if n == name {
				return flag
			}
		}
	}
	return nil
}

func TestMigrateCommandFlags(t *testing.T) {
	cmd := findCommand(t, newApp(), "migrate")

	t.Run("embedding-host has default value", func(t *testing.T) {
		f, ok := findFlag(cmd, "embedding-host").(*cli.StringFlag)
		require.True(t, ok)
		assert.Equal(t, "http://localhost:11434/v1", f.Value)
		assert.Empty(t, f.EnvVars)
	})

	t.Run("batch-size defaults to 50", func(t *testing.T) {
		f, ok := findFlag(cmd, "batch-size").(*cli.IntFlag)
		require.True(t, ok)
		assert.Equal(t, 50, f.Value)
	})

	t.Run("concurrency defaults", func(t *testing.T) {
		analysis, ok := findFlag(cmd, "analysis-concurrency").(*cli.IntFlag)
		require.True(t, ok)
		assert.Equal(t, 10, analysis.Value)

		migration, ok := findFlag(cmd, "migration-concurrency").(*cli.IntFlag)
		require.True(t, ok)
		assert.Equal(t, 5, migration.Value)
	})

	t.Run("item-timeout defaults to 30s", func(t *testing.T) {
		f, ok := findFlag(cmd, "item-timeout").(*cli.DurationFlag)
		require.True(t, ok)
		assert.Equal(t, 30*time.Second, f.Value)
	})

	t.Run("similarity-threshold defaults to 0.8", func(t *testing.T) {
		f, ok := findFlag(cmd, "similarity-threshold").(*cli.Float64Flag)
		require.True(t, ok)
		assert.Equal(t, 0.8, f.Value)
	})

	t.Run("db has alias -d", func(t *testing.T) {
		f, ok := findFlag(cmd, "d").(*cli.StringFlag)
		require.True(t, ok)
		assert.Equal(t, "db", f.Name)
	})

	t.Run("skip-existing is off by default", func(t *testing.T) {
		f, ok := findFlag(cmd, "skip-existing").(*cli.BoolFlag)
		require.True(t, ok)
		assert.False(t, f.Value)
	})
}

func TestMigrateCommandValidation(t *testing.T) {
	t.Run("source is required", func(t *testing.T) {
		err := newApp().Run([]string{"corpora", "migrate", "--db", t.TempDir()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "source directory is required")
	})

	t.Run("db is required", func(t *testing.T) {
		err := newApp().Run([]string{"corpora", "migrate", "--source", t.TempDir()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database path is required")
	})

	t.Run("invalid batch size", func(t *testing.T) {
		err := newApp().Run([]string{"corpora", "migrate", "--source", t.TempDir(), "--db", t.TempDir(), "--batch-size", "0"})
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpora.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
batch_size = 20
analysis_concurrency = 4

[source]
root = "/from/file"
include = ["**/*.md"]
`), 0o644))

	var got *config.Config
	app := &cli.App{
		Name:  "test",
		Flags: corpusFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			got = cfg
			return err
		},
	}

	err := app.Run([]string{"test", "--config", path, "--batch-size", "7", "--exclude", "drafts/**"})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, 7, got.BatchSize, "flags override the file")
	assert.Equal(t, 4, got.AnalysisConcurrency, "file overrides defaults")
	assert.Equal(t, "/from/file", got.Source.Root)
	assert.Equal(t, []string{"**/*.md"}, got.Source.Include)
	assert.Equal(t, []string{"drafts/**"}, got.Source.Exclude)
	assert.Equal(t, 0.8, got.DuplicateSimilarityThreshold)
}

func TestPlanCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# Readme\n\nStart here.\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "copy.md"), []byte("# Readme\n\nStart here.\n"), 0o644))

	err := newApp().Run([]string{"corpora", "plan", "--source", root})
	assert.NoError(t, err)
}

func TestWritePlan(t *testing.T) {
	primary := &core.Item{ID: "a", SourcePath: "a.md", ImportanceScore: 0.9}
	dup := &core.Item{ID: "b", SourcePath: "b.md", IsDuplicate: true, MergeTargetID: "a"}
	batches := []*core.Batch{{ID: "high_001", Tier: core.TierHigh, Items: []*core.Item{primary}, EstimatedDurationSeconds: 30}}
	plan := &corpora.Plan{
		Discovered: 2,
		Items:      []*core.Item{primary, dup},
		Duplicates: 1,
		Batches:    batches,
		Summary:    planning.Summarize(batches),
	}

	var buf bytes.Buffer
	require.NoError(t, writePlan(&buf, plan))

	var view map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
	assert.Equal(t, 2.0, view["analyzed"])
	dups := view["duplicates"].([]any)
	require.Len(t, dups, 1)
	assert.Equal(t, "a", dups[0].(map[string]any)["mergeTargetId"])
	batch := view["batches"].([]any)[0].(map[string]any)
	assert.Equal(t, "HIGH", batch["priorityTier"])
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "WaRn"} {
			t.Run(level, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "log-level", Value: "info"},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error { return nil },
				}
				require.NoError(t, app.Run([]string{"test", "--log-level", level}))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"corpora", "--log-level", "invalid", "plan"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info"},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				assert.Equal(t, "debug", c.String("log-level"))
				return nil
			},
		}
		require.NoError(t, app.Run([]string{"test", "-l", "debug"}))
	})
}
