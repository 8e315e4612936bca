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


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/poiesic/corpora"
	"github.com/poiesic/corpora/ai"
	"github.com/poiesic/corpora/config"
	"github.com/poiesic/corpora/report"
	"github.com/poiesic/corpora/source"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "corpora",
		Usage: "Analyze, deduplicate and migrate a document corpus into a vector store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Migrate every document under a source directory",
				Action: migrateCommand,
				Flags: append(corpusFlags(),
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.StringFlag{
						Name:  "report",
						Usage: "Write the JSON report to this file instead of stdout",
					},
					&cli.IntFlag{
						Name:  "migration-concurrency",
						Usage: "Batches migrated concurrently within a wave",
						Value: config.DefaultMigrationConcurrency,
					},
					&cli.DurationFlag{
						Name:  "item-timeout",
						Usage: "Timeout of each store call",
						Value: config.DefaultPerItemTimeout,
					},
					&cli.Float64Flag{
						Name:  "rate-limit",
						Usage: "Maximum store calls per second (0 is unlimited)",
					},
					&cli.IntFlag{
						Name:  "burst",
						Usage: "Store call burst when rate limiting",
						Value: config.DefaultStoreBurst,
					},
					&cli.BoolFlag{
						Name:  "skip-existing",
						Usage: "Skip documents whose content is already stored",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N items (0 disables progress)",
						Value: 10,
					},
				),
			},
			{
				Name:   "plan",
				Usage:  "Analyze and plan a migration without writing anything",
				Action: planCommand,
				Flags:  corpusFlags(),
			},
			{
				Name:      "search",
				Usage:     "Find stored documents similar to a query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of hits",
						Value: 5,
					},
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Minimum cosine similarity",
						Value: 0.3,
					},
				},
			},
		},
	}
}

// corpusFlags are shared by every command that reads a source.
func corpusFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a TOML configuration file",
		},
		&cli.StringFlag{
			Name:    "source",
			Aliases: []string{"s"},
			Usage:   "Directory to read documents from",
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Glob of files to include (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob of files to exclude (repeatable)",
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Maximum number of items per batch",
			Value: config.DefaultBatchSize,
		},
		&cli.IntFlag{
			Name:  "analysis-concurrency",
			Usage: "Documents analyzed concurrently",
			Value: config.DefaultAnalysisConcurrency,
		},
		&cli.Float64Flag{
			Name:  "similarity-threshold",
			Usage: "Jaccard similarity above which documents are near-duplicates",
			Value: config.DefaultSimilarityThreshold,
		},
	}
}

// loadConfig reads the configuration file, if any, and applies the flags
// that were set explicitly on top of it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	var opts []config.Option
	if c.IsSet("source") || c.IsSet("include") || c.IsSet("exclude") {
		root := cfg.Source.Root
		if c.IsSet("source") {
			root = c.String("source")
		}
		opts = append(opts, config.WithSource(root, c.StringSlice("include"), c.StringSlice("exclude")))
	}
	if c.IsSet("batch-size") {
		opts = append(opts, config.WithBatchSize(c.Int("batch-size")))
	}
	if c.IsSet("analysis-concurrency") {
		opts = append(opts, config.WithAnalysisConcurrency(c.Int("analysis-concurrency")))
	}
	if c.IsSet("similarity-threshold") {
		opts = append(opts, config.WithSimilarityThreshold(c.Float64("similarity-threshold")))
	}
	if c.IsSet("migration-concurrency") {
		opts = append(opts, config.WithMigrationConcurrency(c.Int("migration-concurrency")))
	}
	if c.IsSet("item-timeout") {
		opts = append(opts, config.WithPerItemTimeout(c.Duration("item-timeout")))
	}
	if c.IsSet("rate-limit") || c.IsSet("burst") {
		opts = append(opts, config.WithStoreRateLimit(c.Float64("rate-limit"), c.Int("burst")))
	}
	if c.IsSet("skip-existing") {
		opts = append(opts, config.WithSkipExisting(c.Bool("skip-existing")))
	}
	if c.IsSet("db") {
		opts = append(opts, config.WithDatabasePath(c.String("db")))
	}
	if c.IsSet("report") {
		opts = append(opts, config.WithReportPath(c.String("report")))
	}
	if c.IsSet("embedding-host") || c.IsSet("embedding-model") {
		opts = append(opts, config.WithEmbedding(c.String("embedding-host"), c.String("embedding-model")))
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Source.Root == "" {
		return nil, fmt.Errorf("source directory is required")
	}
	return cfg, nil
}

func newSource(cfg *config.Config) (*source.FileSystem, error) {
	var opts []source.Option
	if len(cfg.Source.Include) > 0 {
		opts = append(opts, source.WithInclude(cfg.Source.Include...))
	}
	if len(cfg.Source.Exclude) > 0 {
		opts = append(opts, source.WithExclude(cfg.Source.Exclude...))
	}
	return source.NewFileSystem(cfg.Source.Root, opts...)
}

func migrateCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.DatabasePath == "" {
		return fmt.Errorf("database path is required")
	}

	src, err := newSource(cfg)
	if err != nil {
		return err
	}

	aiConfig := cfg.AI()
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := corpora.NewDatabase(cfg.DatabasePath, corpora.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	opts := []corpora.Option{corpora.WithConfig(cfg)}
	var tracker *report.ProgressTracker
	if interval := c.Int("report-interval"); interval > 0 {
		tracker = report.NewProgressTracker(os.Stderr, interval)
		opts = append(opts, corpora.WithProgress(tracker))
	}
	pipeline, err := db.NewPipeline(opts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.DatabasePath)
	fmt.Fprintf(os.Stderr, "Source: %s\n", cfg.Source.Root)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", aiConfig.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	r, err := pipeline.Run(ctx, src)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if cfg.ReportPath != "" {
		if err := report.WriteFile(cfg.ReportPath, r); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", cfg.ReportPath)
	} else if err := report.WriteJSON(os.Stdout, r); err != nil {
		return err
	}

	if tracker != nil {
		fmt.Fprintf(os.Stderr, "Processed %d items\n", tracker.Current())
	}
	fmt.Fprintf(os.Stderr, "Migrated %d, failed %d, skipped %d, duplicates %d\n",
		r.SuccessCount, r.FailureCount, r.SkipCount, r.DuplicatesDetected)
	if r.Cancelled {
		return cli.Exit("migration cancelled, report is partial", 130)
	}
	return nil
}

func planCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	src, err := newSource(cfg)
	if err != nil {
		return err
	}

	// Planning never touches the store, so a throwaway in-memory one will do.
	db, err := corpora.NewDatabase("", corpora.WithInMemory(), corpora.WithAIConfig(cfg.AI()))
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewPipeline(corpora.WithConfig(cfg))
	if err != nil {
		return err
	}
	defer pipeline.Release()

	plan, err := pipeline.Prepare(ctx, src)
	if err != nil {
		return err
	}
	return writePlan(os.Stdout, plan)
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("query is required")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := corpora.NewDatabase(c.String("db"), corpora.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := c.Context
	vector, err := db.Embedder().EmbedText(ctx, query)
	if err != nil {
		return fmt.Errorf("embed query: %w", err)
	}
	hits, err := db.DocumentRepository().FindSimilar(ctx, vector, float32(c.Float64("min-score")), c.Int("limit"))
	if err != nil {
		return err
	}

	fmt.Printf("Found %d hits\n", len(hits))
	for i, hit := range hits {
		fmt.Printf("%d: %s (%s)[%0.3f]\n", i, hit.Document.Record.Title, hit.Document.Record.SourcePath, hit.Score)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}
