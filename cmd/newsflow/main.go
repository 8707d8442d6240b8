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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/newsflow"
	"github.com/poiesic/newsflow/ai"
	"github.com/poiesic/newsflow/core"
	"github.com/poiesic/newsflow/embedding"
	"github.com/poiesic/newsflow/ingestion"
	"github.com/poiesic/newsflow/seed"
	"github.com/poiesic/newsflow/source"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "newsflow",
		Usage: "Validate and route news articles from historical archives or live feeds",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				EnvVars: []string{"NEWSFLOW_CONFIG"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Build and run an ingestion pipeline",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Usage:   "Pipeline mode (batch, stream)",
						Value:   "batch",
					},
					&cli.StringFlag{
						Name:  "from",
						Usage: "Start of the batch range (RFC3339 or YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:  "to",
						Usage: "End of the batch range, inclusive (RFC3339 or YYYY-MM-DD)",
					},
					&cli.BoolFlag{
						Name:  "debug",
						Usage: "Log every article; stream mode reads the built-in mock feed",
					},
					&cli.BoolFlag{
						Name:  "strict",
						Usage: "Abort on the first invalid article",
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory (in-memory if empty)",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Pipeline name used for checkpoints",
					},
					&cli.StringFlag{
						Name:  "model-cache-dir",
						Usage: "Directory for cached embedding vectors",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of validation workers",
						Value: 4,
					},
					&cli.BoolFlag{
						Name:  "embed",
						Usage: "Emit embedded documents instead of articles",
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
				},
			},
			{
				Name:   "seed",
				Usage:  "Load raw articles from a file into the archive",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "JSON or JSONL file of raw articles",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of articles written per transaction",
						Value: seed.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N articles",
						Value: seed.DefaultReportInterval,
					},
				},
			},
		},
	}
}

// runOptions is the merged view of config file, environment and flags for a run.
type runOptions struct {
	params   core.RunParameters
	policy   ingestion.Policy
	name     string
	db       string
	workers  int
	pageSize int
	embed    bool
	ai       *ai.Config
}

func resolveRunOptions(c *cli.Context, cfg Config) (*runOptions, error) {
	mode, err := core.ParseMode(c.String("mode"))
	if err != nil {
		return nil, err
	}
	from, err := parseTime(c.String("from"), false)
	if err != nil {
		return nil, fmt.Errorf("--from: %w", err)
	}
	to, err := parseTime(c.String("to"), true)
	if err != nil {
		return nil, fmt.Errorf("--to: %w", err)
	}

	opts := &runOptions{
		db:       cfg.Database,
		workers:  cfg.Pipeline.Workers,
		pageSize: cfg.Pipeline.PageSize,
		name:     c.String("name"),
		embed:    c.Bool("embed"),
	}
	if c.IsSet("db") {
		opts.db = c.String("db")
	}
	if c.IsSet("workers") {
		opts.workers = c.Int("workers")
	}

	opts.policy = ingestion.PolicyLenient
	if cfg.Pipeline.Strict || c.Bool("strict") {
		opts.policy = ingestion.PolicyStrict
	}

	modelCacheDir := cfg.Embedding.ModelCacheDir
	if c.IsSet("model-cache-dir") {
		modelCacheDir = c.String("model-cache-dir")
	}
	opts.params = core.RunParameters{
		Mode:          mode,
		From:          from,
		To:            to,
		Debug:         c.Bool("debug"),
		ModelCacheDir: modelCacheDir,
	}

	host, model := cfg.Embedding.Host, cfg.Embedding.Model
	if c.IsSet("embedding-host") {
		host = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		model = c.String("embedding-model")
	}
	opts.ai = ai.NewConfig(
		ai.WithEmbeddingHost(host),
		ai.WithEmbeddingModel(model),
		ai.WithToken(cfg.Embedding.Token),
		ai.WithBatchSize(cfg.Embedding.BatchSize),
		ai.WithModelCacheDir(modelCacheDir),
	)
	return opts, nil
}

func runCommand(c *cli.Context) error {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}
	opts, err := resolveRunOptions(c, cfg)
	if err != nil {
		return err
	}
	if opts.workers <= 0 {
		return fmt.Errorf("workers must be greater than 0")
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	engineOpts := []newsflow.EngineOption{newsflow.WithPageSize(opts.pageSize)}
	if opts.db == "" {
		engineOpts = append(engineOpts, newsflow.WithInMemory())
	}
	if opts.params.Mode == core.ModeStream && !opts.params.Debug {
		engineOpts = append(engineOpts, newsflow.WithSubscriber(source.NewReaderSubscriber(c.App.Reader)))
	}

	engine, err := newsflow.Open(opts.db, engineOpts...)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer engine.Close()

	builderOpts := []ingestion.Option{ingestion.WithPolicy(opts.policy)}
	if opts.name != "" {
		builderOpts = append(builderOpts, ingestion.WithName(opts.name))
	}
	builder, err := engine.NewBuilder(builderOpts...)
	if err != nil {
		return err
	}
	d, err := builder.Build(opts.params)
	if err != nil {
		return err
	}

	sink, err := newSink(engine, opts, c)
	if err != nil {
		return err
	}

	runner, err := engine.NewRunner(ingestion.WithPoolSize(opts.workers))
	if err != nil {
		return err
	}
	defer runner.Release()

	stats, err := runner.Run(ctx, d, sink)
	if stats != nil {
		printStats(c, d, stats)
	}
	if errors.Is(err, context.Canceled) {
		slog.Info("run interrupted")
		return nil
	}
	return err
}

func newSink(engine *newsflow.Engine, opts *runOptions, c *cli.Context) (ingestion.Sink, error) {
	if !opts.embed {
		enc := json.NewEncoder(c.App.Writer)
		return ingestion.SinkFunc(func(_ context.Context, articles []*core.NewsArticle) error {
			for _, article := range articles {
				if err := enc.Encode(article); err != nil {
					return err
				}
			}
			return nil
		}), nil
	}

	if err := opts.ai.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	embedder, err := engine.NewEmbedder(opts.ai)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return embedding.NewSink(embedder, embedding.NewJSONEmitter(c.App.Writer))
}

func printStats(c *cli.Context, d *ingestion.Descriptor, stats *ingestion.Stats) {
	w := c.App.ErrWriter
	fmt.Fprintf(w, "Pipeline: %s (%s)\n", d.Name(), d.Source().Kind())
	fmt.Fprintf(w, "Batches: %d\n", stats.Batches)
	fmt.Fprintf(w, "Accepted: %d\n", stats.Accepted)
	fmt.Fprintf(w, "Rejected: %d\n", stats.Rejected)
}

func seedCommand(c *cli.Context) error {
	ctx := c.Context

	if c.Int("batch-size") <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if c.Int("report-interval") <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	payloads, err := seed.LoadFile(c.String("file"))
	if err != nil {
		return err
	}

	engine, err := newsflow.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer engine.Close()

	seeder, err := engine.NewSeeder(
		seed.WithBatchSize(c.Int("batch-size")),
		seed.WithReportInterval(c.Int("report-interval")),
		seed.WithProgress(c.App.ErrWriter),
	)
	if err != nil {
		return err
	}

	result, err := seeder.Run(ctx, payloads)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Fprintf(c.App.ErrWriter, "Read: %d, added: %d, skipped: %d\n", result.Read, result.Added, result.Skipped)
	return nil
}

// parseTime accepts RFC3339 or a bare date. A bare date used as an upper
// bound covers the whole day.
func parseTime(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q: use RFC3339 or YYYY-MM-DD", s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
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

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
