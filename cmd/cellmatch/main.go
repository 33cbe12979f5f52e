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
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/cellmatch"
	"github.com/poiesic/cellmatch/config"
	"github.com/poiesic/cellmatch/core"
	"github.com/poiesic/cellmatch/table"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "cellmatch",
		Usage: "Find the dataset cell that best matches free-text queries",
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
				Usage:   "Path to YAML config file",
				Value:   "config.yaml",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to .env file holding the API key variable",
				Value: ".env",
			},
		},
		Before: before,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Match every query and write the results and details files",
				Action: runCommand,
				Flags: append(datasetFlags(),
					&cli.StringFlag{
						Name:    "queries",
						Aliases: []string{"q"},
						Usage:   "Path to the query file, one query per line",
					},
					&cli.StringFlag{
						Name:  "results-dir",
						Usage: "Directory for results files",
					},
					&cli.StringFlag{
						Name:  "details-dir",
						Usage: "Directory for similarity details files",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of embedding batches in flight",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of values sent per embedding call",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Report per-query progress on stderr",
						Value: true,
					},
				),
			},
			{
				Name:      "match",
				Usage:     "Print the best match for a single query",
				ArgsUsage: "<query...>",
				Action:    matchCommand,
				Flags: append(datasetFlags(),
					&cli.BoolFlag{
						Name:  "all-columns",
						Usage: "Print every column's best match, not only the overall best",
					},
				),
			},
			{
				Name:   "init",
				Usage:  "Write the default configuration to the --config path",
				Action: initCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing config file",
					},
				},
			},
			{
				Name:   "inspect",
				Usage:  "Print column kinds and counts of the prepared dataset",
				Action: inspectCommand,
				Flags:  datasetFlags(),
			},
		},
	}
}

// datasetFlags override the data, input column and embedding sections of the config.
func datasetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "data",
			Aliases: []string{"d"},
			Usage:   "Path to the delimited dataset",
		},
		&cli.StringFlag{
			Name:  "delimiter",
			Usage: "Field delimiter of the dataset",
		},
		&cli.BoolFlag{
			Name:  "parse-dates",
			Usage: "Detect date columns",
			Value: true,
		},
		&cli.StringFlag{
			Name:  "columns",
			Usage: "Path to the selected column file, one column name per line",
		},
		&cli.StringFlag{
			Name:  "provider",
			Usage: "Embedding provider (openai, tfidf)",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
	}
}

func before(c *cli.Context) error {
	if err := setupLogger(c); err != nil {
		return err
	}
	if err := godotenv.Load(c.String("env-file")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading env file: %w", err)
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

// loadConfig reads the config file and applies every flag the user set.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	setString := func(flag string, dst *string) {
		if c.IsSet(flag) {
			*dst = c.String(flag)
		}
	}
	setInt := func(flag string, dst *int) {
		if c.IsSet(flag) {
			*dst = c.Int(flag)
		}
	}

	setString("data", &cfg.Data.Path)
	setString("delimiter", &cfg.Data.Delimiter)
	if c.IsSet("parse-dates") {
		cfg.Data.ParseDates = c.Bool("parse-dates")
	}
	setString("columns", &cfg.Inputs.Columns)
	setString("queries", &cfg.Inputs.Queries)
	setString("results-dir", &cfg.Outputs.ResultsDir)
	setString("details-dir", &cfg.Outputs.DetailsDir)
	setString("provider", &cfg.Embedding.Provider)
	setString("embedding-host", &cfg.Embedding.Host)
	setString("embedding-model", &cfg.Embedding.Model)
	setInt("pool-size", &cfg.Matching.PoolSize)
	setInt("batch-size", &cfg.Matching.BatchSize)
	setInt("max-retries", &cfg.Matching.MaxRetries)
	if c.IsSet("retry-delay") {
		cfg.Matching.RetryDelay = c.Duration("retry-delay")
	}

	return cfg, nil
}

func runCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	var opts []cellmatch.Option
	if c.Bool("progress") {
		opts = append(opts, cellmatch.WithProgress(c.App.ErrWriter))
	}
	runner, err := cellmatch.NewRunner(cfg, opts...)
	if err != nil {
		return err
	}
	defer runner.Close()

	start := time.Now()
	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Matched %d of %d queries in %s\n", len(report.Results), len(report.Matches),
		time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(c.App.Writer, "Results: %s\n", report.ResultsPath)
	fmt.Fprintf(c.App.Writer, "Details: %s\n", report.DetailsPath)
	return nil
}

func matchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("%w: pass the query as arguments", core.ErrEmptyQuery)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	runner, err := cellmatch.NewRunner(cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	m, err := runner.MatchOne(c.Context, query)
	if err != nil {
		return err
	}

	var out any
	if c.Bool("all-columns") {
		out = m.Columns
	} else {
		res, ok := m.Result()
		if !ok {
			fmt.Fprintf(c.App.Writer, "No match for %q\n", query)
			return nil
		}
		out = res
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "    ")
	return enc.Encode(out)
}

func initCommand(c *cli.Context) error {
	path := c.String("config")
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("config %s already exists, use --force to overwrite", path)
	}
	if err := config.Save(path, config.Default()); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	fmt.Fprintf(c.App.Writer, "Wrote default config to %s\n", path)
	return nil
}

func inspectCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	tbl, err := cellmatch.LoadTable(cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tKIND\tPRESENT\tUNIQUE\tTWIN")
	for _, info := range table.Inspect(tbl) {
		twin := ""
		if info.Twin {
			twin = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", info.Name, info.Kind, info.Present, info.Unique, twin)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Rows: %d\n", tbl.Rows())
	fmt.Fprintf(c.App.Writer, "Fingerprint: %s\n", tbl.Fingerprint())
	return nil
}
