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
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "profiledb",
		Usage:  "Hybrid semantic and keyword search over candidate profiles",
		Writer: out,
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
				Usage:   "Path to the TOML config file",
				Value:   "profiledb.toml",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Index directory (overrides config)",
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: "Embedding provider: openai, ollama or none (overrides config)",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL (overrides config)",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name (overrides config)",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Entry store backend: file or badger (overrides config)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "sync",
				Usage:     "Index profile JSON files, replacing earlier entries of the same profiles",
				ArgsUsage: "[FILE...]",
				Action:    syncCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "Index every .json file in this directory",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Profile name for a single file (default: file name without extension)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of files decoded concurrently",
						Value: 4,
					},
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove every entry of a profile",
				ArgsUsage: "NAME",
				Action:    removeCommand,
			},
			{
				Name:      "search",
				Usage:     "Search indexed profiles",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "profile",
						Aliases: []string{"p"},
						Usage:   "Restrict results to one profile",
					},
					&cli.StringSliceFlag{
						Name:  "category",
						Usage: "Restrict results to a category (repeatable)",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
						Value:   5,
					},
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Minimum final score",
						Value: 0.1,
					},
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Usage:   "Search mode: hybrid, semantic or keyword; anything else runs hybrid",
						Value:   "hybrid",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print results as JSON",
					},
				},
			},
			{
				Name:      "get",
				Usage:     "Print one entry with its stored data",
				ArgsUsage: "ID",
				Action:    getCommand,
			},
			{
				Name:   "stats",
				Usage:  "Print index statistics",
				Action: statsCommand,
			},
			{
				Name:      "summary",
				Usage:     "Summarize the entries of one profile",
				ArgsUsage: "NAME",
				Action:    summaryCommand,
			},
			{
				Name:      "context",
				Usage:     "Retrieve the entries an agent needs about a profile",
				ArgsUsage: "NAME",
				Action:    contextCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "agent",
						Aliases:  []string{"a"},
						Usage:    "Agent type (company_analyst, jd_analyst, question_guide, experience_guide, writing_guide)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "task",
						Usage: "Task context; question_guide searches with it",
					},
				},
			},
			{
				Name:   "compact",
				Usage:  "Drop removed entries and renumber the rest",
				Action: compactCommand,
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed every entry with the configured embedding model",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of texts to embed in each batch",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed batches",
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the index as MCP tools on stdio",
				Action: serveCommand,
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
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

	// Logs go to stderr; stdout carries command output and, for serve, MCP traffic
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
