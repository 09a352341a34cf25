// Copyright 2026 Maximilian Kalus [segrada@auxnet.de]
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	segrada "github.com/mkalus/segrada-sub000"
	"github.com/mkalus/segrada-sub000/core"
	"github.com/mkalus/segrada-sub000/integrity"
)

func main() {
	app := &cli.App{
		Name:  "segrada",
		Usage: "Catalogue graph database maintenance",
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
				Name:   "stats",
				Usage:  "Show record counts per model",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to database directory",
						Required: true,
					},
				},
			},
			{
				Name:   "check",
				Usage:  "Run integrity checks over the whole graph",
				Action: checkCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent check workers",
						Value: 0,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func statsCommand(c *cli.Context) error {
	db, err := segrada.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	for _, model := range core.Models() {
		count, err := db.Store().Count(model)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\n", model, count)
	}
	return w.Flush()
}

func checkCommand(c *cli.Context) error {
	db, err := segrada.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var opts []integrity.Option
	if workers := c.Int("workers"); workers > 0 {
		opts = append(opts, integrity.WithPoolSize(workers))
	}

	checker, err := integrity.NewChecker(db.Session(core.Identity{}), opts...)
	if err != nil {
		return fmt.Errorf("failed to create checker: %w", err)
	}
	defer checker.Release()

	report, err := checker.Run(context.Background())
	if err != nil {
		return fmt.Errorf("integrity run failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Checked %d records and edges\n", report.Checked)
	if report.Clean() {
		fmt.Fprintln(os.Stderr, "No problems found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	for _, f := range report.Findings {
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.Kind, f.Subject, f.Detail)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return fmt.Errorf("%d problems found", len(report.Findings))
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
