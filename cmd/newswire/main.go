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
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/newswire"
	"github.com/poiesic/newswire/classify"
	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/pipeline"
	"github.com/poiesic/newswire/reclassify"
	"github.com/poiesic/newswire/worker"
)

func main() {
	app := &cli.App{
		Name:   "newswire",
		Usage:  "Content enrichment and publishing pipeline",
		Before: setupLogger,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the queue worker and HTTP API",
				Action: serveCommand,
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:    "bind",
						Usage:   "HTTP API bind address",
						Value:   "127.0.0.1:8080",
						EnvVars: []string{"NEWSWIRE_BIND"},
					},
					&cli.BoolFlag{
						Name:    "remote-classifier",
						Usage:   "Enable the remote classification strategy",
						EnvVars: []string{"NEWSWIRE_REMOTE_CLASSIFIER"},
					},
					&cli.StringFlag{
						Name:    "classifier-host",
						Usage:   "Classifier service host URL",
						Value:   "http://localhost:11434/v1",
						EnvVars: []string{"NEWSWIRE_CLASSIFIER_HOST"},
					},
					&cli.StringFlag{
						Name:    "classifier-model",
						Usage:   "Classifier model name",
						Value:   "qwen2.5:3b",
						EnvVars: []string{"NEWSWIRE_CLASSIFIER_MODEL"},
					},
					&cli.StringFlag{
						Name:    "classifier-token",
						Usage:   "Classifier service API token",
						Value:   "none",
						EnvVars: []string{"NEWSWIRE_CLASSIFIER_TOKEN"},
					},
					&cli.IntFlag{
						Name:    "summary-max-length",
						Usage:   "Maximum summary length in characters",
						Value:   150,
						EnvVars: []string{"NEWSWIRE_SUMMARY_MAX_LENGTH"},
					},
					&cli.DurationFlag{
						Name:  "poll-timeout",
						Usage: "How long a single queue poll blocks",
						Value: 5 * time.Second,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Processing pool size; values above 1 relax queue ordering",
						Value: 1,
					},
				),
			},
			{
				Name:   "enqueue",
				Usage:  "Add one raw item to the ingestion queue",
				Action: enqueueCommand,
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Item title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "content",
						Usage:    "Item body text",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "link",
						Usage: "Item source URL",
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Item source name",
					},
				),
			},
			{
				Name:   "reclassify",
				Usage:  "Re-run enrichment over every stored article",
				Action: reclassifyCommand,
				Flags: append(dbFlags(),
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N articles",
						Value: 100,
					},
				),
			},
			{
				Name:  "rules",
				Usage: "Manage publishing rules",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List publishing rules in evaluation order",
						Action: rulesListCommand,
						Flags:  dbFlags(),
					},
					{
						Name:   "add",
						Usage:  "Add a publishing rule",
						Action: rulesAddCommand,
						Flags: append(dbFlags(),
							&cli.StringFlag{
								Name:  "category",
								Usage: "Category the rule applies to; empty matches every category",
							},
							&cli.IntFlag{
								Name:     "min-summary-length",
								Usage:    "Minimum summary length required to publish",
								Required: true,
							},
						),
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory",
			Value:   "./newswire_db",
			EnvVars: []string{"NEWSWIRE_DB"},
		},
	}
}

func setupLogger(c *cli.Context) error {
	var level slog.Level
	switch strings.ToLower(c.String("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("unknown log level: %s", c.String("log-level"))
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

func openService(c *cli.Context) (*newswire.Service, error) {
	var opts []newswire.ServiceOption
	if c.Bool("remote-classifier") {
		config := classify.NewConfig(
			classify.WithHost(c.String("classifier-host")),
			classify.WithModel(c.String("classifier-model")),
			classify.WithToken(c.String("classifier-token")),
		)
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid classifier configuration: %w", err)
		}
		opts = append(opts, newswire.WithRemoteClassifier(config))
	}
	if c.IsSet("summary-max-length") {
		opts = append(opts, newswire.WithPipelineOptions(
			pipeline.WithSummaryMaxLength(c.Int("summary-max-length"))))
	}
	return newswire.Open(c.String("db"), opts...)
}

func serveCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := svc.NewWorker(
		worker.WithPollTimeout(c.Duration("poll-timeout")),
		worker.WithPoolSize(c.Int("pool-size")),
	)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	s, err := svc.NewServer(c.String("bind"))
	if err != nil {
		return err
	}
	if err := s.Start(ctx); err != nil {
		return err
	}
	defer s.Stop()

	<-ctx.Done()
	slog.Info("shutting down")
	return nil
}

func enqueueCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer svc.Close()

	content := c.String("content")
	item := &core.RawItem{
		Title:       c.String("title"),
		Link:        c.String("link"),
		Source:      c.String("source"),
		Content:     content,
		ContentHash: core.HashContent(content),
	}
	if err := svc.Enqueue(c.Context, item); err != nil {
		return err
	}

	fmt.Printf("Enqueued %q (%s)\n", item.Title, item.ContentHash)
	return nil
}

func reclassifyCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer svc.Close()

	config := reclassify.DefaultConfig()
	config.ReportInterval = c.Int("report-interval")
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	stats, err := svc.Reclassify(c.Context, os.Stderr, config)
	if err != nil {
		return err
	}

	fmt.Printf("Scanned %d, updated %d, failed %d\n", stats.Scanned, stats.Updated, stats.Failed)
	return nil
}

func rulesListCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer svc.Close()

	ruleSet, err := svc.RuleRepository().GetRules(c.Context)
	if err != nil {
		return err
	}
	if len(ruleSet) == 0 {
		fmt.Println("No rules defined; everything publishes.")
		return nil
	}

	for _, rule := range ruleSet {
		category := string(rule.Category)
		if category == "" {
			category = "(all categories)"
		}
		fmt.Printf("%d\t%s\tmin summary length %d\n", rule.Id, category, rule.MinSummaryLength)
	}
	return nil
}

func rulesAddCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer svc.Close()

	rule := &core.PublishingRule{
		Category:         core.Category(c.String("category")),
		MinSummaryLength: c.Int("min-summary-length"),
	}
	added, err := svc.RuleRepository().AddRule(c.Context, rule)
	if err != nil {
		return err
	}

	fmt.Printf("Added rule %d\n", added.Id)
	return nil
}
