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

// Package reclassify sweeps the article store and re-runs enrichment with
// the current classifier, summarizer settings, and publishing rules. It is
// the administrative correction path after keyword or rule changes.
package reclassify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/newswire/classify"
	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/rules"
	"github.com/poiesic/newswire/storage"
	"github.com/poiesic/newswire/summary"
)

// Config holds configuration for a reclassification sweep.
type Config struct {
	// ReportInterval is how often to report progress (number of articles)
	ReportInterval int

	// SummaryMaxLength caps regenerated summaries
	SummaryMaxLength int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReportInterval:   100,
		SummaryMaxLength: summary.DefaultMaxLength,
	}
}

// Stats summarizes a completed sweep.
type Stats struct {
	Scanned int
	Updated int
	Failed  int
}

// Reclassifier orchestrates re-enrichment of all stored articles.
type Reclassifier struct {
	articles   storage.ArticleRepository
	ruleStore  storage.RuleRepository
	classifier classify.Classifier
	config     *Config
	progress   io.Writer
	logger     *slog.Logger
}

// NewReclassifier creates a reclassifier.
// progress: where to write progress output (typically os.Stderr)
func NewReclassifier(articles storage.ArticleRepository, ruleStore storage.RuleRepository, classifier classify.Classifier, config *Config, progress io.Writer) *Reclassifier {
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reclassifier{
		articles:   articles,
		ruleStore:  ruleStore,
		classifier: classifier,
		config:     config,
		progress:   progress,
		logger:     slog.Default().With("component", "reclassify"),
	}
}

// Run re-enriches every stored article. Articles whose category, summary,
// or publish decision did not change are left untouched. Per-article
// failures are counted but do not abort the sweep; only iteration and
// cancellation errors do.
func (r *Reclassifier) Run(ctx context.Context) (*Stats, error) {
	total, err := r.articles.CountArticles(ctx, storage.ArticleFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}

	stats := &Stats{}
	if total == 0 {
		return stats, nil
	}

	fmt.Fprintf(r.progress, "Starting reclassification of %d articles\n", total)

	ruleSet, err := r.ruleStore.GetRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	err = r.articles.ForEachArticle(ctx, func(article *core.Article) error {
		stats.Scanned++
		tracker.Increment(1)

		if err := r.reprocess(ctx, article, ruleSet, stats); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			stats.Failed++
			r.logger.Warn("failed to reclassify article", "id", article.Id, "err", err)
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reclassification complete. Scanned %d, updated %d, failed %d in %v\n",
		stats.Scanned, stats.Updated, stats.Failed, elapsed.Round(time.Second))

	return stats, nil
}

// reprocess re-runs enrichment for one article and persists it when the
// outcome changed.
func (r *Reclassifier) reprocess(ctx context.Context, article *core.Article, ruleSet []*core.PublishingRule, stats *Stats) error {
	category, err := r.classifier.Classify(ctx, article.Content)
	if err != nil {
		category = core.CategoryGeneral
	}

	updated := *article
	updated.Category = category
	updated.Summary = summary.Extract(article.Content, r.config.SummaryMaxLength)

	decision := rules.Decide(&updated, ruleSet)
	updated.ShouldPublish = decision.Publish
	updated.PublishDecisionReason = decision.Reason

	if updated.Category == article.Category &&
		updated.Summary == article.Summary &&
		updated.ShouldPublish == article.ShouldPublish &&
		updated.PublishDecisionReason == article.PublishDecisionReason {
		return nil
	}

	if err := r.articles.UpdateArticle(ctx, &updated); err != nil {
		return err
	}
	stats.Updated++
	return nil
}
