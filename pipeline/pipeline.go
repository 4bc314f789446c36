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

package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/poiesic/newswire/classify"
	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/rules"
	"github.com/poiesic/newswire/storage"
	"github.com/poiesic/newswire/summary"
)

// Pipeline enriches raw items and persists the result.
type Pipeline struct {
	articles   storage.ArticleRepository
	ruleStore  storage.RuleRepository
	classifier classify.Classifier
	maxSummary int
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSummaryMaxLength overrides the summary length cap.
func WithSummaryMaxLength(n int) Option {
	return func(p *Pipeline) {
		p.maxSummary = n
	}
}

// WithLogger overrides the pipeline's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithClock overrides the clock used for ProcessedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a Pipeline over the given stores and classifier.
func New(articles storage.ArticleRepository, ruleStore storage.RuleRepository, classifier classify.Classifier, opts ...Option) (*Pipeline, error) {
	if articles == nil {
		return nil, ErrArticleRepositoryRequired
	}
	if ruleStore == nil {
		return nil, ErrRuleRepositoryRequired
	}
	if classifier == nil {
		return nil, ErrClassifierRequired
	}

	p := &Pipeline{
		articles:   articles,
		ruleStore:  ruleStore,
		classifier: classifier,
		maxSummary: summary.DefaultMaxLength,
		now:        time.Now,
		logger:     slog.Default().With("component", "pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Process runs one raw payload through the full enrichment chain and
// persists the resulting article. The returned article reflects exactly
// what was stored. Failures carry a *Error whose Kind tells the caller
// whether the payload was at fault or the infrastructure was.
func (p *Pipeline) Process(ctx context.Context, payload []byte) (*core.Article, error) {
	var item core.RawItem
	if err := json.Unmarshal(payload, &item); err != nil {
		return nil, &Error{Kind: KindMalformedInput, Err: err}
	}
	if err := core.ValidateRawItem(&item); err != nil {
		return nil, &Error{Kind: KindMalformedInput, Title: item.Title, Hash: item.ContentHash, Err: err}
	}

	// Classification sees the body only; the title does not contribute.
	category, err := p.classifier.Classify(ctx, item.Content)
	if err != nil {
		// Classification is total by construction; guard anyway so a
		// misbehaving classifier cannot stall the queue.
		p.logger.Warn("classifier returned an error, defaulting to General",
			"title", item.Title, "err", err)
		category = core.CategoryGeneral
	}

	article := &core.Article{
		Title:       item.Title,
		Link:        item.Link,
		Source:      item.Source,
		PublishedAt: item.PublishedAt,
		Content:     item.Content,
		ContentHash: item.ContentHash,
		Category:    category,
		Summary:     summary.Extract(item.Content, p.maxSummary),
		ProcessedAt: p.now().UTC(),
	}

	// Rules are read fresh per item so edits apply to the next payload.
	ruleSet, err := p.ruleStore.GetRules(ctx)
	if err != nil {
		return nil, &Error{Kind: KindRuleLookup, Title: item.Title, Hash: item.ContentHash, Err: err}
	}

	decision := rules.Decide(article, ruleSet)
	article.ShouldPublish = decision.Publish
	article.PublishDecisionReason = decision.Reason

	stored, err := p.articles.AddArticle(ctx, article)
	if err != nil {
		return nil, &Error{Kind: KindPersistence, Title: item.Title, Hash: item.ContentHash, Err: err}
	}

	p.logger.Info("processed article",
		"id", stored.Id,
		"title", stored.Title,
		"category", stored.Category,
		"publish", stored.ShouldPublish,
		"reason", stored.PublishDecisionReason)

	return stored, nil
}
