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

// Package newswire wires the stores, classifier, pipeline, worker, and API
// server into one service. Open a Service against a data directory, enqueue
// raw items or let an external producer fill the queue, and the worker
// drains it into enriched, rule-gated article records.
package newswire

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/poiesic/newswire/classify"
	"github.com/poiesic/newswire/classify/openai"
	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/pipeline"
	"github.com/poiesic/newswire/reclassify"
	"github.com/poiesic/newswire/server"
	"github.com/poiesic/newswire/storage"
	"github.com/poiesic/newswire/storage/badger"
	"github.com/poiesic/newswire/worker"
)

// Service owns the full processing stack over one data directory.
type Service struct {
	backend     *badger.Backend
	articleRepo storage.ArticleRepository
	ruleRepo    storage.RuleRepository
	queue       storage.Queue
	classifier  classify.Classifier
	pipe        *pipeline.Pipeline
	logger      *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	remoteConfig *classify.Config
	remote       bool
	inMemory     bool
	pipeOpts     []pipeline.Option
}

// WithRemoteClassifier enables the remote classification strategy with the
// given config. The lexical strategy remains the fallback; remote failures
// degrade silently apart from a warning log.
func WithRemoteClassifier(config *classify.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.remote = true
		o.remoteConfig = config
	}
}

// WithInMemoryStorage keeps all state in memory. Intended for tests.
func WithInMemoryStorage() ServiceOption {
	return func(o *serviceOptions) {
		o.inMemory = true
	}
}

// WithPipelineOptions forwards options to the enrichment pipeline.
func WithPipelineOptions(opts ...pipeline.Option) ServiceOption {
	return func(o *serviceOptions) {
		o.pipeOpts = append(o.pipeOpts, opts...)
	}
}

// Open creates a Service backed by the given data directory.
func Open(filePath string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	articleRepo, err := badger.NewArticleRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	ruleRepo, err := badger.NewRuleRepository(backend)
	if err != nil {
		articleRepo.Close()
		backend.Close()
		return nil, err
	}

	queue, err := badger.NewQueue(backend)
	if err != nil {
		ruleRepo.Close()
		articleRepo.Close()
		backend.Close()
		return nil, err
	}

	classifier, err := buildClassifier(options)
	if err != nil {
		queue.Close()
		ruleRepo.Close()
		articleRepo.Close()
		backend.Close()
		return nil, err
	}

	pipe, err := pipeline.New(articleRepo, ruleRepo, classifier, options.pipeOpts...)
	if err != nil {
		queue.Close()
		ruleRepo.Close()
		articleRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Service{
		backend:     backend,
		articleRepo: articleRepo,
		ruleRepo:    ruleRepo,
		queue:       queue,
		classifier:  classifier,
		pipe:        pipe,
		logger:      slog.Default(),
	}, nil
}

// buildClassifier assembles the classification strategy chain. The lexical
// strategy is always present; a remote strategy, when enabled, is layered
// in front of it with silent degradation on failure.
func buildClassifier(options *serviceOptions) (classify.Classifier, error) {
	lexical := classify.NewLexical()
	if !options.remote {
		return lexical, nil
	}

	config := options.remoteConfig
	if config == nil {
		config = classify.DefaultConfig()
	}
	remote, err := openai.NewClassifier(config)
	if err != nil {
		return nil, err
	}
	return classify.NewFallback(remote, nil), nil
}

// Close releases every resource owned by the service.
func (s *Service) Close() error {
	if err := s.queue.Close(); err != nil {
		s.logger.Error("error closing queue", "err", err)
	}
	if err := s.ruleRepo.Close(); err != nil {
		s.logger.Error("error closing rule repository", "err", err)
		return err
	}
	if err := s.articleRepo.Close(); err != nil {
		s.logger.Error("error closing article repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// ArticleRepository exposes the article store.
func (s *Service) ArticleRepository() storage.ArticleRepository {
	return s.articleRepo
}

// RuleRepository exposes the publishing rule store.
func (s *Service) RuleRepository() storage.RuleRepository {
	return s.ruleRepo
}

// Queue exposes the ingestion queue.
func (s *Service) Queue() storage.Queue {
	return s.queue
}

// Pipeline exposes the enrichment pipeline for synchronous processing.
func (s *Service) Pipeline() *pipeline.Pipeline {
	return s.pipe
}

// Enqueue serializes a raw item and appends it to the ingestion queue.
func (s *Service) Enqueue(ctx context.Context, item *core.RawItem) error {
	if err := core.ValidateRawItem(item); err != nil {
		return err
	}
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return s.queue.Enqueue(ctx, payload)
}

// NewWorker creates a queue worker bound to this service's pipeline.
func (s *Service) NewWorker(opts ...worker.Option) (*worker.Worker, error) {
	return worker.New(s.queue, s.pipe, opts...)
}

// NewServer creates an API server over this service's stores.
func (s *Service) NewServer(bind string) (*server.Server, error) {
	return server.New(bind, s.articleRepo, s.ruleRepo, s.queue, nil)
}

// Reclassify re-runs enrichment over every stored article, writing progress
// to the given writer.
func (s *Service) Reclassify(ctx context.Context, progress io.Writer, config *reclassify.Config) (*reclassify.Stats, error) {
	r := reclassify.NewReclassifier(s.articleRepo, s.ruleRepo, s.classifier, config, progress)
	return r.Run(ctx)
}
