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

// Package server exposes the read side of the article store plus rule
// administration over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/storage"
)

// defaultListLimit bounds /articles responses when no limit is given.
const defaultListLimit = 10

// Server serves the HTTP API.
type Server struct {
	bind     string
	articles storage.ArticleRepository
	rules    storage.RuleRepository
	queue    storage.Queue
	logger   *slog.Logger

	listener net.Listener
	server   *http.Server
}

var (
	ErrBindRequired   = errors.New("bind address is required")
	ErrStoresRequired = errors.New("article and rule stores are required")
)

// New creates a Server. queue may be nil; /stats then omits queue length.
func New(bind string, articles storage.ArticleRepository, rules storage.RuleRepository, queue storage.Queue, logger *slog.Logger) (*Server, error) {
	if strings.TrimSpace(bind) == "" {
		return nil, ErrBindRequired
	}
	if articles == nil || rules == nil {
		return nil, ErrStoresRequired
	}
	if logger == nil {
		logger = slog.Default().With("component", "server")
	}

	s := &Server{
		bind:     bind,
		articles: articles,
		rules:    rules,
		queue:    queue,
		logger:   logger,
	}

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/articles", s.handleArticles)
	mux.HandleFunc("/articles/", s.handleArticleByHash)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/rules", s.handleRules)
	return mux
}

// Start binds the listener and serves until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", "err", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", "address", listener.Addr().String())
	return nil
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr returns the bound address, or empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	filter := storage.ArticleFilter{}
	if raw := r.URL.Query().Get("category"); raw != "" {
		category, ok := core.ParseCategory(raw)
		if !ok {
			s.writeError(w, http.StatusBadRequest, "invalid category")
			return
		}
		filter.Category = category
	}

	listed, err := s.articles.ListArticles(r.Context(), filter, limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if listed == nil {
		listed = []*core.Article{}
	}
	s.writeJSON(w, http.StatusOK, listed)
}

func (s *Server) handleArticleByHash(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	hash := strings.TrimPrefix(r.URL.Path, "/articles/")
	if hash == "" || strings.Contains(hash, "/") {
		s.writeError(w, http.StatusNotFound, "article not found")
		return
	}

	article, err := s.articles.GetArticleByHash(r.Context(), hash)
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "article not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, article)
}

// statsResponse is the /stats payload shape.
type statsResponse struct {
	TotalArticles int                   `json:"total_articles"`
	ByCategory    map[core.Category]int `json:"by_category"`
	Publishable   int                   `json:"publishable"`
	QueueLength   int                   `json:"queue_length"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats := statsResponse{ByCategory: make(map[core.Category]int)}
	err := s.articles.ForEachArticle(r.Context(), func(article *core.Article) error {
		stats.TotalArticles++
		stats.ByCategory[article.Category]++
		if article.ShouldPublish {
			stats.Publishable++
		}
		return nil
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if s.queue != nil {
		queued, err := s.queue.Len(r.Context())
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		stats.QueueLength = queued
	}

	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ruleSet, err := s.rules.GetRules(r.Context())
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if ruleSet == nil {
			ruleSet = []*core.PublishingRule{}
		}
		s.writeJSON(w, http.StatusOK, ruleSet)

	case http.MethodPost:
		var rule core.PublishingRule
		if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid rule payload")
			return
		}
		if err := core.ValidateRule(&rule); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		added, err := s.rules.AddRule(r.Context(), &rule)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusCreated, added)

	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
