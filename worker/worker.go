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

// Package worker drains the ingestion queue and feeds payloads into the
// enrichment pipeline. One worker loop owns the dequeue side; payloads are
// handed to a goroutine pool for processing. The default pool size is one,
// which preserves strict queue order end to end.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/newswire/pipeline"
	"github.com/poiesic/newswire/storage"
)

const (
	defaultPollTimeout = 5 * time.Second
	defaultBackoff     = time.Second
	defaultPoolSize    = 1
)

var (
	ErrAlreadyStarted   = errors.New("worker already started")
	ErrQueueRequired    = errors.New("queue is required")
	ErrPipelineRequired = errors.New("pipeline is required")
)

// Worker runs the consume loop. It blocks on the queue with a bounded poll
// timeout, so cancellation is observed within one poll interval even when
// the queue stays empty.
type Worker struct {
	queue       storage.Queue
	pipe        *pipeline.Pipeline
	pollTimeout time.Duration
	backoff     time.Duration
	poolSize    int
	logger      *slog.Logger

	started atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	pool    *ants.Pool
}

// Option configures a Worker.
type Option func(*Worker)

// WithPollTimeout sets how long a single dequeue blocks before re-checking.
func WithPollTimeout(d time.Duration) Option {
	return func(w *Worker) {
		w.pollTimeout = d
	}
}

// WithBackoff sets the pause after an infrastructure failure.
func WithBackoff(d time.Duration) Option {
	return func(w *Worker) {
		w.backoff = d
	}
}

// WithPoolSize sets the processing pool size. Values above one trade queue
// ordering for throughput.
func WithPoolSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.poolSize = n
		}
	}
}

// WithLogger overrides the worker's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

// New creates a Worker over the given queue and pipeline.
func New(queue storage.Queue, pipe *pipeline.Pipeline, opts ...Option) (*Worker, error) {
	if queue == nil {
		return nil, ErrQueueRequired
	}
	if pipe == nil {
		return nil, ErrPipelineRequired
	}

	w := &Worker{
		queue:       queue,
		pipe:        pipe,
		pollTimeout: defaultPollTimeout,
		backoff:     defaultBackoff,
		poolSize:    defaultPoolSize,
		logger:      slog.Default().With("component", "worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start launches the consume loop. It can be called at most once per
// Worker; subsequent calls return ErrAlreadyStarted.
func (w *Worker) Start(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	pool, err := ants.NewPool(w.poolSize)
	if err != nil {
		w.started.Store(false)
		return err
	}
	w.pool = pool

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(runCtx)
	}()

	w.logger.Info("worker started", "poll_timeout", w.pollTimeout, "pool_size", w.poolSize)
	return nil
}

// Stop cancels the loop and waits for in-flight work to drain.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	if w.pool != nil {
		w.pool.Release()
	}
}

func (w *Worker) run(ctx context.Context) {
	for {
		payload, err := w.queue.Dequeue(ctx, w.pollTimeout)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrQueueEmpty):
				continue
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				w.logger.Info("worker stopping")
				return
			default:
				w.logger.Error("dequeue failed", "err", err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(w.backoff):
				}
				continue
			}
		}

		if err := w.submit(ctx, payload); err != nil {
			// Pool saturation or shutdown; process inline so the payload
			// is never dropped after it left the queue.
			w.process(ctx, payload)
		}
	}
}

func (w *Worker) submit(ctx context.Context, payload []byte) error {
	return w.pool.Submit(func() {
		w.process(ctx, payload)
	})
}

// process runs one payload and classifies failures. Malformed payloads are
// dropped with a warning; infrastructure failures are logged and the item
// is lost, matching at-least-once ingestion with best-effort persistence.
func (w *Worker) process(ctx context.Context, payload []byte) {
	_, err := w.pipe.Process(ctx, payload)
	if err == nil {
		return
	}

	var perr *pipeline.Error
	if errors.As(err, &perr) && perr.Kind == pipeline.KindMalformedInput {
		w.logger.Warn("discarding malformed payload", "err", err)
		return
	}
	w.logger.Error("failed to process payload", "err", err)
}
