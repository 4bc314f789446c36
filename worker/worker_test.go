package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/newswire/classify"
	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/pipeline"
	"github.com/poiesic/newswire/storage"
	badgerstore "github.com/poiesic/newswire/storage/badger"
)

func setupWorker(t *testing.T, opts ...Option) (*Worker, storage.Queue, storage.ArticleRepository) {
	t.Helper()

	articleRepo, ruleRepo, queue, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		queue.Close()
		ruleRepo.Close()
		articleRepo.Close()
		backend.Close()
	})

	pipe, err := pipeline.New(articleRepo, ruleRepo, classify.NewLexical())
	require.NoError(t, err)

	opts = append([]Option{WithPollTimeout(50 * time.Millisecond)}, opts...)
	w, err := New(queue, pipe, opts...)
	require.NoError(t, err)
	return w, queue, articleRepo
}

func enqueueItem(t *testing.T, queue storage.Queue, item *core.RawItem) {
	t.Helper()
	payload, err := json.Marshal(item)
	require.NoError(t, err)
	require.NoError(t, queue.Enqueue(context.Background(), payload))
}

func waitForCount(t *testing.T, repo storage.ArticleRepository, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		count, err := repo.CountArticles(context.Background(), storage.ArticleFilter{})
		require.NoError(t, err)
		if count >= want {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %d articles", want)
}

func TestWorkerProcessesQueuedItems(t *testing.T) {
	w, queue, articleRepo := setupWorker(t)

	enqueueItem(t, queue, &core.RawItem{
		Title:       "Market rally",
		Content:     "Stock market gains as bank earnings beat estimates.",
		ContentHash: "w-1",
	})

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	waitForCount(t, articleRepo, 1)

	article, err := articleRepo.GetArticleByHash(context.Background(), "w-1")
	require.NoError(t, err)
	assert.Equal(t, core.CategoryFinance, article.Category)
}

func TestWorkerSurvivesMalformedPayload(t *testing.T) {
	w, queue, articleRepo := setupWorker(t)

	require.NoError(t, queue.Enqueue(context.Background(), []byte("{broken")))
	enqueueItem(t, queue, &core.RawItem{
		Title:       "Valid after garbage",
		Content:     "The hospital announced a new medical research wing.",
		ContentHash: "w-2",
	})

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	// The malformed payload must not stall the loop.
	waitForCount(t, articleRepo, 1)

	article, err := articleRepo.GetArticleByHash(context.Background(), "w-2")
	require.NoError(t, err)
	assert.Equal(t, core.CategoryHealth, article.Category)
}

func TestWorkerStartIsOneShot(t *testing.T) {
	w, _, _ := setupWorker(t)

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	err := w.Start(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestWorkerStopsOnContextCancel(t *testing.T) {
	w, _, _ := setupWorker(t)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))

	cancel()

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Worker did not stop after cancellation")
	}
}

// flakyQueue fails every Dequeue to exercise the backoff path.
type flakyQueue struct {
	calls chan struct{}
}

func (f *flakyQueue) Enqueue(ctx context.Context, payload []byte) error { return nil }

func (f *flakyQueue) Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error) {
	select {
	case f.calls <- struct{}{}:
	default:
	}
	return nil, errors.New("backend unavailable")
}

func (f *flakyQueue) Len(ctx context.Context) (int, error) { return 0, nil }
func (f *flakyQueue) Close() error                         { return nil }

func TestWorkerBacksOffOnQueueFailure(t *testing.T) {
	articleRepo, ruleRepo, queue, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	defer func() {
		queue.Close()
		ruleRepo.Close()
		articleRepo.Close()
		backend.Close()
	}()

	pipe, err := pipeline.New(articleRepo, ruleRepo, classify.NewLexical())
	require.NoError(t, err)

	flaky := &flakyQueue{calls: make(chan struct{}, 16)}
	w, err := New(flaky, pipe, WithBackoff(30*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))

	// The loop must keep retrying rather than spinning hot or exiting.
	for i := 0; i < 3; i++ {
		select {
		case <-flaky.calls:
		case <-time.After(5 * time.Second):
			t.Fatal("Worker stopped retrying the queue")
		}
	}

	w.Stop()
}
