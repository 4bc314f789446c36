package newswire

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/storage"
)

func openTestService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()
	opts = append([]ServiceOption{WithInMemoryStorage()}, opts...)
	svc, err := Open("", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestEnqueueAndWorkerRoundTrip(t *testing.T) {
	svc := openTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Enqueue(ctx, &core.RawItem{
		Title:       "Election night",
		Content:     "The government announced election results as congress convened.",
		ContentHash: "svc-1",
	}))

	w, err := svc.NewWorker()
	require.NoError(t, err)
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		article, err := svc.ArticleRepository().GetArticleByHash(ctx, "svc-1")
		if err == nil {
			assert.Equal(t, core.CategoryPolitics, article.Category)
			assert.True(t, article.ShouldPublish)
			return
		}
		require.ErrorIs(t, err, storage.ErrNotFound)
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("Timed out waiting for the worker to process the item")
}

func TestEnqueueRejectsInvalidItems(t *testing.T) {
	svc := openTestService(t)

	err := svc.Enqueue(context.Background(), &core.RawItem{Content: "c", ContentHash: "h"})
	assert.ErrorIs(t, err, core.ErrEmptyTitle)

	queued, err := svc.Queue().Len(context.Background())
	require.NoError(t, err)
	assert.Zero(t, queued)
}

func TestSynchronousProcessing(t *testing.T) {
	svc := openTestService(t)

	article, err := svc.Pipeline().Process(context.Background(),
		[]byte(`{"title":"Doctor shortage","content":"Hospital and medical staffing fell.","hash":"svc-2"}`))
	require.NoError(t, err)
	assert.Equal(t, core.CategoryHealth, article.Category)
}

func TestServiceReclassify(t *testing.T) {
	svc := openTestService(t)
	ctx := context.Background()

	_, err := svc.ArticleRepository().AddArticle(ctx, &core.Article{
		Title:         "Mislabeled",
		Content:       "New AI software and digital code tools.",
		ContentHash:   "svc-3",
		Category:      core.CategoryGeneral,
		Summary:       "stale",
		ProcessedAt:   time.Now().UTC(),
		ShouldPublish: true,
	})
	require.NoError(t, err)

	stats, err := svc.Reclassify(ctx, io.Discard, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Scanned)
	assert.Equal(t, 1, stats.Updated)

	article, err := svc.ArticleRepository().GetArticleByHash(ctx, "svc-3")
	require.NoError(t, err)
	assert.Equal(t, core.CategoryTechnology, article.Category)
}

func TestServiceServerWiring(t *testing.T) {
	svc := openTestService(t)

	s, err := svc.NewServer("127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	assert.NotEmpty(t, s.Addr())
	cancel()
	s.Stop()
}
