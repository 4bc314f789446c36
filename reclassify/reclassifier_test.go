package reclassify

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/newswire/classify"
	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/storage"
	badgerstore "github.com/poiesic/newswire/storage/badger"
)

func setupStores(t *testing.T) (storage.ArticleRepository, storage.RuleRepository) {
	t.Helper()

	articleRepo, ruleRepo, queue, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		queue.Close()
		ruleRepo.Close()
		articleRepo.Close()
		backend.Close()
	})
	return articleRepo, ruleRepo
}

func storeArticle(t *testing.T, repo storage.ArticleRepository, hash, content string, category core.Category) *core.Article {
	t.Helper()
	article, err := repo.AddArticle(context.Background(), &core.Article{
		Title:                 "article " + hash,
		Content:               content,
		ContentHash:           hash,
		Category:              category,
		Summary:               content,
		ProcessedAt:           time.Now().UTC(),
		ShouldPublish:         true,
		PublishDecisionReason: "no rules defined",
	})
	require.NoError(t, err)
	return article
}

func TestRunUpdatesStaleCategories(t *testing.T) {
	articleRepo, ruleRepo := setupStores(t)

	// Stored as General, but lexical scoring now lands on Technology.
	storeArticle(t, articleRepo, "r-1", "New software and AI tools dominate tech news.", core.CategoryGeneral)

	r := NewReclassifier(articleRepo, ruleRepo, classify.NewLexical(), nil, io.Discard)
	stats, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Scanned)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 0, stats.Failed)

	article, err := articleRepo.GetArticleByHash(context.Background(), "r-1")
	require.NoError(t, err)
	assert.Equal(t, core.CategoryTechnology, article.Category)
}

func TestRunSkipsUnchangedArticles(t *testing.T) {
	articleRepo, ruleRepo := setupStores(t)

	content := "Stock market and bank earnings rose."
	article := storeArticle(t, articleRepo, "r-2", content, core.CategoryFinance)
	// Make the stored summary match what re-enrichment would produce.
	article.Summary = "Stock market and bank earnings rose"
	require.NoError(t, articleRepo.UpdateArticle(context.Background(), article))

	r := NewReclassifier(articleRepo, ruleRepo, classify.NewLexical(), nil, io.Discard)
	stats, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Scanned)
	assert.Equal(t, 0, stats.Updated)
}

func TestRunClassifiesBodyOnly(t *testing.T) {
	articleRepo, ruleRepo := setupStores(t)
	ctx := context.Background()

	// A keyword-heavy title must not pull the article out of General when
	// the body carries no keywords.
	_, err := articleRepo.AddArticle(ctx, &core.Article{
		Title:                 "Stock market bank report",
		Content:               "The village fair returned with pie contests and a tractor parade.",
		ContentHash:           "r-title",
		Category:              core.CategoryFinance,
		Summary:               "stale",
		ProcessedAt:           time.Now().UTC(),
		ShouldPublish:         true,
		PublishDecisionReason: "no rules defined",
	})
	require.NoError(t, err)

	r := NewReclassifier(articleRepo, ruleRepo, classify.NewLexical(), nil, io.Discard)
	stats, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Updated)

	article, err := articleRepo.GetArticleByHash(ctx, "r-title")
	require.NoError(t, err)
	assert.Equal(t, core.CategoryGeneral, article.Category)
}

func TestRunAppliesCurrentRules(t *testing.T) {
	articleRepo, ruleRepo := setupStores(t)

	storeArticle(t, articleRepo, "r-3", "Tiny tech blurb.", core.CategoryGeneral)

	_, err := ruleRepo.AddRule(context.Background(), &core.PublishingRule{MinSummaryLength: 500})
	require.NoError(t, err)

	r := NewReclassifier(articleRepo, ruleRepo, classify.NewLexical(), nil, io.Discard)
	stats, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Updated)

	article, err := articleRepo.GetArticleByHash(context.Background(), "r-3")
	require.NoError(t, err)
	assert.False(t, article.ShouldPublish)
	assert.Equal(t, "summary too short for Technology", article.PublishDecisionReason)
}

func TestRunEmptyStore(t *testing.T) {
	articleRepo, ruleRepo := setupStores(t)

	r := NewReclassifier(articleRepo, ruleRepo, classify.NewLexical(), nil, io.Discard)
	stats, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Scanned)
}

func TestRunReportsProgress(t *testing.T) {
	articleRepo, ruleRepo := setupStores(t)

	for i := 0; i < 3; i++ {
		storeArticle(t, articleRepo, string(rune('a'+i)), "Plain content with no keywords.", core.CategoryGeneral)
	}

	var buf bytes.Buffer
	config := &Config{ReportInterval: 1, SummaryMaxLength: 150}
	r := NewReclassifier(articleRepo, ruleRepo, classify.NewLexical(), config, &buf)

	_, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Starting reclassification of 3 articles")
	assert.Contains(t, buf.String(), "Reclassification complete")
}
