package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/storage"
)

func setupArticles(t *testing.T) (storage.ArticleRepository, func()) {
	t.Helper()
	articleRepo, ruleRepo, queue, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	cleanup := func() {
		queue.Close()
		ruleRepo.Close()
		articleRepo.Close()
		backend.Close()
	}
	return articleRepo, cleanup
}

func makeArticle(title, hash string, category core.Category, processedAt time.Time) *core.Article {
	return &core.Article{
		Title:                 title,
		Link:                  "https://example.org/" + hash,
		Source:                "test",
		Content:               "content for " + title,
		ContentHash:           hash,
		Category:              category,
		Summary:               "summary for " + title,
		ProcessedAt:           processedAt,
		ShouldPublish:         true,
		PublishDecisionReason: "no rules defined",
	}
}

func TestArticleAddAndLookupByHash(t *testing.T) {
	repo, cleanup := setupArticles(t)
	defer cleanup()

	ctx := context.Background()
	article := makeArticle("First", "h1", core.CategoryTechnology, time.Now().UTC())

	added, err := repo.AddArticle(ctx, article)
	if err != nil {
		t.Fatalf("Failed to add article: %v", err)
	}
	if added.Id == 0 {
		t.Fatal("Expected non-zero ID")
	}

	found, err := repo.GetArticleByHash(ctx, "h1")
	if err != nil {
		t.Fatalf("Failed to look up article: %v", err)
	}
	if found.Title != "First" {
		t.Fatalf("Expected 'First', got %q", found.Title)
	}

	if _, err := repo.GetArticleByHash(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestArticleDuplicateHashLatestWins(t *testing.T) {
	repo, cleanup := setupArticles(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := repo.AddArticle(ctx, makeArticle("Older", "dup", core.CategoryGeneral, now)); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.AddArticle(ctx, makeArticle("Newer", "dup", core.CategoryGeneral, now.Add(time.Second))); err != nil {
		t.Fatal(err)
	}

	found, err := repo.GetArticleByHash(ctx, "dup")
	if err != nil {
		t.Fatal(err)
	}
	if found.Title != "Newer" {
		t.Fatalf("Expected latest insert to win, got %q", found.Title)
	}

	count, err := repo.CountArticles(ctx, storage.ArticleFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("Expected both records kept, got %d", count)
	}
}

func TestArticleListOrderAndLimit(t *testing.T) {
	repo, cleanup := setupArticles(t)
	defer cleanup()

	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	for i, title := range []string{"a", "b", "c", "d"} {
		article := makeArticle(title, title, core.CategoryTechnology, base.Add(time.Duration(i)*time.Minute))
		if _, err := repo.AddArticle(ctx, article); err != nil {
			t.Fatal(err)
		}
	}

	listed, err := repo.ListArticles(ctx, storage.ArticleFilter{}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 3 {
		t.Fatalf("Expected 3 articles, got %d", len(listed))
	}
	// Most recently processed first
	for i, want := range []string{"d", "c", "b"} {
		if listed[i].Title != want {
			t.Fatalf("Position %d: expected %q, got %q", i, want, listed[i].Title)
		}
	}
}

func TestArticleListFilterByCategory(t *testing.T) {
	repo, cleanup := setupArticles(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := repo.AddArticle(ctx, makeArticle("tech", "t1", core.CategoryTechnology, now)); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.AddArticle(ctx, makeArticle("fin", "f1", core.CategoryFinance, now.Add(time.Second))); err != nil {
		t.Fatal(err)
	}

	listed, err := repo.ListArticles(ctx, storage.ArticleFilter{Category: core.CategoryFinance}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 || listed[0].Title != "fin" {
		t.Fatalf("Expected only the finance article, got %v", listed)
	}

	count, err := repo.CountArticles(ctx, storage.ArticleFilter{Category: core.CategoryTechnology})
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 technology article, got %d", count)
	}
}

func TestArticleCountPublishable(t *testing.T) {
	repo, cleanup := setupArticles(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()

	published := makeArticle("pub", "p1", core.CategoryGeneral, now)
	rejected := makeArticle("rej", "r1", core.CategoryGeneral, now)
	rejected.ShouldPublish = false
	rejected.PublishDecisionReason = "summary too short for General"

	if _, err := repo.AddArticle(ctx, published); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.AddArticle(ctx, rejected); err != nil {
		t.Fatal(err)
	}

	count, err := repo.CountArticles(ctx, storage.ArticleFilter{PublishableOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 publishable article, got %d", count)
	}
}

func TestArticleUpdate(t *testing.T) {
	repo, cleanup := setupArticles(t)
	defer cleanup()

	ctx := context.Background()
	article := makeArticle("original", "u1", core.CategoryGeneral, time.Now().UTC())

	added, err := repo.AddArticle(ctx, article)
	if err != nil {
		t.Fatal(err)
	}

	added.Category = core.CategoryTechnology
	if err := repo.UpdateArticle(ctx, added); err != nil {
		t.Fatalf("Failed to update: %v", err)
	}

	found, err := repo.GetArticleByHash(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if found.Category != core.CategoryTechnology {
		t.Fatalf("Expected updated category, got %q", found.Category)
	}

	missing := makeArticle("ghost", "g1", core.CategoryGeneral, time.Now().UTC())
	missing.Id = 9999
	if err := repo.UpdateArticle(ctx, missing); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}
