package storage

import (
	"context"
	"time"

	"github.com/poiesic/newswire/core"
)

// ArticleFilter narrows article listing and counting operations.
// The zero value matches everything.
type ArticleFilter struct {
	// Category matches articles with exactly this category when set.
	Category core.Category

	// PublishableOnly matches only articles with ShouldPublish set.
	PublishableOnly bool
}

// ArticleRepository provides operations for enriched articles.
// The collection is append-only from the pipeline's perspective;
// UpdateArticle exists for the administrative reclassification path only.
type ArticleRepository interface {
	// AddArticle inserts one enriched article.
	// Generates a new ID from sequence and returns the article with it set.
	// Duplicate content hashes are permitted; the hash index points at the
	// most recently inserted record for a hash.
	AddArticle(ctx context.Context, article *core.Article) (*core.Article, error)

	// UpdateArticle overwrites an existing article in place, keyed by ID.
	// Returns ErrNotFound if the article doesn't exist.
	UpdateArticle(ctx context.Context, article *core.Article) error

	// GetArticleByHash retrieves the most recent article with the given
	// content hash. Returns ErrNotFound if none exists.
	GetArticleByHash(ctx context.Context, hash string) (*core.Article, error)

	// ListArticles returns up to limit articles matching the filter, ordered
	// by ProcessedAt descending. A limit of zero or less applies no limit.
	ListArticles(ctx context.Context, filter ArticleFilter, limit int) ([]*core.Article, error)

	// CountArticles counts articles matching the filter.
	CountArticles(ctx context.Context, filter ArticleFilter) (int, error)

	// ForEachArticle visits every stored article in key order.
	// Iteration stops at the first error returned by fn.
	ForEachArticle(ctx context.Context, fn func(*core.Article) error) error

	// Close releases repository resources.
	Close() error
}

// RuleRepository provides operations for publishing rules.
// The pipeline only reads; rules are written by the administrative surface.
type RuleRepository interface {
	// AddRule inserts one rule. Generates a new ID from sequence, stamps
	// CreatedAt, and returns the rule with both populated.
	AddRule(ctx context.Context, rule *core.PublishingRule) (*core.PublishingRule, error)

	// GetRules returns all rules in stored (insertion) order.
	GetRules(ctx context.Context) ([]*core.PublishingRule, error)

	// Close releases repository resources.
	Close() error
}

// Queue is the FIFO ingestion queue. Payloads are opaque bytes; the worker
// hands them to the pipeline for decoding. Delivery is at-least-once: a
// popped payload belongs exclusively to the caller until processed or lost.
type Queue interface {
	// Enqueue appends one payload to the tail of the queue.
	Enqueue(ctx context.Context, payload []byte) error

	// Dequeue pops the head of the queue, blocking up to timeout for an item
	// to arrive. Returns ErrQueueEmpty when the timeout elapses with nothing
	// to deliver, or the context error when ctx is done first.
	Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error)

	// Len reports the number of queued payloads.
	Len(ctx context.Context) (int, error)

	// Close releases queue resources.
	Close() error
}
