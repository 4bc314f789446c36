package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/storage"
)

// ArticleRepository implements storage.ArticleRepository for BadgerDB.
type ArticleRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ArticleRepository = (*ArticleRepository)(nil)

// NewArticleRepository creates a new ArticleRepository.
func NewArticleRepository(backend *Backend) (*ArticleRepository, error) {
	idSeq, err := backend.GetSequence(articleIDSeq)
	if err != nil {
		return nil, err
	}

	return &ArticleRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ArticleRepository) Close() error {
	return r.idSeq.Release()
}

// AddArticle inserts one enriched article with a fresh sequence ID.
func (r *ArticleRepository) AddArticle(ctx context.Context, article *core.Article) (*core.Article, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		nextID, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if nextID == 0 {
			nextID, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}
		article.Id = core.ID(nextID)

		if article.ProcessedAt.IsZero() {
			article.ProcessedAt = time.Now().UTC()
		}

		// Store primary record
		if err := tx.Set(makeArticleKey(article.Id), storage.MarshalArticle(article)); err != nil {
			return err
		}

		// Update processed-at index
		procKey := makeArticleProcKey(article.ProcessedAt.UnixMicro(), article.Id)
		if err := tx.Set(procKey, storage.MarshalID(article.Id)); err != nil {
			return err
		}

		// Update hash index; duplicate hashes are allowed, latest insert wins
		if article.ContentHash != "" {
			if err := tx.Set(makeArticleHashKey(article.ContentHash), storage.MarshalID(article.Id)); err != nil {
				return err
			}
		}

		return tx.Commit()
	}, true)

	return article, err
}

// UpdateArticle overwrites an existing article in place.
func (r *ArticleRepository) UpdateArticle(ctx context.Context, article *core.Article) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeArticleKey(article.Id)

		old, err := r.readArticle(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		if err := tx.Set(key, storage.MarshalArticle(article)); err != nil {
			return err
		}

		// Move the processed-at index entry if the timestamp changed
		if !old.ProcessedAt.Equal(article.ProcessedAt) {
			oldProcKey := makeArticleProcKey(old.ProcessedAt.UnixMicro(), old.Id)
			if err := tx.Delete(oldProcKey); err != nil {
				return err
			}
			newProcKey := makeArticleProcKey(article.ProcessedAt.UnixMicro(), article.Id)
			if err := tx.Set(newProcKey, storage.MarshalID(article.Id)); err != nil {
				return err
			}
		}

		return tx.Commit()
	}, true)
}

// GetArticleByHash retrieves the most recent article with the given hash.
func (r *ArticleRepository) GetArticleByHash(ctx context.Context, hash string) (*core.Article, error) {
	var article *core.Article

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeArticleHashKey(hash))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		var id core.ID
		if err := item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return err
		}

		article, err = r.readArticle(tx, makeArticleKey(id))
		if err != nil {
			return err
		}
		if article == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return article, nil
}

// ListArticles returns up to limit articles matching the filter, most
// recently processed first. It walks the processed-at index in reverse.
func (r *ArticleRepository) ListArticles(ctx context.Context, filter storage.ArticleFilter, limit int) ([]*core.Article, error) {
	var results []*core.Article

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := articleProcKeyPrefix()
		// Seek past the last possible index key so reverse iteration starts
		// at the newest entry.
		seek := append(append([]byte{}, prefix...), 0xFF)

		for iter.Seek(seek); iter.ValidForPrefix(prefix); iter.Next() {
			var id core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			article, err := r.readArticle(tx, makeArticleKey(id))
			if err != nil {
				return err
			}
			if article == nil || !matchesFilter(article, filter) {
				continue
			}

			results = append(results, article)
			if limit > 0 && len(results) >= limit {
				return nil
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return results, nil
}

// CountArticles counts articles matching the filter.
func (r *ArticleRepository) CountArticles(ctx context.Context, filter storage.ArticleFilter) (int, error) {
	count := 0
	err := r.ForEachArticle(ctx, func(article *core.Article) error {
		if matchesFilter(article, filter) {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ForEachArticle visits every stored article in primary key order.
func (r *ArticleRepository) ForEachArticle(ctx context.Context, fn func(*core.Article) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(articlePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var article *core.Article
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				article, err = storage.UnmarshalArticle(val)
				return err
			}); err != nil {
				return err
			}
			if article == nil {
				continue
			}
			if err := fn(article); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// readArticle reads one article by key, returning nil when absent.
func (r *ArticleRepository) readArticle(tx *badger.Txn, key []byte) (*core.Article, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var article *core.Article
	err = item.Value(func(val []byte) error {
		var err error
		article, err = storage.UnmarshalArticle(val)
		return err
	})
	return article, err
}

func matchesFilter(article *core.Article, filter storage.ArticleFilter) bool {
	if filter.Category != "" && article.Category != filter.Category {
		return false
	}
	if filter.PublishableOnly && !article.ShouldPublish {
		return false
	}
	return true
}
