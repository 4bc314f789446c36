package badger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/newswire/storage"
)

// defaultPollInterval is how often a blocked Dequeue re-checks the keyspace.
const defaultPollInterval = 100 * time.Millisecond

// QueueStore implements storage.Queue on a BadgerDB keyspace. Payloads live
// under BigEndian sequence keys, so key order is enqueue order. Dequeue
// deletes the head inside a write transaction; a payload therefore belongs
// to exactly one consumer once the commit lands (at-least-once delivery).
type QueueStore struct {
	backend      *Backend
	seq          *badger.Sequence
	pollInterval time.Duration
	logger       *slog.Logger
}

var _ storage.Queue = (*QueueStore)(nil)

// NewQueue creates a queue on the given backend.
func NewQueue(backend *Backend) (*QueueStore, error) {
	seq, err := backend.GetSequence(queueSeqKey)
	if err != nil {
		return nil, err
	}

	return &QueueStore{
		backend:      backend,
		seq:          seq,
		pollInterval: defaultPollInterval,
		logger:       slog.Default().With("component", "queue"),
	}, nil
}

// Close releases the sequence.
func (q *QueueStore) Close() error {
	return q.seq.Release()
}

// Enqueue appends one payload to the tail of the queue.
func (q *QueueStore) Enqueue(ctx context.Context, payload []byte) error {
	return q.backend.WithTx(func(tx *badger.Txn) error {
		seq, err := q.seq.Next()
		if err != nil {
			return err
		}
		if err := tx.Set(makeQueueKey(seq), payload); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Dequeue pops the head of the queue, blocking up to timeout.
// Returns storage.ErrQueueEmpty when the timeout elapses with no payload.
func (q *QueueStore) Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)

	for {
		payload, ok, err := q.tryDequeue()
		if err != nil {
			return nil, err
		}
		if ok {
			return payload, nil
		}

		if !time.Now().Before(deadline) {
			return nil, storage.ErrQueueEmpty
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(q.pollInterval):
		}
	}
}

// tryDequeue attempts to pop the head once. ok is false when the queue is
// empty or when another consumer won a commit race.
func (q *QueueStore) tryDequeue() ([]byte, bool, error) {
	var payload []byte
	found := false

	err := q.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(queuePrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)

		var key []byte
		iter.Rewind()
		if iter.Valid() {
			item := iter.Item()
			key = item.KeyCopy(nil)
			var err error
			payload, err = item.ValueCopy(nil)
			if err != nil {
				iter.Close()
				return err
			}
			found = true
		}
		iter.Close()

		if !found {
			return nil
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	if errors.Is(err, badger.ErrConflict) {
		// Another consumer popped the same head; treat as a miss and retry.
		q.logger.Debug("dequeue commit conflict, retrying")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, found, nil
}

// Len reports the number of queued payloads.
func (q *QueueStore) Len(ctx context.Context) (int, error) {
	count := 0
	err := q.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(queuePrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)

	if err != nil {
		return 0, err
	}
	return count, nil
}
