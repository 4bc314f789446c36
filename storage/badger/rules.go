package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/storage"
)

// RuleRepository implements storage.RuleRepository for BadgerDB.
// Rule keys embed BigEndian IDs, so iteration order is insertion order,
// which is the order the rule engine evaluates in.
type RuleRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.RuleRepository = (*RuleRepository)(nil)

// NewRuleRepository creates a new RuleRepository.
func NewRuleRepository(backend *Backend) (*RuleRepository, error) {
	idSeq, err := backend.GetSequence(ruleIDSeq)
	if err != nil {
		return nil, err
	}

	return &RuleRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *RuleRepository) Close() error {
	return r.idSeq.Release()
}

// AddRule inserts one rule with a fresh sequence ID and CreatedAt stamp.
func (r *RuleRepository) AddRule(ctx context.Context, rule *core.PublishingRule) (*core.PublishingRule, error) {
	if err := core.ValidateRule(rule); err != nil {
		return nil, err
	}

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
		rule.Id = core.ID(nextID)
		rule.CreatedAt = time.Now().UTC()

		if err := tx.Set(makeRuleKey(rule.Id), storage.MarshalRule(rule)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return rule, err
}

// GetRules returns all rules in stored order.
func (r *RuleRepository) GetRules(ctx context.Context) ([]*core.PublishingRule, error) {
	var ruleSet []*core.PublishingRule

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(rulePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var rule *core.PublishingRule
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				rule, err = storage.UnmarshalRule(val)
				return err
			}); err != nil {
				return err
			}
			if rule != nil {
				ruleSet = append(ruleSet, rule)
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return ruleSet, nil
}
