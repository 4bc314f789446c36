package classify

import (
	"context"
	"log/slog"

	"github.com/poiesic/newswire/core"
)

// Fallback composes a primary classifier with the lexical strategy.
// Any failure of the primary degrades to the lexical result for that item;
// the failure is logged, never propagated. With a nil primary, Fallback is
// just the lexical strategy.
type Fallback struct {
	primary Classifier
	lexical *Lexical
	logger  *slog.Logger
}

var _ Classifier = (*Fallback)(nil)

// NewFallback creates a fallback classifier. primary may be nil.
func NewFallback(primary Classifier, logger *slog.Logger) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{
		primary: primary,
		lexical: NewLexical(),
		logger:  logger.With("component", "classify-fallback"),
	}
}

// Classify is total: it always returns a label from the fixed set and a nil
// error, regardless of what the primary strategy does.
func (f *Fallback) Classify(ctx context.Context, text string) (core.Category, error) {
	if f.primary != nil {
		category, err := f.primary.Classify(ctx, text)
		if err == nil {
			return category, nil
		}
		f.logger.Warn("remote classification failed, falling back to lexical", "err", err)
	}
	return f.lexical.Classify(ctx, text)
}
