package classify

import (
	"context"

	"github.com/poiesic/newswire/core"
)

// Classifier maps raw text to a category label.
// Implementations must be thread-safe for concurrent use.
type Classifier interface {
	// Classify returns a category for the given text. Strategies that depend
	// on external services may return an error; callers that need a total
	// function should wrap the strategy in a Fallback.
	Classify(ctx context.Context, text string) (core.Category, error)
}
