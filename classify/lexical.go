package classify

import (
	"context"
	"strings"

	"github.com/poiesic/newswire/core"
)

// categoryKeywords drives the lexical strategy. A keyword scores one point
// for a category when it appears anywhere in the lowercased text; repeated
// occurrences of the same keyword do not score again.
var categoryKeywords = map[core.Category][]string{
	core.CategoryTechnology:    {"tech", "software", "ai", "computer", "digital", "app", "code"},
	core.CategoryFinance:       {"money", "bank", "stock", "market", "invest", "economy", "finance"},
	core.CategoryHealth:        {"health", "medical", "doctor", "disease", "hospital", "medicine"},
	core.CategoryPolitics:      {"government", "election", "president", "vote", "congress", "senate"},
	core.CategoryEntertainment: {"movie", "music", "celebrity", "film", "concert", "show"},
}

// Lexical classifies text by counting keyword matches per category.
// It is deterministic, has no external dependencies, and never fails.
type Lexical struct{}

var _ Classifier = (*Lexical)(nil)

// NewLexical creates the lexical keyword classifier.
func NewLexical() *Lexical {
	return &Lexical{}
}

// Classify scores every category in core.Categories order and returns the one
// with the strictly highest score. Ties resolve to the first maximal category
// in that order, which keeps repeated calls deterministic. When no keyword
// matches at all, the catch-all General is returned. The error is always nil.
func (l *Lexical) Classify(_ context.Context, text string) (core.Category, error) {
	lowered := strings.ToLower(text)

	best := core.CategoryGeneral
	bestScore := 0
	for _, category := range core.Categories {
		score := 0
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(lowered, keyword) {
				score++
			}
		}
		if score > bestScore {
			best = category
			bestScore = score
		}
	}

	return best, nil
}
