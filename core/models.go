package core

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for persisted records.
// IDs are generated from database sequences at insert time.
type ID uint64

// Category is a content category label.
type Category string

// The fixed label set. General is the catch-all assigned when no strategy
// produces a confident match.
const (
	CategoryTechnology    Category = "Technology"
	CategoryFinance       Category = "Finance"
	CategoryHealth        Category = "Health"
	CategoryPolitics      Category = "Politics"
	CategoryEntertainment Category = "Entertainment"
	CategoryGeneral       Category = "General"
)

// Categories is the stable ordering used for lexical scoring and tie-breaking.
// When several categories tie for the highest score, the first one in this
// slice wins. The order is part of the classifier contract; do not reorder.
var Categories = []Category{
	CategoryTechnology,
	CategoryFinance,
	CategoryHealth,
	CategoryPolitics,
	CategoryEntertainment,
}

// ParseCategory maps a string to a Category from the fixed label set.
// Matching is case-insensitive. Returns false for anything outside the set,
// including the empty string.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(CategoryGeneral)) {
		return CategoryGeneral, true
	}
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

// IsValid reports whether c belongs to the fixed label set (General included).
func (c Category) IsValid() bool {
	_, ok := ParseCategory(string(c))
	return ok
}

// RawItem is the queue payload produced by an external ingester.
// The JSON tags define the wire shape; PublishedAt is carried verbatim as
// received and never parsed here.
type RawItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Source      string `json:"source"`
	PublishedAt string `json:"pubDate,omitempty"`
	Content     string `json:"content"`
	ContentHash string `json:"hash"`
}

// Article is an enriched content record. It is created once per successful
// pipeline run and is immutable afterwards; corrections arrive as new records
// or through the administrative reclassify path.
type Article struct {
	Id                    ID        `json:"id"`
	Title                 string    `json:"title"`
	Link                  string    `json:"link"`
	Source                string    `json:"source"`
	PublishedAt           string    `json:"pub_date,omitempty"`
	Content               string    `json:"content"`
	ContentHash           string    `json:"hash"`
	Category              Category  `json:"category"`
	Summary               string    `json:"summary"`
	ProcessedAt           time.Time `json:"processed_at"`
	ShouldPublish         bool      `json:"should_publish"`
	PublishDecisionReason string    `json:"publish_decision_reason"`
}

// PublishingRule gates publication of enriched articles.
// An empty Category means the rule applies to every category.
// An empty rule set means "always publish".
type PublishingRule struct {
	Id               ID        `json:"id"`
	Category         Category  `json:"category,omitempty"`
	MinSummaryLength int       `json:"min_summary_length"`
	CreatedAt        time.Time `json:"created_at"`
}

// HashContent derives a stable deduplication key from text using BLAKE2b-256.
// The pipeline treats incoming hashes as opaque; this helper exists for
// producers that enqueue items from this process.
func HashContent(text string) string {
	h, _ := blake2b.New(32, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
