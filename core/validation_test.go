package core

import (
	"errors"
	"testing"
)

func TestValidateRawItem(t *testing.T) {
	valid := RawItem{
		Title:       "X",
		Link:        "l",
		Source:      "s",
		Content:     "some content",
		ContentHash: "h1",
	}

	if err := ValidateRawItem(&valid); err != nil {
		t.Fatalf("expected valid item, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*RawItem)
		want   error
	}{
		{"missing title", func(r *RawItem) { r.Title = "" }, ErrEmptyTitle},
		{"missing content", func(r *RawItem) { r.Content = "" }, ErrEmptyContent},
		{"missing hash", func(r *RawItem) { r.ContentHash = "" }, ErrEmptyContentHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := valid
			tt.mutate(&item)
			err := ValidateRawItem(&item)
			if !errors.Is(err, ErrInvalidRawItem) {
				t.Errorf("expected ErrInvalidRawItem, got %v", err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if err := ValidateRawItem(nil); !errors.Is(err, ErrInvalidRawItem) {
		t.Errorf("expected ErrInvalidRawItem for nil item, got %v", err)
	}
}

func TestValidateRule(t *testing.T) {
	if err := ValidateRule(&PublishingRule{Category: CategoryTechnology, MinSummaryLength: 10}); err != nil {
		t.Fatalf("expected valid rule, got %v", err)
	}

	// Empty category applies to all categories.
	if err := ValidateRule(&PublishingRule{MinSummaryLength: 0}); err != nil {
		t.Fatalf("expected valid catch-all rule, got %v", err)
	}

	if err := ValidateRule(&PublishingRule{Category: "Sports"}); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}

	if err := ValidateRule(&PublishingRule{MinSummaryLength: -1}); !errors.Is(err, ErrNegativeMinLength) {
		t.Errorf("expected ErrNegativeMinLength, got %v", err)
	}

	if err := ValidateRule(nil); !errors.Is(err, ErrInvalidRule) {
		t.Errorf("expected ErrInvalidRule for nil rule, got %v", err)
	}
}
