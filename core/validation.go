// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import "fmt"

// ValidateRawItem validates a queue payload according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - Content must not be empty
//   - ContentHash must not be empty
//
// NOT validated:
//   - Link and Source (optional on the wire)
//   - PublishedAt (carried verbatim, never parsed)
func ValidateRawItem(item *RawItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidRawItem)
	}

	if item.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRawItem, ErrEmptyTitle)
	}

	if item.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRawItem, ErrEmptyContent)
	}

	if item.ContentHash == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRawItem, ErrEmptyContentHash)
	}

	return nil
}

// ValidateRule validates a publishing rule before it is stored.
//
// Validation rules:
//   - Category, when set, must belong to the fixed label set
//   - MinSummaryLength must not be negative
//
// An empty Category is valid and means the rule applies to all categories.
func ValidateRule(rule *PublishingRule) error {
	if rule == nil {
		return fmt.Errorf("%w: rule is nil", ErrInvalidRule)
	}

	if rule.Category != "" && !rule.Category.IsValid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidRule, ErrInvalidCategory, rule.Category)
	}

	if rule.MinSummaryLength < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRule, ErrNegativeMinLength)
	}

	return nil
}
