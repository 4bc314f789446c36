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

import "errors"

// Domain validation errors
var (
	// ErrInvalidRawItem indicates a RawItem failed validation.
	ErrInvalidRawItem = errors.New("invalid raw item")

	// ErrInvalidRule indicates a PublishingRule failed validation.
	ErrInvalidRule = errors.New("invalid publishing rule")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyContentHash indicates the ContentHash field is empty.
	ErrEmptyContentHash = errors.New("content hash cannot be empty")

	// ErrInvalidCategory indicates a category outside the fixed label set.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrNegativeMinLength indicates a negative minimum summary length.
	ErrNegativeMinLength = errors.New("minimum summary length cannot be negative")
)
