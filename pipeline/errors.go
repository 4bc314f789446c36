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

package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrArticleRepositoryRequired = errors.New("article repository is required")
	ErrRuleRepositoryRequired    = errors.New("rule repository is required")
	ErrClassifierRequired        = errors.New("classifier is required")
)

// Kind distinguishes the stage a payload failed at. Malformed input is a
// payload problem and the item is discarded; the other kinds are
// infrastructure problems.
type Kind int

const (
	KindMalformedInput Kind = iota
	KindRuleLookup
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindMalformedInput:
		return "malformed input"
	case KindRuleLookup:
		return "rule lookup"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error wraps a processing failure with the stage it occurred at and
// whatever identifying detail the payload carried.
type Error struct {
	Kind  Kind
	Title string
	Hash  string
	Err   error
}

func (e *Error) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("%s failure for %q: %v", e.Kind, e.Title, e.Err)
	}
	return fmt.Sprintf("%s failure: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
