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

// Package storage provides the storage abstraction layer for newswire.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic. It allows different backends
// (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// This package follows a "return interface" pattern for public constructors
// to enforce abstraction and enable multiple backend implementations:
//
//	articles, err := badger.NewArticleRepository(backend)  // storage.ArticleRepository
//
// Internal package constructors may return concrete types since they are
// only used within the implementation package.
//
// # Components
//
//   - ArticleRepository: append-only enriched article collection, plus the
//     administrative update path used by reclassification
//   - RuleRepository: publishing rules, returned in stored order
//   - Queue: the FIFO ingestion queue with a blocking, timeout-bounded pop
//
// # Thread Safety
//
// All implementations must be thread-safe and support concurrent access
// from multiple goroutines.
package storage
