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

package badger

import "github.com/poiesic/newswire/storage"

// NewMemoryStores creates in-memory article, rule, and queue stores for
// testing. Returns articleRepo, ruleRepo, queue, backend, and error.
// Caller must close all four when done.
func NewMemoryStores() (storage.ArticleRepository, storage.RuleRepository, storage.Queue, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	articleRepo, err := NewArticleRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, nil, err
	}

	ruleRepo, err := NewRuleRepository(backend)
	if err != nil {
		articleRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	queue, err := NewQueue(backend)
	if err != nil {
		ruleRepo.Close()
		articleRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	return articleRepo, ruleRepo, queue, backend, nil
}
