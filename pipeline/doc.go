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

// Package pipeline turns raw queue payloads into persisted, enriched
// articles. Each payload passes through decode, validation,
// classification, summarization, and the publishing rule engine before
// being written to the article store.
//
// Processing is deliberately sequential per item. Rules are re-read from
// the store on every item, so rule changes take effect on the next
// payload without a restart.
package pipeline
