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

// Package openai implements the remote classification strategy against
// OpenAI-compatible chat APIs (OpenAI, Ollama, LocalAI, vLLM).
//
// The classifier submits a bounded prefix of the article text with a system
// instruction constraining the answer to the fixed label set, temperature 0,
// and a short completion cap. The response is validated before acceptance;
// anything outside the label set is an error, which the caller's fallback
// turns into a lexical classification.
package openai
