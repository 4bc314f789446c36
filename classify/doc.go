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

// Package classify assigns category labels to raw article text.
//
// Two interchangeable strategies are provided:
//
//   - Lexical: deterministic keyword scoring with no external dependency.
//     Always available, never fails.
//   - Remote (subpackage openai): delegates to an OpenAI-compatible chat
//     completion call. May fail for transport, timeout, credential, or
//     out-of-set-label reasons.
//
// Production code composes the two through Fallback, which tries the remote
// strategy when one is configured and silently degrades to the lexical
// strategy on any failure. Fallback.Classify is a total function: it always
// returns a label from the fixed set in core and never returns an error.
//
// Strategy selection is resolved once at startup by the composition root,
// not per item.
package classify
