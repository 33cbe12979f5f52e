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


// Package ai provides abstractions for the text embedding services used by cellmatch.
//
// The matcher depends on the Embedder interface only. Concrete implementations live in
// subpackages:
//
//   - ai/openai: OpenAI-compatible embedding endpoints (a served DistilBERT encoder,
//     Ollama, vLLM, text-embeddings-inference) through langchaingo
//   - ai/tfidf: an offline TF-IDF embedder fitted on the dataset
//   - ai/mock: deterministic test doubles
//
// Providers are selected and configured with Config.
package ai
