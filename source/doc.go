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


// Package source discovers the documents a corpus run analyzes.
//
// A Source yields a finite, ordered list of Documents. Reading is deferred:
// each Document carries a Read function so that file I/O happens inside the
// bounded analysis fan-out rather than during discovery.
//
// Two implementations are provided:
//
//   - FileSystem walks a directory tree in lexical order and filters paths
//     with doublestar include/exclude patterns.
//   - Static serves in-memory (path, content) pairs, mostly for tests and
//     embedding the pipeline in other programs.
package source
