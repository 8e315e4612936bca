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


// Package storage provides the document store abstraction for corpora.
//
// The migration executor only needs DocumentStore: a create-and-index
// operation that accepts a normalized record and returns an opaque ID.
// Stores that can answer "is this content already stored?" also implement
// ChecksumIndex, which enables resuming a run without re-migrating content.
//
// # Architecture
//
//   - DocumentStore: create+index, the executor's only dependency
//   - ChecksumIndex: content lookups for skip-existing runs
//   - DocumentRepository: the full repository offered by storage/badger
//
// # Usage
//
// Create a repository instance:
//
//	repo, err := badger.NewRepository("/path/to/db", embedder)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
// Use in tests with in-memory storage:
//
//	repo, err := badger.NewMemoryRepository(mock.NewMockEmbedder())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
// # Systemic Failures
//
// A store that can no longer serve any request wraps ErrStorageClosed or
// ErrUnavailable. Callers treat those as fatal to the work in progress
// rather than as a single failed record; see IsSystemic.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
