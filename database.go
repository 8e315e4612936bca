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


package corpora

import (
	"errors"
	"log/slog"

	"github.com/poiesic/corpora/ai"
	"github.com/poiesic/corpora/ai/openai"
	"github.com/poiesic/corpora/storage"
	"github.com/poiesic/corpora/storage/badger"
)

// Database is a badger-backed document store with its embedder.
type Database struct {
	backend  *badger.Backend
	docRepo  *badger.DocumentRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	embedder ai.Embedder
	inMemory bool
	logger   *slog.Logger
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithEmbedder supplies an embedder directly instead of building an
// OpenAI-compatible one from the AI configuration.
func WithEmbedder(embedder ai.Embedder) DatabaseOption {
	return func(o *databaseOptions) {
		o.embedder = embedder
	}
}

// WithInMemory keeps the database in memory. The path is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithDatabaseLogger sets the logger of the database and its repository.
func WithDatabaseLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewDatabase opens the database at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	embedder := options.embedder
	if embedder == nil {
		var err error
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	if options.inMemory {
		filePath = ""
	}
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	docRepo, err := badger.NewDocumentRepository(backend, embedder, badger.WithLogger(options.logger))
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:  backend,
		docRepo:  docRepo,
		embedder: embedder,
		logger:   options.logger,
	}, nil
}

// Close closes the repository and then the backend.
func (db *Database) Close() error {
	var errs []error
	if err := db.docRepo.Close(); err != nil {
		db.logger.Error("error closing document repository", "err", err)
		errs = append(errs, err)
	}
	if !db.backend.IsClosed() {
		if err := db.backend.Close(); err != nil {
			db.logger.Error("error closing backend storage", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DocumentRepository returns the document store.
func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.docRepo
}

// Embedder returns the embedder used to index documents.
func (db *Database) Embedder() ai.Embedder {
	return db.embedder
}

// NewPipeline builds a pipeline that migrates into this database.
func (db *Database) NewPipeline(opts ...Option) (*Pipeline, error) {
	opts = append([]Option{WithLogger(db.logger)}, opts...)
	return NewPipeline(db.docRepo, opts...)
}
