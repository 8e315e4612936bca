package storage

import (
	"context"

	"github.com/poiesic/corpora/core"
)

// DocumentStore accepts normalized records.
// Implementations must be thread-safe and support concurrent access.
type DocumentStore interface {
	// CreateAndIndex stores a record, indexes it for retrieval and returns
	// the ID assigned to it. It does not deduplicate: calling it twice
	// with the same record stores two documents.
	CreateAndIndex(ctx context.Context, record *core.Record) (core.ID, error)
}

// ChecksumIndex answers content lookups.
type ChecksumIndex interface {
	// HasChecksum reports whether a document with this content checksum
	// is already stored.
	HasChecksum(ctx context.Context, checksum string) (bool, error)
}

// DocumentRepository provides every document operation.
type DocumentRepository interface {
	DocumentStore
	ChecksumIndex

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int, error)

	// ListByCategory returns the IDs of documents in a category, ascending.
	ListByCategory(ctx context.Context, category core.Category) ([]core.ID, error)

	// FindSimilar finds documents whose vectors are similar to the given vector.
	// Returns documents with similarity >= minSimilarity, up to limit results,
	// ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// Close releases the repository's resources.
	Close() error
}
