package badger

import "github.com/poiesic/corpora/ai"

// NewMemoryRepository creates an in-memory document repository for testing.
// Closing the repository also closes its backend.
func NewMemoryRepository(embedder ai.Embedder, opts ...Option) (*DocumentRepository, error) {
	return newOwningRepository("", true, embedder, opts...)
}

// Backend returns the repository's backend, mostly so tests can close it
// underneath the repository.
func (r *DocumentRepository) Backend() *Backend {
	return r.backend
}
