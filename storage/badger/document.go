package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/corpora/ai"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/storage"
)

const (
	defaultMaxAttempts = 5
	defaultBaseDelay   = 10 * time.Millisecond
)

// ErrEmbedderRequired indicates a repository constructed without an embedder.
var ErrEmbedderRequired = errors.New("embedder is required")

// DocumentRepository implements storage.DocumentRepository using BadgerDB.
// Each document is stored with its normalized embedding, a checksum index
// entry and a category index entry.
type DocumentRepository struct {
	backend     *Backend
	ownsBackend bool
	idSeq       *badger.Sequence
	embedder    ai.Embedder
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// Option configures a DocumentRepository.
type Option func(*DocumentRepository) error

// WithConflictRetry sets how many times a conflicting write transaction is
// attempted and the initial backoff between attempts.
func WithConflictRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(r *DocumentRepository) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		r.maxAttempts = maxAttempts
		r.baseDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *DocumentRepository) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewDocumentRepository creates a repository over an open backend.
// The caller keeps ownership of the backend.
func NewDocumentRepository(backend *Backend, embedder ai.Embedder, opts ...Option) (*DocumentRepository, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &DocumentRepository{
		backend:     backend,
		embedder:    embedder,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "document-repository")

	idSeq, err := backend.GetSequence(documentIDSeq)
	if err != nil {
		return nil, err
	}
	r.idSeq = idSeq
	return r, nil
}

// NewRepository opens an on-disk repository at path. Closing the
// repository also closes the database.
//
// Returns storage.DocumentRepository interface to enforce abstraction.
func NewRepository(path string, embedder ai.Embedder, opts ...Option) (storage.DocumentRepository, error) {
	return newOwningRepository(path, false, embedder, opts...)
}

func newOwningRepository(path string, inMemory bool, embedder ai.Embedder, opts ...Option) (*DocumentRepository, error) {
	backend, err := OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}
	r, err := NewDocumentRepository(backend, embedder, opts...)
	if err != nil {
		backend.Close()
		return nil, err
	}
	r.ownsBackend = true
	return r, nil
}

// Close releases the ID sequence, and the database when the repository
// opened it.
func (r *DocumentRepository) Close() error {
	if r.backend.IsClosed() {
		return nil
	}
	err := r.idSeq.Release()
	if r.ownsBackend {
		err = errors.Join(err, r.backend.Close())
	}
	return err
}

// CreateAndIndex embeds the record content and stores the document with
// its indices in a single transaction.
func (r *DocumentRepository) CreateAndIndex(ctx context.Context, record *core.Record) (core.ID, error) {
	if r.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}
	if err := core.ValidateRecord(record); err != nil {
		return 0, err
	}

	vector, err := r.embedder.EmbedText(ctx, record.Content)
	if err != nil {
		return 0, fmt.Errorf("embed document %s: %w", record.ItemID, err)
	}

	id, err := r.nextID()
	if err != nil {
		return 0, mapError(err)
	}

	doc := &core.Document{
		ID:         id,
		Record:     *record,
		Vector:     ai.NormalizeVector(vector),
		InsertedAt: time.Now().UTC(),
	}
	value, err := storage.MarshalDocument(doc)
	if err != nil {
		return 0, err
	}

	err = retryWithBackoff(ctx, func() error {
		return r.backend.WithTx(func(tx *badger.Txn) error {
			// Reading the checksum key puts it in the read set, so concurrent
			// writers of the same content conflict instead of racing.
			if _, err := tx.Get(makeChecksumKey(record.Checksum)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := tx.Set(makeDocumentKey(id), value); err != nil {
				return err
			}
			if err := tx.Set(makeChecksumKey(record.Checksum), storage.MarshalID(id)); err != nil {
				return err
			}
			if err := tx.Set(makeCategoryKey(record.Category, id), []byte{}); err != nil {
				return err
			}
			return tx.Commit()
		}, true)
	}, isConflict, r.maxAttempts, r.baseDelay)
	if err != nil {
		return 0, mapError(err)
	}

	r.logger.Debug("document stored", "id", id, "item", record.ItemID, "category", record.Category)
	return id, nil
}

// nextID allocates a document ID. BadgerDB sequences can return 0 on the
// first call, so 0 is skipped.
func (r *DocumentRepository) nextID() (core.ID, error) {
	next, err := r.idSeq.Next()
	if err != nil {
		return 0, err
	}
	if next == 0 {
		if next, err = r.idSeq.Next(); err != nil {
			return 0, err
		}
	}
	return core.ID(next), nil
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalDocument(val)
			return err
		})
	}, false)
	return result, mapError(err)
}

// HasChecksum reports whether content with this checksum is stored.
func (r *DocumentRepository) HasChecksum(ctx context.Context, checksum string) (bool, error) {
	if r.backend.IsClosed() {
		return false, storage.ErrStorageClosed
	}
	found := false
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makeChecksumKey(checksum))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	}, false)
	return found, mapError(err)
}

// CountDocuments returns the number of stored documents.
func (r *DocumentRepository) CountDocuments(ctx context.Context) (int, error) {
	if r.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(documentPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, mapError(err)
}

// ListByCategory returns the IDs of documents in a category, ascending.
func (r *DocumentRepository) ListByCategory(ctx context.Context, category core.Category) ([]core.ID, error) {
	if err := core.ValidateCategory(category); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrInvalidQuery, err)
	}
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var ids []core.ID
	prefix := makePartialCategoryKey(category)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			id, err := storage.UnmarshalID(iter.Item().Key()[len(prefix):])
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	}, false)
	return ids, mapError(err)
}

// FindSimilar scans every document and ranks it by cosine similarity.
func (r *DocumentRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	query := ai.NormalizeVector(vector)
	var results []*core.SearchResult
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var doc *core.Document
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			if len(doc.Vector) == 0 {
				continue
			}

			similarity := ai.CosineSimilarity(query, doc.Vector)
			if similarity >= minSimilarity {
				results = append(results, &core.SearchResult{Document: doc, Score: similarity})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, mapError(err)
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func isConflict(err error) bool {
	return errors.Is(err, badger.ErrConflict)
}

// mapError translates badger's closed-database error into the storage
// sentinel so callers can recognize it as systemic.
func mapError(err error) error {
	if errors.Is(err, badger.ErrDBClosed) {
		return fmt.Errorf("%w: %w", storage.ErrStorageClosed, err)
	}
	return err
}
