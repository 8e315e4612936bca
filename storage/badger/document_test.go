package badger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/poiesic/corpora/ai/mock"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*DocumentRepository, *mock.MockEmbedder) {
	t.Helper()
	embedder := mock.NewMockEmbedder()
	repo, err := NewMemoryRepository(embedder)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo, embedder
}

func newRecord(id, content string, category core.Category) *core.Record {
	return &core.Record{
		ItemID:     core.ItemID(id),
		SourcePath: id + ".md",
		Title:      "Title " + id,
		Content:    content,
		Checksum:   core.Checksum([]byte(content)),
		Category:   category,
		Kind:       core.KindGuide,
		Tags:       []string{"guide"},
		Tier:       core.TierHigh,
		Priority:   8,
		Retain:     true,
		Quality:    0.5,
		Complexity: 0.4,
		Importance: 0.8,
	}
}

func TestCreateAndIndex_RoundTrip(t *testing.T) {
	repo, embedder := newTestRepository(t)
	ctx := context.Background()

	record := newRecord("a", "hello world", core.CategoryData)
	id, err := repo.CreateAndIndex(ctx, record)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, 1, embedder.CallCount())

	doc, err := repo.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)
	assert.Equal(t, *record, doc.Record)
	assert.Len(t, doc.Vector, mock.DefaultDimensions)
	assert.False(t, doc.InsertedAt.IsZero())
}

func TestCreateAndIndex_UniqueIDs(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	const n = 40
	ids := make([]core.ID, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := repo.CreateAndIndex(ctx, newRecord(fmt.Sprintf("r%d", i), fmt.Sprintf("content %d", i), core.CategoryGeneral))
			assert.NoError(t, err)
			ids[i] = id
		}()
	}
	wg.Wait()

	seen := make(map[core.ID]bool)
	for _, id := range ids {
		assert.NotZero(t, id)
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}

	count, err := repo.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, n, count)
}

func TestCreateAndIndex_ChecksumIndex(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	record := newRecord("a", "indexed content", core.CategoryData)
	found, err := repo.HasChecksum(ctx, record.Checksum)
	require.NoError(t, err)
	assert.False(t, found)

	_, err = repo.CreateAndIndex(ctx, record)
	require.NoError(t, err)

	found, err = repo.HasChecksum(ctx, record.Checksum)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestListByCategory(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	dataA, err := repo.CreateAndIndex(ctx, newRecord("a", "one", core.CategoryData))
	require.NoError(t, err)
	_, err = repo.CreateAndIndex(ctx, newRecord("b", "two", core.CategorySecurity))
	require.NoError(t, err)
	dataC, err := repo.CreateAndIndex(ctx, newRecord("c", "three", core.CategoryData))
	require.NoError(t, err)

	ids, err := repo.ListByCategory(ctx, core.CategoryData)
	require.NoError(t, err)
	assert.Equal(t, []core.ID{dataA, dataC}, ids)

	ids, err = repo.ListByCategory(ctx, core.CategoryOperations)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = repo.ListByCategory(ctx, core.Category(42))
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestFindSimilar(t *testing.T) {
	repo, embedder := newTestRepository(t)
	ctx := context.Background()

	vectors := map[string][]float32{
		"close": {1, 0, 0},
		"near":  {0.9, 0.1, 0},
		"far":   {0, 0, 1},
	}
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return vectors[text], nil
	}

	for _, content := range []string{"close", "near", "far"} {
		_, err := repo.CreateAndIndex(ctx, newRecord(content, content, core.CategoryGeneral))
		require.NoError(t, err)
	}

	results, err := repo.FindSimilar(ctx, []float32{2, 0, 0}, 0.8, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "close", results[0].Document.Record.Content)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Equal(t, "near", results[1].Document.Record.Content)

	results, err = repo.FindSimilar(ctx, []float32{1, 0, 0}, 0.8, 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	_, err = repo.FindSimilar(ctx, []float32{1, 0, 0}, 0.8, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestCreateAndIndex_Errors(t *testing.T) {
	repo, embedder := newTestRepository(t)
	ctx := context.Background()

	invalid := newRecord("a", "x", core.CategoryData)
	invalid.Priority = 0
	_, err := repo.CreateAndIndex(ctx, invalid)
	assert.ErrorIs(t, err, core.ErrInvalidRecord)
	assert.Equal(t, 0, embedder.CallCount(), "invalid records are not embedded")

	embedErr := errors.New("embedding service down")
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, embedErr
	}
	_, err = repo.CreateAndIndex(ctx, newRecord("b", "y", core.CategoryData))
	assert.ErrorIs(t, err, embedErr)
	assert.False(t, storage.IsSystemic(err))

	count, err := repo.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetDocument_NotFound(t *testing.T) {
	repo, _ := newTestRepository(t)
	_, err := repo.GetDocument(context.Background(), 999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestClosedBackend(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Backend().Close())

	_, err := repo.CreateAndIndex(ctx, newRecord("a", "x", core.CategoryData))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.True(t, storage.IsSystemic(err))

	_, err = repo.HasChecksum(ctx, "x")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	_, err = repo.GetDocument(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	_, err = repo.CountDocuments(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	assert.NoError(t, repo.Close())
}

func TestNewDocumentRepository_Validation(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewDocumentRepository(backend, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewDocumentRepository(backend, mock.NewMockEmbedder(), WithConflictRetry(0, 0))
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestNewRepository_Persists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := NewRepository(dir, mock.NewMockEmbedder())
	require.NoError(t, err)
	id, err := repo.CreateAndIndex(ctx, newRecord("a", "persisted", core.CategoryData))
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	repo, err = NewRepository(dir, mock.NewMockEmbedder())
	require.NoError(t, err)
	defer repo.Close()

	doc, err := repo.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "persisted", doc.Record.Content)

	next, err := repo.CreateAndIndex(ctx, newRecord("b", "second", core.CategoryData))
	require.NoError(t, err)
	assert.Greater(t, next, id)
}
