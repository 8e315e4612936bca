package corpora

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/corpora/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		assert.NotNil(t, db.DocumentRepository())
		assert.NotNil(t, db.Embedder())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := NewDatabase(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(t.TempDir(), WithEmbedder(mock.NewMockEmbedder()))
	require.NoError(t, err)

	assert.NoError(t, db.Close())
}

func TestDatabase_NewPipeline(t *testing.T) {
	db, err := NewDatabase("", WithInMemory(), WithEmbedder(mock.NewMockEmbedder()))
	require.NoError(t, err)
	defer db.Close()

	p, err := db.NewPipeline()
	require.NoError(t, err)
	defer p.Release()

	r, err := p.Run(context.Background(), testCorpus(3))
	require.NoError(t, err)
	assert.Equal(t, 3, r.SuccessCount)

	count, err := db.DocumentRepository().CountDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
