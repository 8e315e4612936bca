package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func paths(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Path
	}
	return out
}

func TestFileSystem_DiscoverLexicalOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.md", "b")
	writeFile(t, root, "a.md", "a")
	writeFile(t, root, "docs/guide.md", "guide")
	writeFile(t, root, "docs/image.png", "binary")
	writeFile(t, root, ".git/config.md", "hidden")

	src, err := NewFileSystem(root)
	require.NoError(t, err)

	docs, err := src.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "b.md", "docs/guide.md"}, paths(docs))

	content, err := docs[2].Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "guide", string(content))
}

func TestFileSystem_IncludeExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep/one.txt", "1")
	writeFile(t, root, "keep/two.md", "2")
	writeFile(t, root, "drafts/three.md", "3")

	src, err := NewFileSystem(root,
		WithInclude("**/*.md", "**/*.txt"),
		WithExclude("drafts/**"),
	)
	require.NoError(t, err)

	docs, err := src.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"keep/one.txt", "keep/two.md"}, paths(docs))
}

func TestFileSystem_EmptyIncludeMatchesAll(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "x.bin", "x")

	src, err := NewFileSystem(root, WithInclude())
	require.NoError(t, err)

	docs, err := src.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"x.bin"}, paths(docs))
}

func TestNewFileSystem_Validation(t *testing.T) {
	_, err := NewFileSystem("")
	assert.ErrorIs(t, err, ErrEmptyRoot)

	_, err = NewFileSystem(t.TempDir(), WithInclude("[unclosed"))
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestFileSystem_RootErrors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "file.md", "x")

	src, err := NewFileSystem(filepath.Join(root, "file.md"))
	require.NoError(t, err)
	_, err = src.Discover(context.Background())
	assert.ErrorIs(t, err, ErrNotDirectory)

	src, err = NewFileSystem(filepath.Join(root, "missing"))
	require.NoError(t, err)
	_, err = src.Discover(context.Background())
	assert.Error(t, err)
}

func TestFileSystem_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "a")

	src, err := NewFileSystem(root)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Discover(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
