package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/corpora/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(t *testing.T, opts ...Option) *Runner {
	t.Helper()
	r, err := NewRunner(opts...)
	require.NoError(t, err)
	t.Cleanup(r.Release)
	return r
}

func TestRunner_PreservesOrderAndIsolatesFailures(t *testing.T) {
	var entries []source.Entry
	for i := 0; i < 20; i++ {
		entries = append(entries, source.Entry{
			Path:    fmt.Sprintf("doc-%02d.md", i),
			Content: []byte(fmt.Sprintf("# Doc %d\ncontent %d", i, i)),
		})
	}
	src := source.NewStatic(entries...)
	readErr := errors.New("permission denied")
	src.Errors = map[string]error{"doc-05.md": readErr}

	docs, err := src.Discover(context.Background())
	require.NoError(t, err)

	r := newTestRunner(t, WithConcurrency(3))
	items, failures := r.Run(context.Background(), docs)

	require.Len(t, items, 19)
	require.Len(t, failures, 1)
	assert.Equal(t, "doc-05.md", failures[0].Path)
	assert.ErrorIs(t, failures[0], readErr)

	var got []string
	for _, item := range items {
		got = append(got, item.SourcePath)
	}
	var want []string
	for _, e := range entries {
		if e.Path != "doc-05.md" {
			want = append(want, e.Path)
		}
	}
	assert.Equal(t, want, got)
}

func TestRunner_RecoversPanics(t *testing.T) {
	docs := []source.Document{
		{Path: "boom.md", Read: func(context.Context) ([]byte, error) { panic("boom") }},
		{Path: "nil.md"},
		{Path: "ok.md", Read: func(context.Context) ([]byte, error) { return []byte("fine"), nil }},
	}

	r := newTestRunner(t)
	items, failures := r.Run(context.Background(), docs)

	require.Len(t, items, 1)
	assert.Equal(t, "ok.md", items[0].SourcePath)
	require.Len(t, failures, 2)
	assert.Contains(t, failures[0].Error(), "panic: boom")
	assert.ErrorIs(t, failures[1], ErrNoReader)
}

func TestRunner_CancelledBeforeStart(t *testing.T) {
	src := source.NewStatic(source.Entry{Path: "a.md", Content: []byte("a")})
	docs, err := src.Discover(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newTestRunner(t)
	items, failures := r.Run(ctx, docs)
	assert.Empty(t, items)
	assert.Empty(t, failures)
}

func TestRunner_Concurrency(t *testing.T) {
	assert.Equal(t, DefaultConcurrency, newTestRunner(t).Concurrency())
	assert.Equal(t, 4, newTestRunner(t, WithConcurrency(4)).Concurrency())
	assert.Equal(t, 1, newTestRunner(t, WithConcurrency(0)).Concurrency())
}

func TestRunner_InFlightAnalysisSurvivesCancellation(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte("# Alpha\n\nbody"), 0o644))

	fsrc, err := source.NewFileSystem(root)
	require.NoError(t, err)
	docs, err := fsrc.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	read := docs[0].Read
	docs[0].Read = func(readCtx context.Context) ([]byte, error) {
		cancel()
		return read(readCtx)
	}

	items, failures := newTestRunner(t, WithConcurrency(1)).Run(ctx, docs)
	assert.Empty(t, failures)
	require.Len(t, items, 1)
	assert.Equal(t, "a.md", items[0].SourcePath)
}

func TestRunner_RejectsEquivalentPaths(t *testing.T) {
	src := source.NewStatic(
		source.Entry{Path: "a/b.md", Content: []byte("# First\nbody one")},
		source.Entry{Path: "c.md", Content: []byte("# Other\nbody two")},
		source.Entry{Path: "a/./b.md", Content: []byte("# Second\nbody three")},
	)
	docs, err := src.Discover(context.Background())
	require.NoError(t, err)

	items, failures := newTestRunner(t).Run(context.Background(), docs)

	require.Len(t, items, 2)
	assert.Equal(t, "a/b.md", items[0].SourcePath)
	assert.Equal(t, "c.md", items[1].SourcePath)
	require.Len(t, failures, 1)
	assert.Equal(t, "a/./b.md", failures[0].Path)
	assert.ErrorIs(t, failures[0], ErrDuplicatePath)
}
