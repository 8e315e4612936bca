package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_Discover(t *testing.T) {
	src := NewStatic(
		Entry{Path: "one.md", Content: []byte("one")},
		Entry{Path: "two.md", Content: []byte("two")},
	)
	readErr := errors.New("permission denied")
	src.Errors = map[string]error{"two.md": readErr}

	docs, err := src.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "one.md", docs[0].Path)

	content, err := docs[0].Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "one", string(content))

	_, err = docs[1].Read(context.Background())
	assert.ErrorIs(t, err, readErr)
}
