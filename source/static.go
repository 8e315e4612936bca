package source

import (
	"context"
	"fmt"
)

// Entry is a single in-memory document.
type Entry struct {
	Path    string
	Content []byte
}

// Static is a Source over in-memory entries. Discovery order is slice order.
type Static struct {
	Entries []Entry

	// Errors maps a path to an error returned by Read, to simulate
	// unreadable documents.
	Errors map[string]error
}

var _ Source = (*Static)(nil)

// NewStatic builds a Static source from entries.
func NewStatic(entries ...Entry) *Static {
	return &Static{Entries: entries}
}

// Discover returns one Document per entry.
func (s *Static) Discover(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(s.Entries))
	for _, e := range s.Entries {
		entry := e
		docs = append(docs, Document{
			Path: entry.Path,
			Read: func(ctx context.Context) ([]byte, error) {
				if err, ok := s.Errors[entry.Path]; ok {
					return nil, fmt.Errorf("read %s: %w", entry.Path, err)
				}
				buf := make([]byte, len(entry.Content))
				copy(buf, entry.Content)
				return buf, nil
			},
		})
	}
	return docs, nil
}
