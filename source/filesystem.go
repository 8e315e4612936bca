package source

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude matches the text formats a corpus usually contains.
var DefaultInclude = []string{"**/*.md", "**/*.markdown", "**/*.txt", "**/*.rst"}

// FileSystem discovers documents under a root directory.
//
// Paths are matched relative to Root with forward slashes. A path is kept
// when it matches any Include pattern (all files when Include is empty) and
// no Exclude pattern. Hidden directories are never descended into.
type FileSystem struct {
	Root    string
	Include []string
	Exclude []string

	logger *slog.Logger
}

var _ Source = (*FileSystem)(nil)

// Option configures a FileSystem source.
type Option func(*FileSystem) error

// WithInclude sets the include patterns.
func WithInclude(patterns ...string) Option {
	return func(f *FileSystem) error {
		f.Include = patterns
		return nil
	}
}

// WithExclude sets the exclude patterns.
func WithExclude(patterns ...string) Option {
	return func(f *FileSystem) error {
		f.Exclude = patterns
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *FileSystem) error {
		if logger != nil {
			f.logger = logger
		}
		return nil
	}
}

// NewFileSystem creates a filesystem source rooted at root.
// Patterns are validated up front so that a typo fails the run before
// any work is done.
func NewFileSystem(root string, opts ...Option) (*FileSystem, error) {
	if root == "" {
		return nil, ErrEmptyRoot
	}
	f := &FileSystem{
		Root:    root,
		Include: DefaultInclude,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	for _, p := range append(append([]string{}, f.Include...), f.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, p)
		}
	}
	f.logger = f.logger.With("component", "source", "root", root)
	return f, nil
}

// Discover walks Root in lexical order.
func (f *FileSystem) Discover(ctx context.Context) ([]Document, error) {
	info, err := os.Stat(f.Root)
	if err != nil {
		return nil, fmt.Errorf("stat source root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, f.Root)
	}

	var docs []Document
	err = filepath.WalkDir(f.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			// Unreadable directories are skipped; unreadable files surface
			// later as analysis failures.
			if d != nil && d.IsDir() {
				f.logger.Warn("skipping unreadable directory", "path", path, "err", walkErr)
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != f.Root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(f.Root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !f.matches(rel) {
			return nil
		}

		abs := path
		docs = append(docs, Document{
			Path: rel,
			Read: func(ctx context.Context) ([]byte, error) {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				return os.ReadFile(abs)
			},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", f.Root, err)
	}

	f.logger.Debug("discovered documents", "count", len(docs))
	return docs, nil
}

func (f *FileSystem) matches(rel string) bool {
	// Patterns were validated in NewFileSystem, so Match cannot fail here.
	for _, p := range f.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return false
		}
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, p := range f.Include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
