package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDocument indicates a document with no non-whitespace content.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrNotText indicates a document that is not valid UTF-8 text.
	ErrNotText = errors.New("document is not valid UTF-8 text")

	// ErrNoReader indicates a document without a Read function.
	ErrNoReader = errors.New("document has no reader")

	// ErrDuplicatePath indicates a document whose path names the same item
	// as an earlier document, such as "a/b.md" and "a/./b.md".
	ErrDuplicatePath = errors.New("path already discovered")
)

// AnalysisError reports a document that could not be turned into an item.
// It is recovered per document and never aborts a run.
type AnalysisError struct {
	Path  string
	Cause error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analyze %s: %v", e.Path, e.Cause)
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}
