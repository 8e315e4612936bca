package dedupe

import (
	"errors"
	"fmt"

	"github.com/poiesic/corpora/core"
)

var (
	// ErrInvalidThreshold indicates a similarity threshold outside (0, 1].
	ErrInvalidThreshold = errors.New("similarity threshold must be in (0, 1]")

	// ErrNilItem indicates a nil entry in the item list.
	ErrNilItem = errors.New("item is nil")

	// ErrMissingID indicates an item without an ID.
	ErrMissingID = errors.New("item has no id")

	// ErrDuplicateID indicates two items sharing an ID.
	ErrDuplicateID = errors.New("item id is not unique")

	// ErrMissingChecksum indicates an item without a checksum.
	ErrMissingChecksum = errors.New("item has no checksum")

	// ErrInvalidImportance indicates an importance score that is NaN or
	// outside [0, 1].
	ErrInvalidImportance = errors.New("item importance score is invalid")
)

// DuplicateResolutionError reports malformed input to the detector.
// Resolving duplicates over malformed items could drop content, so the
// whole call fails.
type DuplicateResolutionError struct {
	ItemID core.ItemID
	Index  int
	Cause  error
}

func (e *DuplicateResolutionError) Error() string {
	if e.ItemID == "" {
		return fmt.Sprintf("resolve duplicates: item at index %d: %v", e.Index, e.Cause)
	}
	return fmt.Sprintf("resolve duplicates: item %s: %v", e.ItemID, e.Cause)
}

func (e *DuplicateResolutionError) Unwrap() error {
	return e.Cause
}
