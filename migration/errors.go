package migration

import (
	"errors"
	"fmt"

	"github.com/poiesic/corpora/core"
)

var (
	// ErrStoreRequired indicates an executor constructed without a store.
	ErrStoreRequired = errors.New("document store is required")

	// ErrChecksumIndexRequired indicates skip-existing was requested for a
	// store that cannot look up checksums.
	ErrChecksumIndexRequired = errors.New("skip existing requires a store implementing storage.ChecksumIndex")

	// ErrInvalidConcurrency indicates a concurrency bound below 1.
	ErrInvalidConcurrency = errors.New("concurrency must be at least 1")

	// ErrInvalidTimeout indicates a non-positive per-item timeout.
	ErrInvalidTimeout = errors.New("per-item timeout must be positive")

	// ErrInvalidRateLimit indicates a negative rate or a burst below 1.
	ErrInvalidRateLimit = errors.New("rate limit must be >= 0 with a burst of at least 1")

	// ErrInvalidRetainThreshold indicates a retain threshold outside [0, 1].
	ErrInvalidRetainThreshold = errors.New("retain threshold must be within [0,1]")

	// ErrItemTimeout indicates a store call that exceeded the per-item timeout.
	ErrItemTimeout = errors.New("store call timed out")

	// ErrInvalidBatch indicates a batch whose tier is unknown.
	ErrInvalidBatch = errors.New("batch has an invalid tier")
)

// ItemMigrationError records the failure of a single item. It is always
// recovered inside the batch.
type ItemMigrationError struct {
	ItemID core.ItemID
	Cause  error
}

func (e *ItemMigrationError) Error() string {
	return fmt.Sprintf("migrate item %s: %v", e.ItemID, e.Cause)
}

func (e *ItemMigrationError) Unwrap() error {
	return e.Cause
}

// BatchExecutionError records a systemic failure that aborted a batch.
type BatchExecutionError struct {
	BatchID string
	Cause   error
}

func (e *BatchExecutionError) Error() string {
	return fmt.Sprintf("batch %s aborted: %v", e.BatchID, e.Cause)
}

func (e *BatchExecutionError) Unwrap() error {
	return e.Cause
}
