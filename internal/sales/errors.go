package sales

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when a sale request fails validation.
var ErrInvalidInput = errors.New("invalid input")

// ErrPreconditionFailed is returned when no default color or size can be
// resolved for line items that omit one.
var ErrPreconditionFailed = errors.New("precondition failed")

// ErrNotFound is returned when a sale or a referenced product does not exist.
var ErrNotFound = errors.New("not found")

// ErrPersistence wraps failures of the underlying store.
var ErrPersistence = errors.New("persistence failure")

// ErrPartialWrite marks a sale left in partial state: a step after the
// header commit failed and the compensating rollback failed too.
var ErrPartialWrite = errors.New("partial write")

// ErrEmptyID is returned when trying to store a sale with an empty ID.
var ErrEmptyID = errors.New("empty sale ID")

// PartialWriteError reports both the failure that aborted sale creation and
// the compensation failure that left the sale's rows behind.
type PartialWriteError struct {
	SaleID          string
	Cause           error
	CompensationErr error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial write on sale %s: %v (compensation failed: %v)",
		e.SaleID, e.Cause, e.CompensationErr)
}

func (e *PartialWriteError) Unwrap() error { return e.Cause }

func (e *PartialWriteError) Is(target error) bool { return target == ErrPartialWrite }
