package sparsego

import (
	"errors"
	"fmt"

	"github.com/hupe1980/sparsego/segment"
)

var (
	// ErrOutOfMemory is returned by Write when the allocation budget is
	// exhausted during the chain walk or a buffer allocation. The store
	// does not retry and does not roll back tables linked before the
	// failure; the logical length is left untouched.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrInvalidOffset is returned by Write for a negative offset.
	ErrInvalidOffset = errors.New("negative offset")

	// ErrInvalidGeometry is returned by New when quantum size times
	// table capacity exceeds the addressable offset range.
	ErrInvalidGeometry = errors.New("quantum size times table capacity exceeds the addressable range")
)

// ErrInvalidQuantumSize indicates an invalid configured quantum size.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidQuantumSize struct {
	Size  uint32
	cause error
}

func (e *ErrInvalidQuantumSize) Error() string {
	return fmt.Sprintf("invalid quantum size: %d", e.Size)
}

func (e *ErrInvalidQuantumSize) Unwrap() error { return e.cause }

// ErrInvalidTableCapacity indicates an invalid configured table capacity.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidTableCapacity struct {
	Capacity uint32
	cause    error
}

func (e *ErrInvalidTableCapacity) Error() string {
	return fmt.Sprintf("invalid table capacity: %d", e.Capacity)
}

func (e *ErrInvalidTableCapacity) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, segment.ErrOutOfMemory) {
		return fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}

	return err
}
