package ball

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfBounds indicates a slot index at or beyond the active count.
	ErrIndexOutOfBounds = errors.New("ball: index out of bounds")

	// ErrCapacityExceeded indicates a push into a store whose fixed allocation is full.
	ErrCapacityExceeded = errors.New("ball: capacity exceeded")
)

// IndexError wraps ErrIndexOutOfBounds with the offending access.
type IndexError struct {
	Op    string
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("ball: %s index %d out of bounds (count %d)", e.Op, e.Index, e.Count)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfBounds
}

func checkIndex(op string, i, count int) error {
	if i < 0 || i >= count {
		return &IndexError{Op: op, Index: i, Count: count}
	}
	return nil
}
