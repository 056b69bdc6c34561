// Package collections provides capacity-bounded, duplicate-free ordered containers.
//
// Two strategies implement the same Sequence interface:
//   - ArrayList: contiguous storage that doubles when full, used for unbounded catalogs
//   - LinkedList: fixed-capacity singly linked nodes, used where a hard ceiling is enforced
//
// Queue and Stack are thin FIFO/LIFO views that delegate all state to a Sequence.
//
// Every mutation rejects the zero value of E (nil for pointer elements) and any
// element equal to one already stored. Equality defaults to == and can be replaced
// with WithEqual for types that define value equality.
package collections

import (
	"errors"
	"fmt"
	"iter"
)

// Collection errors. Callers match them with errors.Is.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrOutOfRange       = errors.New("index out of range")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrEmptyCollection  = errors.New("collection is empty")
)

// Sequence is an ordered container with a capacity ceiling.
type Sequence[E comparable] interface {
	// Insert places v at index, shifting later elements right.
	Insert(index int, v E) error
	// Add appends v at the tail.
	Add(v E) error
	// RemoveAt removes and returns the element at index, closing the gap.
	RemoveAt(index int) (E, error)
	// Remove deletes the first element equal to v and reports whether one was found.
	Remove(v E) bool
	Get(index int) (E, error)
	// Replace swaps the element at index for v and returns the previous element.
	Replace(index int, v E) (E, error)
	IndexOf(v E) int
	Contains(v E) bool
	Size() int
	IsEmpty() bool
	Capacity() int
	// SetCapacity changes the ceiling. It fails without mutating when
	// capacity is negative or below the current size.
	SetCapacity(capacity int) error
	Clear()
	All() iter.Seq2[int, E]
	Values() []E
}

// Option configures a sequence at construction.
type Option[E comparable] func(*options[E])

type options[E comparable] struct {
	equal func(a, b E) bool
}

// WithEqual sets the equality used for duplicate detection and lookups.
func WithEqual[E comparable](equal func(a, b E) bool) Option[E] {
	return func(o *options[E]) {
		if equal != nil {
			o.equal = equal
		}
	}
}

func buildOptions[E comparable](opts []Option[E]) options[E] {
	o := options[E]{equal: func(a, b E) bool { return a == b }}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func isZero[E comparable](v E) bool {
	var zero E
	return v == zero
}

func errZeroElement() error {
	return fmt.Errorf("%w: element cannot be empty", ErrInvalidArgument)
}

func errDuplicateElement() error {
	return fmt.Errorf("%w: element already present", ErrInvalidArgument)
}

func errFull(capacity int) error {
	return fmt.Errorf("%w: capacity %d reached", ErrCapacityExceeded, capacity)
}

func errIndex(index, size int) error {
	return fmt.Errorf("%w: index %d, size %d", ErrOutOfRange, index, size)
}

func errCapacity(capacity, size int) error {
	return fmt.Errorf("%w: capacity %d below size %d", ErrInvalidArgument, capacity, size)
}
