package collections

import (
	"iter"
	"math"
)

// initialStorage is the backing array length of a new ArrayList.
const initialStorage = 10

// Unbounded is the capacity of an ArrayList created without a ceiling.
const Unbounded = math.MaxInt

// ArrayList is a Sequence over contiguous storage. Storage doubles when full,
// but never past the logical capacity: the ceiling check runs before growth.
type ArrayList[E comparable] struct {
	items    []E
	size     int
	capacity int
	opts     options[E]
}

// Ensure ArrayList implements Sequence.
var _ Sequence[string] = (*ArrayList[string])(nil)

// NewArrayList creates an ArrayList with no capacity ceiling.
func NewArrayList[E comparable](opts ...Option[E]) *ArrayList[E] {
	return &ArrayList[E]{
		items:    make([]E, initialStorage),
		capacity: Unbounded,
		opts:     buildOptions(opts),
	}
}

// NewBoundedArrayList creates an ArrayList that holds at most capacity elements.
func NewBoundedArrayList[E comparable](capacity int, opts ...Option[E]) (*ArrayList[E], error) {
	if capacity < 0 {
		return nil, errCapacity(capacity, 0)
	}
	l := NewArrayList(opts...)
	l.capacity = capacity
	return l, nil
}

func (l *ArrayList[E]) Insert(index int, v E) error {
	if isZero(v) {
		return errZeroElement()
	}
	if index < 0 || index > l.size {
		return errIndex(index, l.size)
	}
	if l.IndexOf(v) >= 0 {
		return errDuplicateElement()
	}
	if l.size >= l.capacity {
		return errFull(l.capacity)
	}
	if l.size == len(l.items) {
		l.grow()
	}

	copy(l.items[index+1:l.size+1], l.items[index:l.size])
	l.items[index] = v
	l.size++
	return nil
}

// grow doubles the backing storage.
func (l *ArrayList[E]) grow() {
	n := len(l.items) * 2
	if n == 0 {
		n = initialStorage
	}
	items := make([]E, n)
	copy(items, l.items[:l.size])
	l.items = items
}

func (l *ArrayList[E]) Add(v E) error {
	return l.Insert(l.size, v)
}

func (l *ArrayList[E]) RemoveAt(index int) (E, error) {
	var zero E
	if index < 0 || index >= l.size {
		return zero, errIndex(index, l.size)
	}
	v := l.items[index]
	copy(l.items[index:l.size-1], l.items[index+1:l.size])
	l.size--
	l.items[l.size] = zero
	return v, nil
}

func (l *ArrayList[E]) Remove(v E) bool {
	i := l.IndexOf(v)
	if i < 0 {
		return false
	}
	_, err := l.RemoveAt(i)
	return err == nil
}

func (l *ArrayList[E]) Get(index int) (E, error) {
	if index < 0 || index >= l.size {
		var zero E
		return zero, errIndex(index, l.size)
	}
	return l.items[index], nil
}

func (l *ArrayList[E]) Replace(index int, v E) (E, error) {
	var zero E
	if isZero(v) {
		return zero, errZeroElement()
	}
	if index < 0 || index >= l.size {
		return zero, errIndex(index, l.size)
	}
	if i := l.IndexOf(v); i >= 0 && i != index {
		return zero, errDuplicateElement()
	}
	prev := l.items[index]
	l.items[index] = v
	return prev, nil
}

func (l *ArrayList[E]) IndexOf(v E) int {
	for i := 0; i < l.size; i++ {
		if l.opts.equal(l.items[i], v) {
			return i
		}
	}
	return -1
}

func (l *ArrayList[E]) Contains(v E) bool {
	return l.IndexOf(v) >= 0
}

func (l *ArrayList[E]) Size() int { return l.size }

func (l *ArrayList[E]) IsEmpty() bool { return l.size == 0 }

func (l *ArrayList[E]) Capacity() int { return l.capacity }

func (l *ArrayList[E]) SetCapacity(capacity int) error {
	if capacity < 0 || capacity < l.size {
		return errCapacity(capacity, l.size)
	}
	l.capacity = capacity
	return nil
}

// Clear drops every element and shrinks storage back to its initial length.
func (l *ArrayList[E]) Clear() {
	l.items = make([]E, initialStorage)
	l.size = 0
}

func (l *ArrayList[E]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		for i := 0; i < l.size; i++ {
			if !yield(i, l.items[i]) {
				return
			}
		}
	}
}

// Values returns a copy of the stored elements in order.
func (l *ArrayList[E]) Values() []E {
	out := make([]E, l.size)
	copy(out, l.items[:l.size])
	return out
}

// storage reports the backing array length. Used by tests.
func (l *ArrayList[E]) storage() int {
	return len(l.items)
}
