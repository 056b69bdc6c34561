package collections

import "iter"

// LinkedList is a Sequence of singly linked nodes with a hard capacity.
// Storage is never preallocated or grown; inserts at the head or tail are O(1).
type LinkedList[E comparable] struct {
	front    *node[E]
	back     *node[E]
	size     int
	capacity int
	opts     options[E]
}

type node[E comparable] struct {
	data E
	next *node[E]
}

// Ensure LinkedList implements Sequence.
var _ Sequence[string] = (*LinkedList[string])(nil)

// NewLinkedList creates a LinkedList that holds at most capacity elements.
func NewLinkedList[E comparable](capacity int, opts ...Option[E]) (*LinkedList[E], error) {
	if capacity < 0 {
		return nil, errCapacity(capacity, 0)
	}
	return &LinkedList[E]{
		capacity: capacity,
		opts:     buildOptions(opts),
	}, nil
}

func (l *LinkedList[E]) Insert(index int, v E) error {
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

	switch {
	case index == 0:
		l.front = &node[E]{data: v, next: l.front}
		if l.back == nil {
			l.back = l.front
		}
	case index == l.size:
		l.back.next = &node[E]{data: v}
		l.back = l.back.next
	default:
		prev := l.nodeAt(index - 1)
		prev.next = &node[E]{data: v, next: prev.next}
	}
	l.size++
	return nil
}

func (l *LinkedList[E]) Add(v E) error {
	return l.Insert(l.size, v)
}

func (l *LinkedList[E]) RemoveAt(index int) (E, error) {
	var zero E
	if index < 0 || index >= l.size {
		return zero, errIndex(index, l.size)
	}

	var v E
	if index == 0 {
		v = l.front.data
		l.front = l.front.next
		if l.front == nil {
			l.back = nil
		}
	} else {
		prev := l.nodeAt(index - 1)
		v = prev.next.data
		prev.next = prev.next.next
		if prev.next == nil {
			l.back = prev
		}
	}
	l.size--
	return v, nil
}

func (l *LinkedList[E]) Remove(v E) bool {
	i := l.IndexOf(v)
	if i < 0 {
		return false
	}
	_, err := l.RemoveAt(i)
	return err == nil
}

func (l *LinkedList[E]) Get(index int) (E, error) {
	if index < 0 || index >= l.size {
		var zero E
		return zero, errIndex(index, l.size)
	}
	return l.nodeAt(index).data, nil
}

func (l *LinkedList[E]) Replace(index int, v E) (E, error) {
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
	n := l.nodeAt(index)
	prev := n.data
	n.data = v
	return prev, nil
}

func (l *LinkedList[E]) IndexOf(v E) int {
	i := 0
	for n := l.front; n != nil; n = n.next {
		if l.opts.equal(n.data, v) {
			return i
		}
		i++
	}
	return -1
}

func (l *LinkedList[E]) Contains(v E) bool {
	return l.IndexOf(v) >= 0
}

func (l *LinkedList[E]) Size() int { return l.size }

func (l *LinkedList[E]) IsEmpty() bool { return l.size == 0 }

func (l *LinkedList[E]) Capacity() int { return l.capacity }

func (l *LinkedList[E]) SetCapacity(capacity int) error {
	if capacity < 0 || capacity < l.size {
		return errCapacity(capacity, l.size)
	}
	l.capacity = capacity
	return nil
}

func (l *LinkedList[E]) Clear() {
	l.front = nil
	l.back = nil
	l.size = 0
}

func (l *LinkedList[E]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		i := 0
		for n := l.front; n != nil; n = n.next {
			if !yield(i, n.data) {
				return
			}
			i++
		}
	}
}

func (l *LinkedList[E]) Values() []E {
	out := make([]E, 0, l.size)
	for n := l.front; n != nil; n = n.next {
		out = append(out, n.data)
	}
	return out
}

// nodeAt walks to the node at index. Callers check bounds.
func (l *LinkedList[E]) nodeAt(index int) *node[E] {
	n := l.front
	for i := 0; i < index; i++ {
		n = n.next
	}
	return n
}
