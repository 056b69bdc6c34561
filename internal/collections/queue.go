package collections

// Queue is a bounded FIFO queue. All state lives in the backing Sequence.
type Queue[E comparable] struct {
	list Sequence[E]
}

// NewQueue creates a queue backed by a LinkedList, so both ends are O(1).
func NewQueue[E comparable](capacity int, opts ...Option[E]) (*Queue[E], error) {
	list, err := NewLinkedList(capacity, opts...)
	if err != nil {
		return nil, err
	}
	return &Queue[E]{list: list}, nil
}

// NewArrayQueue creates a queue backed by a bounded ArrayList.
// Dequeue shifts the remaining elements, so it is O(n).
func NewArrayQueue[E comparable](capacity int, opts ...Option[E]) (*Queue[E], error) {
	list, err := NewBoundedArrayList(capacity, opts...)
	if err != nil {
		return nil, err
	}
	return &Queue[E]{list: list}, nil
}

// Enqueue adds v to the back of the queue.
// Returns ErrCapacityExceeded if the queue is full.
func (q *Queue[E]) Enqueue(v E) error {
	if q.list.Size() >= q.list.Capacity() {
		return errFull(q.list.Capacity())
	}
	return q.list.Add(v)
}

// Dequeue removes and returns the element at the front of the queue.
// Returns ErrEmptyCollection if the queue is empty.
func (q *Queue[E]) Dequeue() (E, error) {
	if q.list.IsEmpty() {
		var zero E
		return zero, ErrEmptyCollection
	}
	return q.list.RemoveAt(0)
}

// Peek returns the front element without removing it.
func (q *Queue[E]) Peek() (E, error) {
	if q.list.IsEmpty() {
		var zero E
		return zero, ErrEmptyCollection
	}
	return q.list.Get(0)
}

// Drain removes and returns all elements in FIFO order, leaving the queue empty.
func (q *Queue[E]) Drain() []E {
	out := q.list.Values()
	q.list.Clear()
	return out
}

func (q *Queue[E]) Size() int { return q.list.Size() }

func (q *Queue[E]) IsEmpty() bool { return q.list.IsEmpty() }

func (q *Queue[E]) Capacity() int { return q.list.Capacity() }

func (q *Queue[E]) SetCapacity(capacity int) error {
	return q.list.SetCapacity(capacity)
}

func (q *Queue[E]) Contains(v E) bool {
	return q.list.Contains(v)
}

// Values returns the queued elements front to back.
func (q *Queue[E]) Values() []E {
	return q.list.Values()
}
