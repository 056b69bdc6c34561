package collections

// Stack is a bounded LIFO stack. All state lives in the backing Sequence.
//
// The top of the stack sits wherever the backing sequence is O(1): index 0 for
// a LinkedList, the tail for an ArrayList.
type Stack[E comparable] struct {
	list    Sequence[E]
	atFront bool
}

// NewStack creates a stack backed by a LinkedList with its top at the head.
func NewStack[E comparable](capacity int, opts ...Option[E]) (*Stack[E], error) {
	list, err := NewLinkedList(capacity, opts...)
	if err != nil {
		return nil, err
	}
	return &Stack[E]{list: list, atFront: true}, nil
}

// NewArrayStack creates a stack backed by a bounded ArrayList with its top at the tail.
func NewArrayStack[E comparable](capacity int, opts ...Option[E]) (*Stack[E], error) {
	list, err := NewBoundedArrayList(capacity, opts...)
	if err != nil {
		return nil, err
	}
	return &Stack[E]{list: list}, nil
}

func (s *Stack[E]) top() int {
	if s.atFront {
		return 0
	}
	return s.list.Size() - 1
}

// Push places v on top of the stack.
// Returns ErrCapacityExceeded if the stack is full.
func (s *Stack[E]) Push(v E) error {
	if s.list.Size() >= s.list.Capacity() {
		return errFull(s.list.Capacity())
	}
	if s.atFront {
		return s.list.Insert(0, v)
	}
	return s.list.Add(v)
}

// Pop removes and returns the top element.
// Returns ErrEmptyCollection if the stack is empty.
func (s *Stack[E]) Pop() (E, error) {
	if s.list.IsEmpty() {
		var zero E
		return zero, ErrEmptyCollection
	}
	return s.list.RemoveAt(s.top())
}

// Peek returns the top element without removing it.
func (s *Stack[E]) Peek() (E, error) {
	if s.list.IsEmpty() {
		var zero E
		return zero, ErrEmptyCollection
	}
	return s.list.Get(s.top())
}

func (s *Stack[E]) Size() int { return s.list.Size() }

func (s *Stack[E]) IsEmpty() bool { return s.list.IsEmpty() }

func (s *Stack[E]) SetCapacity(capacity int) error {
	return s.list.SetCapacity(capacity)
}

func (s *Stack[E]) Contains(v E) bool {
	return s.list.Contains(v)
}
