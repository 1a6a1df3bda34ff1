// Package bounded provides the fixed-capacity containers used on the device.
// Each container names its behaviour when full: Ring evicts the oldest
// element, Queue rejects the new one, List drops it silently.
package bounded

// Ring keeps at most Cap elements in insertion order. Pushing onto a full
// ring evicts the oldest element first.
type Ring[T any] struct {
	items []T
	cap   int
}

func NewRing[T any](capacity int) *Ring[T] {
	return &Ring[T]{items: make([]T, 0, capacity), cap: capacity}
}

// Push appends v, returning the evicted element when the ring was full.
func (r *Ring[T]) Push(v T) (evicted T, ok bool) {
	if len(r.items) >= r.cap {
		evicted, ok = r.items[0], true
		copy(r.items, r.items[1:])
		r.items = r.items[:len(r.items)-1]
	}
	r.items = append(r.items, v)
	return evicted, ok
}

func (r *Ring[T]) Len() int { return len(r.items) }
func (r *Ring[T]) Cap() int { return r.cap }
func (r *Ring[T]) Full() bool { return len(r.items) >= r.cap }

// At returns a pointer to the i-th element (0 = oldest) for in-place updates.
func (r *Ring[T]) At(i int) *T {
	if i < 0 || i >= len(r.items) {
		return nil
	}
	return &r.items[i]
}

// Last returns a pointer to the newest element, or nil when empty.
func (r *Ring[T]) Last() *T {
	return r.At(len(r.items) - 1)
}

// Items returns a copy of the elements, oldest first.
func (r *Ring[T]) Items() []T {
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Ring[T]) Reset() {
	r.items = r.items[:0]
}

// Queue is a FIFO that refuses new elements once it holds Cap of them.
type Queue[T any] struct {
	items []T
	cap   int
}

func NewQueue[T any](capacity int) *Queue[T] {
	return &Queue[T]{items: make([]T, 0, capacity), cap: capacity}
}

// Push appends v and reports false, leaving the queue unchanged, when full.
func (q *Queue[T]) Push(v T) bool {
	if len(q.items) >= q.cap {
		return false
	}
	q.items = append(q.items, v)
	return true
}

// Head returns a pointer to the oldest element, or nil when empty.
func (q *Queue[T]) Head() *T {
	if len(q.items) == 0 {
		return nil
	}
	return &q.items[0]
}

// Pop removes the oldest element.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := q.items[0]
	copy(q.items, q.items[1:])
	q.items[len(q.items)-1] = zero
	q.items = q.items[:len(q.items)-1]
	return v, true
}

func (q *Queue[T]) Len() int { return len(q.items) }
func (q *Queue[T]) Cap() int { return q.cap }

// List is an append-only list that ignores appends past Cap.
type List[T any] struct {
	items []T
	cap   int
}

func NewList[T any](capacity int) List[T] {
	return List[T]{cap: capacity}
}

// Append adds v and reports whether it was kept.
func (l *List[T]) Append(v T) bool {
	if len(l.items) >= l.cap {
		return false
	}
	l.items = append(l.items, v)
	return true
}

func (l List[T]) Len() int { return len(l.items) }
func (l List[T]) Cap() int { return l.cap }

// Items returns a copy of the elements in append order.
func (l List[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}
