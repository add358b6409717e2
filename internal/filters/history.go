package filters

// Ring is a fixed-capacity FIFO buffer. Push evicts the oldest element in
// O(1) once the capacity is reached; elements are addressed oldest-first.
type Ring[T any] struct {
	data []T
	head int
	size int
}

// NewRing creates a ring with the given capacity. Capacity must be positive.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring[T]{data: make([]T, capacity)}
}

// Push appends v, evicting the oldest element when full.
func (r *Ring[T]) Push(v T) {
	if r.size < len(r.data) {
		r.data[(r.head+r.size)%len(r.data)] = v
		r.size++
		return
	}
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
}

// Len returns the number of stored elements.
func (r *Ring[T]) Len() int { return r.size }

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.data) }

// At returns the element at index i, where 0 is the oldest.
func (r *Ring[T]) At(i int) T {
	return r.data[(r.head+i)%len(r.data)]
}

// Last returns the most recently pushed element. Zero value when empty.
func (r *Ring[T]) Last() T {
	var zero T
	if r.size == 0 {
		return zero
	}
	return r.At(r.size - 1)
}

// Values returns a copy of the buffer ordered oldest to newest.
func (r *Ring[T]) Values() []T {
	out := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.At(i)
	}
	return out
}

// History is a bounded series of float64 samples used by the numeric filters.
type History struct {
	Ring[float64]
}

// NewHistory creates an empty history with the given capacity.
func NewHistory(capacity int) *History {
	return &History{Ring[float64]{data: make([]float64, max(capacity, 1))}}
}

// NewHistoryFrom creates a history seeded with vs, oldest first.
func NewHistoryFrom(capacity int, vs ...float64) *History {
	h := NewHistory(capacity)
	for _, v := range vs {
		h.Push(v)
	}
	return h
}
