// Package ring provides a fixed-capacity circular buffer.
package ring

// Buffer holds the most recent values up to its capacity. When full,
// each push overwrites the oldest value.
type Buffer[T any] struct {
	buf   []T
	pos   int
	count int
}

// New creates an empty buffer. A capacity below 1 is raised to 1.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer[T]{
		buf: make([]T, capacity),
	}
}

// Push adds a value, overwriting the oldest once full.
func (b *Buffer[T]) Push(v T) {
	b.buf[b.pos] = v
	b.pos = (b.pos + 1) % len(b.buf)
	if b.count < len(b.buf) {
		b.count++
	}
}

// Values returns the stored values oldest first, or nil when empty.
func (b *Buffer[T]) Values() []T {
	if b.count == 0 {
		return nil
	}
	result := make([]T, b.count)
	if b.count < len(b.buf) {
		copy(result, b.buf[:b.count])
	} else {
		n := copy(result, b.buf[b.pos:])
		copy(result[n:], b.buf[:b.pos])
	}
	return result
}

// Last returns the most recent value, or false if the buffer is empty.
func (b *Buffer[T]) Last() (T, bool) {
	if b.count == 0 {
		var zero T
		return zero, false
	}
	return b.buf[(b.pos-1+len(b.buf))%len(b.buf)], true
}

// Apply replaces every stored value with fn(value), keeping the order.
func (b *Buffer[T]) Apply(fn func(T) T) {
	for i := 0; i < b.count; i++ {
		idx := (b.pos - b.count + i + len(b.buf)) % len(b.buf)
		b.buf[idx] = fn(b.buf[idx])
	}
}

// Len returns the number of stored values.
func (b *Buffer[T]) Len() int { return b.count }

// Cap returns the maximum number of stored values.
func (b *Buffer[T]) Cap() int { return len(b.buf) }

// Reset empties the buffer.
func (b *Buffer[T]) Reset() {
	b.pos = 0
	b.count = 0
}
