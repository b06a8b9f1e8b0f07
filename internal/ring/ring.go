// Package ring provides the cyclic buffer behind both the editor's kill ring
// and the prompt's live candidate selection.
package ring

import "iter"

// Buffer is an ordered, circular collection with a movable cursor.
// The cursor always indexes a valid item while the buffer is non-empty.
// A Buffer is not safe for concurrent use.
type Buffer[T any] struct {
	items  []T
	cursor int
}

// New creates an empty Buffer.
func New[T any]() *Buffer[T] {
	return &Buffer[T]{}
}

// From creates a Buffer holding items, with the cursor on the first one.
// The slice is owned by the Buffer afterwards.
func From[T any](items []T) *Buffer[T] {
	return &Buffer[T]{items: items}
}

// Forward moves the cursor to the next item, wrapping to the first.
func (b *Buffer[T]) Forward() {
	if len(b.items) == 0 {
		return
	}
	b.cursor++
	if b.cursor >= len(b.items) {
		b.cursor = 0
	}
}

// Back moves the cursor to the previous item, wrapping to the last.
func (b *Buffer[T]) Back() {
	if len(b.items) == 0 {
		return
	}
	b.cursor--
	if b.cursor < 0 {
		b.cursor = len(b.items) - 1
	}
}

// Current returns the item under the cursor. ok is false when empty.
func (b *Buffer[T]) Current() (item T, ok bool) {
	if len(b.items) == 0 {
		return item, false
	}
	return b.items[b.cursor], true
}

// Insert advances the cursor and inserts v at the new position, so the
// inserted value becomes the current one.
func (b *Buffer[T]) Insert(v T) {
	b.Forward()
	b.items = append(b.items, v)
	copy(b.items[b.cursor+1:], b.items[b.cursor:])
	b.items[b.cursor] = v
}

// Len returns the number of items.
func (b *Buffer[T]) Len() int {
	return len(b.items)
}

// All returns a sequence that starts at the cursor and visits every item
// exactly once. It does not move the cursor and may be ranged over again.
func (b *Buffer[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		n := len(b.items)
		for i := 0; i < n; i++ {
			if !yield(b.items[(b.cursor+i)%n]) {
				return
			}
		}
	}
}

// Items returns a copy of the items in cursor order.
func (b *Buffer[T]) Items() []T {
	out := make([]T, 0, len(b.items))
	for v := range b.All() {
		out = append(out, v)
	}
	return out
}
