package ast

import (
	"fmt"
	"iter"

	"fortio.org/safecast"
)

// Arena stores nodes or payloads of one type. IDs are 1-based so the zero
// value of every ID type means "absent".
type Arena[T any] struct {
	data []T
}

// NewArena preallocates capHint slots; zero is allowed.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{data: make([]T, 0, capHint)}
}

// Allocate appends value and returns its ID.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	id, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("ast arena overflow: %w", err))
	}
	return id
}

// Get returns nil for 0 and for IDs past the end, so an ID taken from a
// different tree never panics.
func (a *Arena[T]) Get(id uint32) *T {
	if id == 0 || uint64(id) > uint64(len(a.data)) {
		return nil
	}
	return &a.data[id-1]
}

// Slice exposes the backing storage. Callers must not modify it.
func (a *Arena[T]) Slice() []T {
	return a.data
}

// All yields every allocated element with its ID in allocation order.
func (a *Arena[T]) All() iter.Seq2[uint32, *T] {
	return func(yield func(uint32, *T) bool) {
		for i := range a.data {
			if !yield(uint32(i+1), &a.data[i]) {
				return
			}
		}
	}
}

func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.data))
}
