package ir

import "fmt"

// Handle is a stable, opaque reference into an Arena[T]. Two handles
// compare equal iff they name the same slot; handles from different
// arenas are distinguished at compile time by T, so a Handle[Type]
// can never be passed where a Handle[Constant] is expected.
type Handle[T any] uint32

// Index returns the zero-based position the handle refers to.
func (h Handle[T]) Index() int { return int(h) }

// Arena is an append-only, indexed container. A value appended to an
// arena keeps the same handle for the arena's lifetime: arenas are
// never compacted or freed element-by-element, which is what lets IR
// graphs hold cycles of references (a function's expressions pointing
// back into module-level arenas) without reference counting.
type Arena[T any] struct {
	items []T
}

// NewArena creates an empty arena, optionally preallocating room for
// capacity items.
func NewArena[T any](capacity int) *Arena[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Arena[T]{items: make([]T, 0, capacity)}
}

// Append stores v and returns the handle that identifies it from now on.
func (a *Arena[T]) Append(v T) Handle[T] {
	h := Handle[T](len(a.items))
	a.items = append(a.items, v)
	return h
}

// Len reports how many elements have been appended.
func (a *Arena[T]) Len() int { return len(a.items) }

// Get returns the value stored at h. It panics if h did not come from
// this arena's own Append calls -- an out-of-range handle is a
// front-end bug, not a condition callers are expected to recover from.
func (a *Arena[T]) Get(h Handle[T]) T {
	if int(h) >= len(a.items) {
		panic(fmt.Sprintf("ir: arena handle %d out of range (len %d)", h, len(a.items)))
	}
	return a.items[h]
}

// GetPtr is like Get but returns a pointer into the arena's backing
// storage, letting a builder mutate a slot in place after appending it.
func (a *Arena[T]) GetPtr(h Handle[T]) *T {
	if int(h) >= len(a.items) {
		panic(fmt.Sprintf("ir: arena handle %d out of range (len %d)", h, len(a.items)))
	}
	return &a.items[h]
}

// TryGet is the non-panicking form of Get.
func (a *Arena[T]) TryGet(h Handle[T]) (T, bool) {
	if int(h) >= len(a.items) {
		var zero T
		return zero, false
	}
	return a.items[h], true
}

// All iterates the arena in insertion order. It is a range-over-func
// iterator: `for h, v := range arena.All() { ... }`.
func (a *Arena[T]) All() func(yield func(Handle[T], T) bool) {
	return func(yield func(Handle[T], T) bool) {
		for i := range a.items {
			if !yield(Handle[T](i), a.items[i]) {
				return
			}
		}
	}
}

// Items exposes the underlying storage as a read-only slice for callers
// that need bulk, handle-free access (e.g. a back-end emitting every
// declared type in order).
func (a *Arena[T]) Items() []T { return a.items }
