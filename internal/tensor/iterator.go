package tensor

import "iter"

// position is what iterators drive: either a Traverser over a walker or an
// indexCursor over a flat indexer.
type position[T any] interface {
	Index() int
	Len() int
	Valid() bool
	Next()
	Prev()
	To(flat int)
	Advance(n int)
	Get() T
	Set(v T)
}

// indexCursor is a position over a flat indexer, used for trivial cores.
type indexCursor[T any] struct {
	idx   Indexer[T]
	index int
}

func (c *indexCursor[T]) Index() int  { return c.index }
func (c *indexCursor[T]) Len() int    { return c.idx.Len() }
func (c *indexCursor[T]) Valid() bool { return c.index >= 0 && c.index < c.idx.Len() }
func (c *indexCursor[T]) Next()       { c.To(c.index + 1) }
func (c *indexCursor[T]) Prev()       { c.To(c.index - 1) }
func (c *indexCursor[T]) Advance(n int) {
	c.To(c.index + n)
}

func (c *indexCursor[T]) To(flat int) {
	c.index = min(max(flat, -1), c.idx.Len())
}

func (c *indexCursor[T]) Get() T  { return c.idx.At(c.index) }
func (c *indexCursor[T]) Set(v T) { c.idx.SetAt(c.index, v) }

// Iterator is a random-access iterator over a tensor in a fixed order.
// Dereferencing (Value/SetValue) is only legal while Valid reports true.
type Iterator[T any] struct {
	pos     position[T]
	trivial bool
}

// Index returns the flat position.
func (it *Iterator[T]) Index() int { return it.pos.Index() }

// Valid reports whether the iterator points at an element.
func (it *Iterator[T]) Valid() bool { return it.pos.Valid() }

// Trivial reports whether the iterator runs on the flat fast path.
func (it *Iterator[T]) Trivial() bool { return it.trivial }

// Value returns the current element.
func (it *Iterator[T]) Value() T { return it.pos.Get() }

// SetValue stores v at the current element.
func (it *Iterator[T]) SetValue(v T) { it.pos.Set(v) }

// Next moves forward by one.
func (it *Iterator[T]) Next() { it.pos.Next() }

// Prev moves back by one.
func (it *Iterator[T]) Prev() { it.pos.Prev() }

// Advance moves by n, the += of a random-access iterator.
func (it *Iterator[T]) Advance(n int) { it.pos.Advance(n) }

// Seek jumps to an absolute flat position.
func (it *Iterator[T]) Seek(flat int) { it.pos.To(flat) }

// Distance returns it - other.
func (it *Iterator[T]) Distance(other *Iterator[T]) int {
	return it.pos.Index() - other.pos.Index()
}

// Equal reports whether both iterators sit at the same position.
func (it *Iterator[T]) Equal(other *Iterator[T]) bool {
	return it.pos.Index() == other.pos.Index()
}

// Less reports whether it comes before other.
func (it *Iterator[T]) Less(other *Iterator[T]) bool {
	return it.pos.Index() < other.pos.Index()
}

// ReverseIterator walks an Iterator backwards. Its Index counts from the last
// element: 0 is the last element of the underlying order.
type ReverseIterator[T any] struct {
	base *Iterator[T]
}

// Index returns the reversed position.
func (r *ReverseIterator[T]) Index() int { return r.base.pos.Len() - 1 - r.base.Index() }

// Valid reports whether the iterator points at an element.
func (r *ReverseIterator[T]) Valid() bool { return r.base.Valid() }

// Base returns the underlying forward iterator.
func (r *ReverseIterator[T]) Base() *Iterator[T] { return r.base }

// Value returns the current element.
func (r *ReverseIterator[T]) Value() T { return r.base.Value() }

// SetValue stores v at the current element.
func (r *ReverseIterator[T]) SetValue(v T) { r.base.SetValue(v) }

// Next moves towards the first element of the underlying order.
func (r *ReverseIterator[T]) Next() { r.base.Prev() }

// Prev moves towards the last element of the underlying order.
func (r *ReverseIterator[T]) Prev() { r.base.Next() }

// Advance moves by n reversed positions.
func (r *ReverseIterator[T]) Advance(n int) { r.base.Advance(-n) }

// Distance returns r - other.
func (r *ReverseIterator[T]) Distance(other *ReverseIterator[T]) int {
	return r.Index() - other.Index()
}

// Equal reports whether both iterators sit at the same position.
func (r *ReverseIterator[T]) Equal(other *ReverseIterator[T]) bool {
	return r.base.Equal(other.base)
}

// all yields (flat index, element) pairs from a fresh iterator until it
// becomes invalid.
func all[T any](begin func() *Iterator[T]) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for it := begin(); it.Valid(); it.Next() {
			if !yield(it.Index(), it.Value()) {
				return
			}
		}
	}
}

func backward[T any](begin func() *ReverseIterator[T]) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for it := begin(); it.Valid(); it.Next() {
			if !yield(it.base.Index(), it.Value()) {
				return
			}
		}
	}
}
