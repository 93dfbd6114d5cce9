package tensor

import (
	"iter"
	"sync/atomic"
)

// Storage is the flat element container a storage core owns. The engine only
// needs sequential random access; any backing that satisfies the interface
// can be wrapped with NewWithStorage.
type Storage[T any] interface {
	Indexer[T]
}

// Buffer is the default slice-backed Storage.
type Buffer[T any] []T

// NewBuffer allocates a zeroed buffer of n elements.
func NewBuffer[T any](n int) Buffer[T] {
	return make(Buffer[T], n)
}

// FilledBuffer allocates n elements set to value.
func FilledBuffer[T any](n int, value T) Buffer[T] {
	b := make(Buffer[T], n)
	for i := range b {
		b[i] = value
	}
	return b
}

// BufferOf copies values into a new buffer.
func BufferOf[T any](values []T) Buffer[T] {
	return append(Buffer[T](nil), values...)
}

// BufferFrom drains seq into a new buffer.
func BufferFrom[T any](seq iter.Seq[T]) Buffer[T] {
	var b Buffer[T]
	for v := range seq {
		b = append(b, v)
	}
	return b
}

// Len returns the number of elements.
func (b Buffer[T]) Len() int { return len(b) }

// At returns element i.
func (b Buffer[T]) At(i int) T { return b[i] }

// SetAt sets element i.
func (b Buffer[T]) SetAt(i int, v T) { b[i] = v }

// refs is an explicit reference count shared by all core kinds. The holder
// that drops it to zero frees what the core owns.
type refs struct {
	n atomic.Int32
}

func (r *refs) init() { r.n.Store(1) }

func (r *refs) retain() { r.n.Add(1) }

// drop reports whether the count reached zero.
func (r *refs) drop() bool { return r.n.Add(-1) == 0 }

func (r *refs) unique() bool { return r.n.Load() == 1 }

// storageCore owns an element buffer laid out contiguously in its
// descriptor's order.
type storageCore[T DType] struct {
	refs
	d    *Descriptor
	data Storage[T]
}

func newStorageCore[T DType](shape Shape, order Order, data Storage[T]) *storageCore[T] {
	c := &storageCore[T]{
		d:    ContiguousDescriptor(shape, order),
		data: data,
	}
	c.init()
	return c
}

func (c *storageCore[T]) desc() *Descriptor { return c.d }

func (c *storageCore[T]) caps() Capability { return CapWalker | CapFlat | CapStrided }

// trivial holds for the storage's own order, and for the other order when
// the layout happens to be dense in both (1-D, or all but one axis of
// extent 1).
func (c *storageCore[T]) trivial(o Order) bool {
	return c.d.order == o || c.d.contiguous(o)
}

func (c *storageCore[T]) trivialIndexer() Indexer[T] { return c.data }

func (c *storageCore[T]) root() Storage[T] { return c.data }

func (c *storageCore[T]) walker() Walker[T] {
	return newAddrWalker[T](c.d, c.data)
}

func (c *storageCore[T]) release() {
	if c.drop() {
		c.data = nil
	}
}

// shrink truncates the storage to a smaller row-major shape once a mask
// pass knows its element count. It is the only post-construction descriptor
// change in the engine and runs before the core is published.
func (c *storageCore[T]) shrink(shape Shape) {
	n := shape.NumElements()
	switch b := c.data.(type) {
	case Buffer[T]:
		c.data = b[:n:n]
	default:
		nb := NewBuffer[T](n)
		for i := range nb {
			nb[i] = c.data.At(i)
		}
		c.data = nb
	}
	c.d = ContiguousDescriptor(shape, RowMajor)
}

// resize reallocates an unshared core to a new shape in its own order,
// keeping the leading min(old, new) elements of the storage sequence.
func (c *storageCore[T]) resize(shape Shape) {
	n := shape.NumElements()
	nb := NewBuffer[T](n)
	if b, ok := c.data.(Buffer[T]); ok {
		copy(nb, b)
	} else {
		for i := range min(n, c.data.Len()) {
			nb[i] = c.data.At(i)
		}
	}
	c.data = nb
	c.d = ContiguousDescriptor(shape, c.d.order)
}
