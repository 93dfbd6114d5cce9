package tensor

// Indexer is a flat random-access accessor: subscript in, element out.
type Indexer[T any] interface {
	Len() int
	At(i int) T
	SetAt(i int, v T)
}

// stridedIndexer resolves a flat index in a fixed order through a
// descriptor's strides-division table straight onto root storage. It holds no
// mutable state and is safe for concurrent readers.
type stridedIndexer[T any] struct {
	d     *Descriptor
	order Order
	data  Storage[T]
}

func newStridedIndexer[T any](d *Descriptor, o Order, data Storage[T]) *stridedIndexer[T] {
	return &stridedIndexer[T]{d: d, order: o, data: data}
}

func (s *stridedIndexer[T]) Len() int { return s.d.size }

func (s *stridedIndexer[T]) At(i int) T { return s.data.At(s.d.Address(i, s.order)) }

func (s *stridedIndexer[T]) SetAt(i int, v T) { s.data.SetAt(s.d.Address(i, s.order), v) }

// walkerIndexer seeks a private walker for every access. It is the fallback
// for cores whose addresses can only be resolved through the parent chain,
// and like the walker it owns it must not be shared across goroutines.
type walkerIndexer[T any] struct {
	w     Walker[T]
	d     *Descriptor
	order Order
	pos   int
}

func newWalkerIndexer[T any](w Walker[T], d *Descriptor, o Order) *walkerIndexer[T] {
	return &walkerIndexer[T]{w: w, d: d, order: o}
}

func (x *walkerIndexer[T]) Len() int { return x.d.size }

func (x *walkerIndexer[T]) seek(i int) {
	if i != x.pos {
		x.w.To(i, x.order)
		x.pos = i
	}
}

func (x *walkerIndexer[T]) At(i int) T {
	x.seek(i)
	return x.w.Get()
}

func (x *walkerIndexer[T]) SetAt(i int, v T) {
	x.seek(i)
	x.w.Set(v)
}
