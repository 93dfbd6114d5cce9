package tensor

import (
	"errors"
	"fmt"
	"iter"
)

// Tensor is a handle on a storage core or a view core. Copying the pointer
// aliases the same core; Alias takes an extra counted reference and Copy
// duplicates the elements.
//
// Example:
//
//	t := tensor.Arange[float32](Shape{3, 4})
//	row, _ := t.Index(tensor.At(1))        // lazy view of row 1
//	rev, _ := t.Index(tensor.All(), tensor.All().By(-1))
//	dense := rev.Copy(tensor.RowMajor)     // materialised copy
type Tensor[T DType] struct {
	c core[T]
}

func wrap[T DType](c core[T]) *Tensor[T] {
	return &Tensor[T]{c: c}
}

// Shape returns the tensor's shape. Callers must not modify it.
func (t *Tensor[T]) Shape() Shape {
	return t.c.desc().shape
}

// Dim returns the number of axes.
func (t *Tensor[T]) Dim() int {
	return t.c.desc().Dim()
}

// Size returns the total number of elements.
func (t *Tensor[T]) Size() int {
	return t.c.desc().size
}

// Order returns the order the tensor's descriptor was laid out in.
func (t *Tensor[T]) Order() Order {
	return t.c.desc().order
}

// DType returns the tensor's data type.
func (t *Tensor[T]) DType() DataType {
	return inferDataType[T]()
}

// Descriptor returns the tensor's descriptor.
func (t *Tensor[T]) Descriptor() *Descriptor {
	return t.c.desc()
}

// Capabilities returns the accessor forms the underlying core supports.
func (t *Tensor[T]) Capabilities() Capability {
	return t.c.caps()
}

// IsView reports whether the tensor is a lazy view of another tensor.
func (t *Tensor[T]) IsView() bool {
	_, ok := t.c.(*storageCore[T])
	return !ok
}

// IsTrivial reports whether traversing in order o reads the root storage
// sequentially from its start, so the flat fast path applies.
func (t *Tensor[T]) IsTrivial(o Order) bool {
	return t.c.trivial(o)
}

// Walker returns a fresh walker at the origin.
func (t *Tensor[T]) Walker() Walker[T] {
	return t.c.walker()
}

// Indexer returns the cheapest flat indexer in order o.
func (t *Tensor[T]) Indexer(o Order) Indexer[T] {
	return indexerFor(t.c, o)
}

// TrivialIndexer returns the flat storage indexer.
// Panics if the tensor is not trivial in its own order.
func (t *Tensor[T]) TrivialIndexer() Indexer[T] {
	if !t.c.trivial(t.Order()) {
		panic("tensor: trivial indexer requested for a non-trivial view")
	}
	return t.c.trivialIndexer()
}

func (t *Tensor[T]) newIterator(o Order, at int) *Iterator[T] {
	var it *Iterator[T]
	if t.c.trivial(o) {
		it = &Iterator[T]{pos: &indexCursor[T]{idx: t.c.trivialIndexer()}, trivial: true}
	} else {
		it = &Iterator[T]{pos: NewTraverser(t.c.walker(), t.c.desc(), o)}
	}
	if at != 0 {
		it.pos.To(at)
	}
	return it
}

// walkerIterator always takes the general walker path.
func (t *Tensor[T]) walkerIterator(o Order, at int) *Iterator[T] {
	it := &Iterator[T]{pos: NewTraverser(t.c.walker(), t.c.desc(), o)}
	if at != 0 {
		it.pos.To(at)
	}
	return it
}

// Begin returns an iterator at the first element in order o.
func (t *Tensor[T]) Begin(o Order) *Iterator[T] {
	return t.newIterator(o, 0)
}

// End returns the past-the-end iterator in order o.
func (t *Tensor[T]) End(o Order) *Iterator[T] {
	return t.newIterator(o, t.Size())
}

// RBegin returns a reverse iterator at the last element in order o.
func (t *Tensor[T]) RBegin(o Order) *ReverseIterator[T] {
	return &ReverseIterator[T]{base: t.newIterator(o, t.Size()-1)}
}

// REnd returns the reverse past-the-end iterator in order o.
func (t *Tensor[T]) REnd(o Order) *ReverseIterator[T] {
	return &ReverseIterator[T]{base: t.newIterator(o, -1)}
}

// TrivialBegin returns a flat iterator at the first element.
// Panics if the tensor is not trivial in order o.
func (t *Tensor[T]) TrivialBegin(o Order) *Iterator[T] {
	if !t.c.trivial(o) {
		panic(fmt.Sprintf("tensor: trivial iterator requested in order %s for a non-trivial view", o))
	}
	return t.newIterator(o, 0)
}

// TrivialEnd returns the flat past-the-end iterator.
// Panics if the tensor is not trivial in order o.
func (t *Tensor[T]) TrivialEnd(o Order) *Iterator[T] {
	it := t.TrivialBegin(o)
	it.Seek(t.Size())
	return it
}

// All yields (flat index, element) pairs in order o.
func (t *Tensor[T]) All(o Order) iter.Seq2[int, T] {
	return all(func() *Iterator[T] { return t.Begin(o) })
}

// Values yields the elements in order o.
func (t *Tensor[T]) Values(o Order) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range t.All(o) {
			if !yield(v) {
				return
			}
		}
	}
}

// Backward yields (flat index, element) pairs in order o from the last
// element to the first.
func (t *Tensor[T]) Backward(o Order) iter.Seq2[int, T] {
	return backward(func() *ReverseIterator[T] { return t.RBegin(o) })
}

func (t *Tensor[T]) checkIndex(indices []int) {
	shape := t.Shape()
	if len(indices) != len(shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(shape), len(indices)))
	}
	for i, idx := range indices {
		if idx < 0 || idx >= shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, shape[i]))
		}
	}
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor[T]) At(indices ...int) T {
	t.checkIndex(indices)
	if t.c.caps().Has(CapStrided) {
		return t.c.root().At(t.c.desc().AddressOf(indices))
	}
	w := t.c.walker()
	for axis, idx := range indices {
		w.Walk(axis, idx)
	}
	return w.Get()
}

// Set sets the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor[T]) Set(value T, indices ...int) {
	t.checkIndex(indices)
	if t.c.caps().Has(CapStrided) {
		t.c.root().SetAt(t.c.desc().AddressOf(indices), value)
		return
	}
	w := t.c.walker()
	for axis, idx := range indices {
		w.Walk(axis, idx)
	}
	w.Set(value)
}

// Item returns the single element of a tensor of size 1.
// Panics otherwise.
func (t *Tensor[T]) Item() T {
	if t.Size() != 1 {
		panic(fmt.Sprintf("Item() requires a single element, got shape %v", t.Shape()))
	}
	return t.Begin(t.Order()).Value()
}

// Transpose permutes the axes: view axis i is axis axes[i] of t. With no
// arguments the axis order is reversed.
func (t *Tensor[T]) Transpose(axes ...int) (*Tensor[T], error) {
	c, err := newTranspose(t.c, axes)
	if err != nil {
		return nil, err
	}
	return wrap(c), nil
}

// Slice applies one index or range subscript per leading axis. Missing
// trailing subscripts keep their whole axis.
func (t *Tensor[T]) Slice(subs ...Subscript) (*Tensor[T], error) {
	for i, s := range subs {
		if s.isTensor() {
			return nil, rejected(subscriptErr("slice", i, ErrMixedSubscripts, "%s", s))
		}
	}
	c, err := newSlice(t.c, subs)
	if err != nil {
		return nil, err
	}
	return wrap(c), nil
}

// Subdim fixes the leading axes to the given indices.
func (t *Tensor[T]) Subdim(indices ...int) (*Tensor[T], error) {
	c, err := newSubdim(t.c, indices)
	if err != nil {
		return nil, err
	}
	return wrap(c), nil
}

// Reshape reinterprets the elements in the default order under a new shape.
// One extent may be -1 and is inferred.
func (t *Tensor[T]) Reshape(dims ...int) (*Tensor[T], error) {
	return t.ReshapeOrder(DefaultOrder(), dims...)
}

// ReshapeOrder reinterprets the elements traversed in order o under a new
// shape laid out in the same order.
func (t *Tensor[T]) ReshapeOrder(o Order, dims ...int) (*Tensor[T], error) {
	c, err := newReshape(t.c, dims, o)
	if err != nil {
		return nil, err
	}
	return wrap(c), nil
}

// Index classifies its subscripts and builds the matching view: only At
// subscripts fix leading axes, any range makes a slice, Take subscripts
// gather and a single Where masks. Tensor subscripts cannot be mixed with
// the other kinds.
func (t *Tensor[T]) Index(subs ...Subscript) (*Tensor[T], error) {
	if len(subs) > t.Dim() {
		return nil, rejected(subscriptErr("index", -1, ErrTooManySubscripts,
			"%d subscripts for rank %d", len(subs), t.Dim()))
	}
	var ranges, takes, wheres int
	for _, s := range subs {
		switch s.kind {
		case subRange:
			ranges++
		case subTake:
			takes++
		case subWhere:
			wheres++
		}
	}
	tensors := takes + wheres
	switch {
	case tensors > 0 && tensors != len(subs), takes > 0 && wheres > 0, wheres > 1:
		return nil, rejected(subscriptErr("index", -1, ErrMixedSubscripts, "%v", subs))
	case wheres == 1:
		return Mask(t, subs[0].where)
	case takes > 0:
		idx := make([]*Tensor[int64], len(subs))
		for i, s := range subs {
			idx[i] = s.take
		}
		return Gather(t, idx...)
	case ranges > 0:
		return t.Slice(subs...)
	}
	indices := make([]int, len(subs))
	for i, s := range subs {
		indices[i] = s.index
	}
	return t.Subdim(indices...)
}

// Gather selects t[idx0[p], idx1[p], ...] for every position p of the
// broadcast shape of the subscripts. The result has shape
// broadcast(idx shapes) ++ t.Shape()[len(idx):] and owns its storage.
func Gather[T DType, I IndexType](t *Tensor[T], idx ...*Tensor[I]) (*Tensor[T], error) {
	subs := make([]core[I], len(idx))
	for i, x := range idx {
		subs[i] = x.c
	}
	c, err := newGather(t.c, subs)
	if err != nil {
		return nil, err
	}
	return wrap(c), nil
}

// Mask keeps the blocks of t whose leading coordinates are true in mask.
// The result has shape {count(true)} ++ t.Shape()[mask.Dim():] and owns its
// storage.
func Mask[T DType](t *Tensor[T], mask *Tensor[bool]) (*Tensor[T], error) {
	c, err := newMask(t.c, mask.c)
	if err != nil {
		return nil, err
	}
	return wrap(c), nil
}

// Alias returns a new handle holding its own reference on the same core.
func (t *Tensor[T]) Alias() *Tensor[T] {
	t.c.retain()
	return wrap(t.c)
}

// Release drops the handle's reference. The handle must not be used
// afterwards.
func (t *Tensor[T]) Release() {
	if t.c == nil {
		return
	}
	t.c.release()
	t.c = nil
}

// Resize reallocates an unshared storage tensor to a new shape, keeping the
// leading elements of its storage sequence.
func (t *Tensor[T]) Resize(shape Shape) error {
	if err := shape.Validate(); err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	sc, ok := t.c.(*storageCore[T])
	if !ok {
		return fmt.Errorf("resize %v: %w", t.Shape(), ErrResizeView)
	}
	if !sc.unique() {
		return fmt.Errorf("resize %v: %w", t.Shape(), ErrSharedStorage)
	}
	sc.resize(shape.Clone())
	return nil
}

// Copy duplicates the elements into fresh storage laid out in order o.
func (t *Tensor[T]) Copy(o Order) *Tensor[T] {
	n := t.Size()
	buf := NewBuffer[T](n)
	if t.c.trivial(o) {
		copyBlock(buf, 0, t.c.trivialIndexer(), 0, n)
	} else {
		t.parallelRanges(o, currentParallelConfig(), func(it *Iterator[T], lo, hi int) {
			for i := lo; i < hi; i++ {
				buf[i] = it.Value()
				it.Next()
			}
		})
	}
	return wrap[T](newStorageCore[T](t.Shape().Clone(), o, buf))
}

// ToSlice returns the elements in order o as a new slice.
func (t *Tensor[T]) ToSlice(o Order) []T {
	out := make([]T, 0, t.Size())
	for v := range t.Values(o) {
		out = append(out, v)
	}
	return out
}

// Fill sets every element to value.
func (t *Tensor[T]) Fill(value T) {
	o := t.Order()
	for it := t.Begin(o); it.Valid(); it.Next() {
		it.SetValue(value)
	}
}

// Assign copies src into t, broadcasting src's shape to t's. Overlapping
// src and t give unspecified results.
func (t *Tensor[T]) Assign(src *Tensor[T]) error {
	shape := t.Shape()
	b, err := BroadcastShapes(src.Shape(), shape)
	if err != nil || !b.Equal(shape) {
		return fmt.Errorf("assign %v to %v: %w", src.Shape(), shape, ErrAssignShape)
	}
	from := broadcastTraverser(src, ContiguousDescriptor(shape, RowMajor))
	for to := t.walkerIterator(RowMajor, 0); to.Valid(); to.Next() {
		to.SetValue(from.Get())
		from.Next()
	}
	return nil
}

// String implements fmt.Stringer.
func (t *Tensor[T]) String() string {
	if t.c == nil {
		return fmt.Sprintf("Tensor[%s](released)", t.DType())
	}
	return fmt.Sprintf("Tensor[%s]%v %s", t.DType(), t.Shape(), t.Order())
}

// IsInvalidSubscript reports whether err is a view construction failure.
func IsInvalidSubscript(err error) bool {
	return errors.Is(err, ErrInvalidSubscript)
}
