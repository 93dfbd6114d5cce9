package tensor

import "fmt"

// broadcastTraverser walks t row-major over the larger index space of d,
// repeating t along leading and extent-1 axes.
func broadcastTraverser[T DType](t *Tensor[T], d *Descriptor) *Traverser[T] {
	w := newBroadcastWalker[T](t.c.walker(), t.Shape(), d.Dim())
	return NewTraverser[T](newBoundWalker[T](w, d), d, RowMajor)
}

func normalizeAxis(dim, n int) int {
	if dim < 0 {
		dim += n
	}
	if dim < 0 || dim >= n {
		panic(fmt.Sprintf("axis %d out of range for rank %d", dim, n))
	}
	return dim
}

// Cat concatenates tensors along the specified dimension into new storage.
//
// All tensors must have the same shape except along the concatenation dimension.
// Supports negative dim indexing (-1 = last dimension).
//
// Example:
//
//	a := tensor.Zeros[float32](Shape{2, 3})
//	b := tensor.Zeros[float32](Shape{2, 5})
//	c := tensor.Cat([]*Tensor[float32]{a, b}, 1) // Shape: [2, 8]
func Cat[T DType](tensors []*Tensor[T], dim int) *Tensor[T] {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}
	first := tensors[0].Shape()
	dim = normalizeAxis(dim, len(first))

	shape := first.Clone()
	shape[dim] = 0
	for i, t := range tensors {
		s := t.Shape()
		if len(s) != len(first) {
			panic(fmt.Sprintf("cat: tensor %d has rank %d, expected %d", i, len(s), len(first)))
		}
		for a := range s {
			if a != dim && s[a] != first[a] {
				panic(fmt.Sprintf("cat: tensor %d has shape %v, incompatible with %v", i, s, first))
			}
		}
		shape[dim] += s[dim]
	}

	out := Zeros[T](shape)
	subs := make([]Subscript, len(shape))
	for a := range subs {
		subs[a] = All()
	}
	offset := 0
	for _, t := range tensors {
		n := t.Shape()[dim]
		if n == 0 {
			continue
		}
		subs[dim] = Span(offset, offset+n)
		dst, err := out.Slice(subs...)
		if err != nil {
			panic(err)
		}
		if err := dst.Assign(t); err != nil {
			panic(err)
		}
		dst.Release()
		offset += n
	}
	return out
}

// Chunk splits the tensor into n equal slice views along the specified
// dimension.
//
// The dimension size must be divisible by n.
// Supports negative dim indexing (-1 = last dimension).
//
// Example:
//
//	x := tensor.Zeros[float32](Shape{2, 3, 6})
//	parts := x.Chunk(3, -1) // 3 views of shape [2, 3, 2]
func (t *Tensor[T]) Chunk(n, dim int) []*Tensor[T] {
	shape := t.Shape()
	dim = normalizeAxis(dim, len(shape))
	if n <= 0 || shape[dim]%n != 0 {
		panic(fmt.Sprintf("chunk: dimension %d of size %d is not divisible into %d parts", dim, shape[dim], n))
	}
	step := shape[dim] / n
	subs := make([]Subscript, len(shape))
	for a := range subs {
		subs[a] = All()
	}
	parts := make([]*Tensor[T], n)
	for i := range parts {
		subs[dim] = Span(i*step, (i+1)*step)
		part, err := t.Slice(subs...)
		if err != nil {
			panic(err)
		}
		parts[i] = part
	}
	return parts
}

// Unsqueeze adds a dimension of size 1 at the specified position.
//
// Supports negative dim indexing.
// This is a view operation (no data copy).
//
// Example:
//
//	x := tensor.Zeros[float32](Shape{2, 3})
//	y := x.Unsqueeze(1)  // Shape: [2, 1, 3]
//	z := x.Unsqueeze(-1) // Shape: [2, 3, 1]
func (t *Tensor[T]) Unsqueeze(dim int) *Tensor[T] {
	shape := t.Shape()
	dim = normalizeAxis(dim, len(shape)+1)
	dims := make([]int, 0, len(shape)+1)
	dims = append(dims, shape[:dim]...)
	dims = append(dims, 1)
	dims = append(dims, shape[dim:]...)
	v, err := t.ReshapeOrder(t.Order(), dims...)
	if err != nil {
		panic(err)
	}
	return v
}

// Squeeze removes a dimension of size 1 at the specified position.
//
// Panics if the dimension size is not 1.
// Supports negative dim indexing.
// This is a view operation (no data copy).
func (t *Tensor[T]) Squeeze(dim int) *Tensor[T] {
	shape := t.Shape()
	dim = normalizeAxis(dim, len(shape))
	if shape[dim] != 1 {
		panic(fmt.Sprintf("squeeze: dimension %d has size %d, expected 1", dim, shape[dim]))
	}
	dims := make([]int, 0, len(shape)-1)
	dims = append(dims, shape[:dim]...)
	dims = append(dims, shape[dim+1:]...)
	v, err := t.ReshapeOrder(t.Order(), dims...)
	if err != nil {
		panic(err)
	}
	return v
}

// Flatten returns a 1-D view of the elements in order o.
func (t *Tensor[T]) Flatten(o Order) *Tensor[T] {
	v, err := t.ReshapeOrder(o, t.Size())
	if err != nil {
		panic(err)
	}
	return v
}

// Where selects elements from x or y based on condition into new row-major
// storage.
//
// For each element:
//   - If condition is true, select from x
//   - If condition is false, select from y
//
// Supports broadcasting between condition, x, and y.
//
// Example:
//
//	cond := tensor.Full[bool](Shape{3}, true)
//	x := tensor.Full[float32](Shape{3}, 1.0)
//	y := tensor.Full[float32](Shape{3}, 0.0)
//	result, _ := tensor.Where(cond, x, y) // [1.0, 1.0, 1.0]
func Where[T DType](cond *Tensor[bool], x, y *Tensor[T]) (*Tensor[T], error) {
	shape, err := BroadcastShapes(cond.Shape(), x.Shape(), y.Shape())
	if err != nil {
		return nil, fmt.Errorf("where: %w", err)
	}
	d := ContiguousDescriptor(shape, RowMajor)
	ct, xt, yt := broadcastTraverser(cond, d), broadcastTraverser(x, d), broadcastTraverser(y, d)
	buf := NewBuffer[T](d.size)
	for i := range buf {
		if ct.Get() {
			buf[i] = xt.Get()
		} else {
			buf[i] = yt.Get()
		}
		ct.Next()
		xt.Next()
		yt.Next()
	}
	return wrap[T](newStorageCore[T](shape, RowMajor, buf)), nil
}
