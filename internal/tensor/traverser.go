package tensor

// Traverser turns "next/previous element in order X" into walker moves. It
// keeps a per-axis odometer: Next increments the fastest axis of the order
// and, on overflow, rewinds it and carries into the next one.
//
// The position ranges over [-1, size]; -1 and size are the before-begin and
// past-the-end positions and hold no element.
type Traverser[T any] struct {
	w      Walker[T]
	d      *Descriptor
	order  Order
	axes   []int // fastest first
	coords []int
	index  int
}

// NewTraverser wraps a walker positioned at the origin of d.
func NewTraverser[T any](w Walker[T], d *Descriptor, order Order) *Traverser[T] {
	return &Traverser[T]{
		w:      w,
		d:      d,
		order:  order,
		axes:   order.fastest(d.Dim()),
		coords: make([]int, d.Dim()),
	}
}

// Index returns the current flat position.
func (t *Traverser[T]) Index() int { return t.index }

// Len returns the number of elements traversed.
func (t *Traverser[T]) Len() int { return t.d.size }

// Order returns the traversal order.
func (t *Traverser[T]) Order() Order { return t.order }

// Valid reports whether the position holds an element.
func (t *Traverser[T]) Valid() bool { return t.index >= 0 && t.index < t.d.size }

// Next advances to the following element.
func (t *Traverser[T]) Next() {
	switch {
	case t.index < 0:
		t.To(t.index + 1)
		return
	case t.index+1 >= t.d.size:
		t.index = t.d.size
		return
	}
	t.index++
	shape := t.d.shape
	for _, a := range t.axes {
		if t.coords[a]+1 < shape[a] {
			t.coords[a]++
			t.w.Step(a)
			return
		}
		t.w.Walk(a, -t.coords[a])
		t.coords[a] = 0
	}
}

// Prev moves back to the preceding element.
func (t *Traverser[T]) Prev() {
	switch {
	case t.index >= t.d.size:
		t.To(t.index - 1)
		return
	case t.index <= 0:
		t.index = -1
		return
	}
	t.index--
	shape := t.d.shape
	for _, a := range t.axes {
		if t.coords[a] > 0 {
			t.coords[a]--
			t.w.StepBack(a)
			return
		}
		last := shape[a] - 1
		t.w.Walk(a, last)
		t.coords[a] = last
	}
}

// To seeks to an arbitrary flat position in O(dim). Positions outside
// [0, size) are clamped to the before-begin or past-the-end marker.
func (t *Traverser[T]) To(flat int) {
	switch {
	case flat < 0:
		t.index = -1
		return
	case flat >= t.d.size:
		t.index = t.d.size
		return
	}
	t.index = flat
	t.w.To(flat, t.order)
	copy(t.coords, t.w.Coords())
}

// Advance moves by n positions.
func (t *Traverser[T]) Advance(n int) {
	switch n {
	case 0:
	case 1:
		t.Next()
	case -1:
		t.Prev()
	default:
		t.To(t.index + n)
	}
}

// Get returns the element at the current position.
func (t *Traverser[T]) Get() T { return t.w.Get() }

// Set stores v at the current position.
func (t *Traverser[T]) Set(v T) { t.w.Set(v) }
