package tensor

// Walker is a stateful cursor over an n-dimensional index space. Moves are
// incremental: stepping along an axis adjusts the resolved address instead
// of recomputing it.
//
// A walker carries private position state and must not be shared between
// goroutines.
type Walker[T any] interface {
	cursor[T]
	// Reset returns the axis to coordinate 0.
	Reset(axis int)
	// ResetAll returns to the origin.
	ResetAll()
	// To seeks to a flat index in the given order in O(dim).
	To(flat int, order Order)
	// Coords returns the current coordinates. Callers must not modify them.
	Coords() []int
}

// cursor is the part of the walker contract the decorators forward: relative
// moves plus element access.
type cursor[T any] interface {
	Step(axis int)
	StepBack(axis int)
	Walk(axis, n int)
	Get() T
	Set(v T)
}

// addrWalker walks a descriptor's strides over an indexer: raw storage for
// storage cores and strided views, a parent's order-specific indexer for
// reshape views.
type addrWalker[T any] struct {
	d      *Descriptor
	acc    Indexer[T]
	coords []int
	addr   int
}

func newAddrWalker[T any](d *Descriptor, acc Indexer[T]) *addrWalker[T] {
	return &addrWalker[T]{
		d:      d,
		acc:    acc,
		coords: make([]int, d.Dim()),
		addr:   d.offset,
	}
}

func (w *addrWalker[T]) Step(axis int) {
	w.coords[axis]++
	w.addr += w.d.strides[axis]
}

func (w *addrWalker[T]) StepBack(axis int) {
	w.coords[axis]--
	w.addr -= w.d.strides[axis]
}

func (w *addrWalker[T]) Walk(axis, n int) {
	w.coords[axis] += n
	w.addr += n * w.d.strides[axis]
}

func (w *addrWalker[T]) Reset(axis int) {
	w.addr -= w.coords[axis] * w.d.strides[axis]
	w.coords[axis] = 0
}

func (w *addrWalker[T]) ResetAll() {
	clear(w.coords)
	w.addr = w.d.offset
}

func (w *addrWalker[T]) To(flat int, order Order) {
	w.d.Coords(flat, order, w.coords)
	w.addr = w.d.AddressOf(w.coords)
}

func (w *addrWalker[T]) Coords() []int { return w.coords }

func (w *addrWalker[T]) Get() T { return w.acc.At(w.addr) }

func (w *addrWalker[T]) Set(v T) { w.acc.SetAt(w.addr, v) }

// offsetWalker moves its inner walker to fixed start positions once, at
// construction. Every later call is forwarded untouched; resets are turned
// into relative walks by the boundWalker on top of the chain, so the offset
// never has to be re-applied.
type offsetWalker[T any] struct {
	inner cursor[T]
}

func newOffsetWalker[T any](inner cursor[T], offsets []int) *offsetWalker[T] {
	for axis, off := range offsets {
		if off != 0 {
			inner.Walk(axis, off)
		}
	}
	return &offsetWalker[T]{inner: inner}
}

func (w *offsetWalker[T]) Step(axis int)     { w.inner.Step(axis) }
func (w *offsetWalker[T]) StepBack(axis int) { w.inner.StepBack(axis) }
func (w *offsetWalker[T]) Walk(axis, n int)  { w.inner.Walk(axis, n) }
func (w *offsetWalker[T]) Get() T            { return w.inner.Get() }
func (w *offsetWalker[T]) Set(v T)           { w.inner.Set(v) }

// axisWalker remaps axis numbers: view axis a drives inner axis axes[a].
type axisWalker[T any] struct {
	inner cursor[T]
	axes  []int
}

func newAxisWalker[T any](inner cursor[T], axes []int) *axisWalker[T] {
	return &axisWalker[T]{inner: inner, axes: axes}
}

func (w *axisWalker[T]) Step(axis int)     { w.inner.Step(w.axes[axis]) }
func (w *axisWalker[T]) StepBack(axis int) { w.inner.StepBack(w.axes[axis]) }
func (w *axisWalker[T]) Walk(axis, n int)  { w.inner.Walk(w.axes[axis], n) }
func (w *axisWalker[T]) Get() T            { return w.inner.Get() }
func (w *axisWalker[T]) Set(v T)           { w.inner.Set(v) }

// scaleWalker multiplies every move along axis a by scale[a].
type scaleWalker[T any] struct {
	inner cursor[T]
	scale []int
}

func newScaleWalker[T any](inner cursor[T], scale []int) *scaleWalker[T] {
	return &scaleWalker[T]{inner: inner, scale: scale}
}

func (w *scaleWalker[T]) Step(axis int) {
	switch s := w.scale[axis]; s {
	case 1:
		w.inner.Step(axis)
	case -1:
		w.inner.StepBack(axis)
	default:
		w.inner.Walk(axis, s)
	}
}

func (w *scaleWalker[T]) StepBack(axis int) {
	switch s := w.scale[axis]; s {
	case 1:
		w.inner.StepBack(axis)
	case -1:
		w.inner.Step(axis)
	default:
		w.inner.Walk(axis, -s)
	}
}

func (w *scaleWalker[T]) Walk(axis, n int) { w.inner.Walk(axis, n*w.scale[axis]) }
func (w *scaleWalker[T]) Get() T           { return w.inner.Get() }
func (w *scaleWalker[T]) Set(v T)          { w.inner.Set(v) }

// broadcastWalker drives a smaller tensor's walker in lock-step with a
// broadcast index space: outer axis a maps to inner axis a-lead, and moves
// along leading or extent-1 axes are dropped.
type broadcastWalker[T any] struct {
	inner cursor[T]
	lead  int
	shape Shape
}

func newBroadcastWalker[T any](inner cursor[T], innerShape Shape, outDim int) *broadcastWalker[T] {
	return &broadcastWalker[T]{inner: inner, lead: outDim - len(innerShape), shape: innerShape}
}

func (w *broadcastWalker[T]) axis(a int) (int, bool) {
	a -= w.lead
	if a < 0 || w.shape[a] == 1 {
		return 0, false
	}
	return a, true
}

func (w *broadcastWalker[T]) Step(axis int) {
	if a, ok := w.axis(axis); ok {
		w.inner.Step(a)
	}
}

func (w *broadcastWalker[T]) StepBack(axis int) {
	if a, ok := w.axis(axis); ok {
		w.inner.StepBack(a)
	}
}

func (w *broadcastWalker[T]) Walk(axis, n int) {
	if a, ok := w.axis(axis); ok {
		w.inner.Walk(a, n)
	}
}

func (w *broadcastWalker[T]) Get() T  { return w.inner.Get() }
func (w *broadcastWalker[T]) Set(v T) { w.inner.Set(v) }

// boundWalker sits on top of every decorator chain. It tracks coordinates
// in the view's own shape, so resets and seeks become relative walks that
// the chain translates into the parent's space: the odometer carries at the
// view's boundaries, not the parent's.
type boundWalker[T any] struct {
	inner  cursor[T]
	d      *Descriptor
	coords []int
	tmp    []int
}

func newBoundWalker[T any](inner cursor[T], d *Descriptor) *boundWalker[T] {
	return &boundWalker[T]{
		inner:  inner,
		d:      d,
		coords: make([]int, d.Dim()),
		tmp:    make([]int, d.Dim()),
	}
}

func (w *boundWalker[T]) Step(axis int) {
	w.coords[axis]++
	w.inner.Step(axis)
}

func (w *boundWalker[T]) StepBack(axis int) {
	w.coords[axis]--
	w.inner.StepBack(axis)
}

func (w *boundWalker[T]) Walk(axis, n int) {
	if n == 0 {
		return
	}
	w.coords[axis] += n
	w.inner.Walk(axis, n)
}

func (w *boundWalker[T]) Reset(axis int) {
	w.Walk(axis, -w.coords[axis])
}

func (w *boundWalker[T]) ResetAll() {
	for axis := range w.coords {
		w.Reset(axis)
	}
}

func (w *boundWalker[T]) To(flat int, order Order) {
	w.d.Coords(flat, order, w.tmp)
	for axis, c := range w.tmp {
		w.Walk(axis, c-w.coords[axis])
	}
}

func (w *boundWalker[T]) Coords() []int { return w.coords }

func (w *boundWalker[T]) Get() T  { return w.inner.Get() }
func (w *boundWalker[T]) Set(v T) { w.inner.Set(v) }
