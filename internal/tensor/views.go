package tensor

// viewBase is shared by the lazy view cores: the view's own descriptor and a
// counted reference to the parent core.
type viewBase[T DType] struct {
	refs
	d       *Descriptor
	parent  core[T]
	strided bool
}

// setup takes a reference on parent. It runs only after validation, so a
// failed construction never touches the parent's count.
func (v *viewBase[T]) setup(parent core[T], d *Descriptor, strided bool) {
	parent.retain()
	v.d = d
	v.parent = parent
	v.strided = strided
	v.init()
}

func (v *viewBase[T]) desc() *Descriptor { return v.d }

func (v *viewBase[T]) caps() Capability {
	if v.strided {
		return CapWalker | CapStrided
	}
	return CapWalker
}

func (v *viewBase[T]) root() Storage[T] {
	if !v.strided {
		return nil
	}
	return v.parent.root()
}

// trivialIndexer of an identity view is its parent's.
func (v *viewBase[T]) trivialIndexer() Indexer[T] { return v.parent.trivialIndexer() }

func (v *viewBase[T]) release() {
	if v.drop() {
		v.parent.release()
	}
}

// transposeCore permutes the parent's axes: view axis i is parent axis
// axes[i].
type transposeCore[T DType] struct {
	viewBase[T]
	axes []int
}

func newTransposeCore[T DType](parent core[T], axes []int) *transposeCore[T] {
	pd := parent.desc()
	shape := make(Shape, len(axes))
	strides := make([]int, len(axes))
	for i, a := range axes {
		shape[i] = pd.shape[a]
		strides[i] = pd.strides[a]
	}
	d := NewDescriptor(shape, strides, pd.offset, pd.order)
	c := &transposeCore[T]{axes: axes}
	c.setup(parent, d, parent.caps().Has(CapStrided))
	return c
}

func (c *transposeCore[T]) trivial(o Order) bool {
	return isIdentity(c.axes) && c.parent.trivial(o)
}

func (c *transposeCore[T]) walker() Walker[T] {
	if c.strided {
		return stridedWalker[T](c)
	}
	return c.chainWalker()
}

func (c *transposeCore[T]) chainWalker() Walker[T] {
	return newBoundWalker[T](newAxisWalker[T](c.parent.walker(), c.axes), c.d)
}

// sliceCore selects a strided sub-range of every parent axis. Reduced axes
// keep only their offset and disappear from the view.
type sliceCore[T DType] struct {
	viewBase[T]
	axes    []int // view axis -> parent axis
	scale   []int // per view axis
	offsets []int // per parent axis
}

func newSliceCore[T DType](parent core[T], shape Shape, axes, scale, offsets []int) *sliceCore[T] {
	pd := parent.desc()
	strides := make([]int, len(axes))
	for i, a := range axes {
		strides[i] = pd.strides[a] * scale[i]
	}
	offset := pd.offset
	for p, off := range offsets {
		offset += off * pd.strides[p]
	}
	d := NewDescriptor(shape, strides, offset, pd.order)
	c := &sliceCore[T]{axes: axes, scale: scale, offsets: offsets}
	c.setup(parent, d, parent.caps().Has(CapStrided))
	return c
}

func (c *sliceCore[T]) trivial(o Order) bool {
	pd := c.parent.desc()
	if len(c.axes) != pd.Dim() || !c.d.shape.Equal(pd.shape) {
		return false
	}
	for _, off := range c.offsets {
		if off != 0 {
			return false
		}
	}
	for _, s := range c.scale {
		if s != 1 {
			return false
		}
	}
	return c.parent.trivial(o)
}

func (c *sliceCore[T]) walker() Walker[T] {
	if c.strided {
		return stridedWalker[T](c)
	}
	return c.chainWalker()
}

func (c *sliceCore[T]) chainWalker() Walker[T] {
	w := newOffsetWalker[T](c.parent.walker(), c.offsets)
	return newBoundWalker[T](newScaleWalker[T](newAxisWalker[T](w, c.axes), c.scale), c.d)
}

// subdimCore fixes the leading parent axes to scalar indices.
type subdimCore[T DType] struct {
	viewBase[T]
	fixed []int
	axes  []int
}

func newSubdimCore[T DType](parent core[T], fixed []int) *subdimCore[T] {
	pd := parent.desc()
	k := len(fixed)
	offset := pd.offset
	for i, v := range fixed {
		offset += v * pd.strides[i]
	}
	axes := make([]int, pd.Dim()-k)
	for i := range axes {
		axes[i] = i + k
	}
	d := NewDescriptor(pd.shape[k:], pd.strides[k:], offset, pd.order)
	c := &subdimCore[T]{fixed: fixed, axes: axes}
	c.setup(parent, d, parent.caps().Has(CapStrided))
	return c
}

func (c *subdimCore[T]) trivial(o Order) bool {
	return len(c.fixed) == 0 && c.parent.trivial(o)
}

func (c *subdimCore[T]) walker() Walker[T] {
	if c.strided {
		return stridedWalker[T](c)
	}
	return c.chainWalker()
}

func (c *subdimCore[T]) chainWalker() Walker[T] {
	return newBoundWalker[T](newAxisWalker[T](newOffsetWalker[T](c.parent.walker(), c.fixed), c.axes), c.d)
}

// reshapeCore presents the parent's traversal sequence in its own order under
// a new shape. It has no address transform: its walker steps through the
// parent's flat indexer for that order.
type reshapeCore[T DType] struct {
	viewBase[T]
	order Order
}

func newReshapeCore[T DType](parent core[T], shape Shape, order Order) *reshapeCore[T] {
	d := ContiguousDescriptor(shape, order)
	c := &reshapeCore[T]{order: order}
	// Over a parent that is already the identity in this order, the dense
	// strides address the root storage itself.
	c.setup(parent, d, parent.trivial(order))
	return c
}

func (c *reshapeCore[T]) root() Storage[T] {
	if !c.strided {
		return nil
	}
	return c.parent.trivialIndexer()
}

// trivial only consults the orders: a reshape never reorders the sequence it
// reads, so identity in the view's order only depends on the parent.
func (c *reshapeCore[T]) trivial(o Order) bool {
	return o == c.order && c.parent.trivial(o)
}

// walker addresses the parent by flat position in the view's order. When the
// parent is neither trivial nor strided in that order, every step becomes an
// O(dim) seek of the parent's walker rather than an incremental move.
func (c *reshapeCore[T]) walker() Walker[T] {
	return newAddrWalker[T](c.d, indexerFor(c.parent, c.order))
}

func (c *reshapeCore[T]) chainWalker() Walker[T] { return c.walker() }

func isIdentity(axes []int) bool {
	for i, a := range axes {
		if a != i {
			return false
		}
	}
	return true
}
