package tensor

import "fmt"

// StrideDiv is one row of a descriptor's strides-division table: for the
// given axis, Logical is the axis' contiguous stride in the table's order,
// Div divides by it, and Stride is the physical step of the axis.
type StrideDiv struct {
	Axis    int
	Stride  int
	Logical int
	Div     Divider
}

// Descriptor describes how a logical index space maps onto a flat address
// space: shape, strides, offset, size and order, plus a precomputed table per
// traversal order that turns a flat index into coordinates with one division
// and one multiply-subtract per axis.
//
// Descriptors are immutable once built.
type Descriptor struct {
	shape   Shape
	strides []int
	offset  int
	size    int
	order   Order
	divs    [2][]StrideDiv
}

// NewDescriptor builds a descriptor. len(strides) must equal len(shape).
func NewDescriptor(shape Shape, strides []int, offset int, order Order) *Descriptor {
	if len(strides) != len(shape) {
		panic(fmt.Sprintf("descriptor: %d strides for %d axes", len(strides), len(shape)))
	}
	d := &Descriptor{
		shape:   shape.Clone(),
		strides: append([]int(nil), strides...),
		offset:  offset,
		size:    shape.NumElements(),
		order:   order,
	}
	policy := ResolvedDivisionPolicy()
	for _, o := range []Order{RowMajor, ColMajor} {
		d.divs[o] = d.buildDivs(o, policy)
	}
	return d
}

// ContiguousDescriptor builds the descriptor of a dense buffer laid out in
// the given order.
func ContiguousDescriptor(shape Shape, order Order) *Descriptor {
	return NewDescriptor(shape, shape.Strides(order), 0, order)
}

func (d *Descriptor) buildDivs(o Order, p DivisionPolicy) []StrideDiv {
	n := len(d.shape)
	logical := d.shape.Strides(o)
	fast := o.fastest(n)
	table := make([]StrideDiv, n)
	// slowest axis first
	for i := range table {
		axis := fast[n-1-i]
		l := max(logical[axis], 1)
		table[i] = StrideDiv{
			Axis:    axis,
			Stride:  d.strides[axis],
			Logical: l,
			Div:     newDivider(l, p),
		}
	}
	return table
}

// Shape returns the descriptor's shape. Callers must not modify it.
func (d *Descriptor) Shape() Shape { return d.shape }

// Strides returns the per-axis steps. Callers must not modify them.
func (d *Descriptor) Strides() []int { return d.strides }

// Offset returns the flat address of the origin.
func (d *Descriptor) Offset() int { return d.offset }

// Size returns the number of elements.
func (d *Descriptor) Size() int { return d.size }

// Dim returns the number of axes.
func (d *Descriptor) Dim() int { return len(d.shape) }

// Order returns the descriptor's declared order.
func (d *Descriptor) Order() Order { return d.order }

// StridesDiv returns the strides-division table for the order, slowest axis
// first.
func (d *Descriptor) StridesDiv(o Order) []StrideDiv {
	return d.divs[o]
}

// Coords decomposes a flat index in the given order into per-axis
// coordinates written to dst (len(dst) must be Dim()).
func (d *Descriptor) Coords(flat int, o Order, dst []int) {
	rem := flat
	for _, sd := range d.divs[o] {
		c := sd.Div.Div(rem)
		rem -= c * sd.Logical
		dst[sd.Axis] = c
	}
}

// Address returns the physical address of the element at a flat index in
// the given order.
func (d *Descriptor) Address(flat int, o Order) int {
	addr := d.offset
	rem := flat
	for _, sd := range d.divs[o] {
		c := sd.Div.Div(rem)
		rem -= c * sd.Logical
		addr += c * sd.Stride
	}
	return addr
}

// AddressOf returns the physical address of the element at coords.
func (d *Descriptor) AddressOf(coords []int) int {
	addr := d.offset
	for i, c := range coords {
		addr += c * d.strides[i]
	}
	return addr
}

// contiguous reports whether the strides are the dense strides of order o
// with a zero offset.
func (d *Descriptor) contiguous(o Order) bool {
	if d.offset != 0 {
		return false
	}
	want := d.shape.Strides(o)
	for i, s := range d.strides {
		if d.shape[i] > 1 && s != want[i] {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (d *Descriptor) String() string {
	return fmt.Sprintf("Descriptor{shape=%v strides=%v offset=%d order=%s}", d.shape, d.strides, d.offset, d.order)
}
