package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverseColumns(t *testing.T) {
	x := mustFromSlice(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9}, Shape{3, 3})

	rev := must[int64](t)(x.Slice(All(), All().By(-1)))
	assert.Equal(t, "[[3 2 1] [6 5 4] [9 8 7]]", rev.Pretty())
	assert.Equal(t, []int64{3, 6, 9, 2, 5, 8, 1, 4, 7}, seq(rev, ColMajor))
	assert.Equal(t, []int{3, -1}, rev.Descriptor().Strides())
	assert.Equal(t, 2, rev.Descriptor().Offset())
	assert.False(t, rev.IsTrivial(RowMajor))
}

func TestDoubleTranspose(t *testing.T) {
	x := Arange[float32](Shape{2, 3, 4})

	tt := must[float32](t)(x.Transpose())
	assert.Equal(t, Shape{4, 3, 2}, tt.Shape())

	back := must[float32](t)(tt.Transpose())
	assertEqualShape(t, x.Shape(), back.Shape(), "double transpose")
	assert.Equal(t, x.Order(), back.Order())
	for _, o := range []Order{RowMajor, ColMajor} {
		assert.Equal(t, seq(x, o), seq(back, o))
	}
}

func TestSliceNegativeBounds(t *testing.T) {
	x := mustFromSlice(t, []int32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, Shape{10})

	mid := must[int32](t)(x.Slice(Span(2, -2)))
	assert.Equal(t, []int32{3, 4, 5, 6, 7, 8}, seq(mid, RowMajor))

	stepped := must[int32](t)(x.Slice(Span(2, -2).By(2)))
	assert.Equal(t, []int32{3, 5, 7}, seq(stepped, RowMajor))
}

func TestSliceRanges(t *testing.T) {
	x := Arange[int32](Shape{10})
	tests := []struct {
		sub  Subscript
		want []int32
	}{
		{All(), []int32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{From(7), []int32{7, 8, 9}},
		{From(-3), []int32{7, 8, 9}},
		{From(-30), []int32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{Until(3), []int32{0, 1, 2}},
		{Until(30), []int32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{Span(1, 8).By(3), []int32{1, 4, 7}},
		{All().By(-1), []int32{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}},
		{All().By(-4), []int32{9, 5, 1}},
		{From(5).By(-2), []int32{5, 3, 1}},
		{From(30).By(-3), []int32{9, 6, 3, 0}},
		{Until(6).By(-1), []int32{9, 8, 7}},
		{Span(-2, 2).By(-3), []int32{8, 5}},
		{At(4).By(1), []int32{4}},
	}
	for _, tt := range tests {
		t.Run(tt.sub.String(), func(t *testing.T) {
			v := must[int32](t)(x.Slice(tt.sub))
			assert.Equal(t, tt.want, seq(v, RowMajor))
			assert.Equal(t, tt.want, seq(v, ColMajor))
		})
	}
}

func TestSliceReduce(t *testing.T) {
	x := Arange[int64](Shape{3, 4, 5})

	v := must[int64](t)(x.Slice(At(1), Span(1, 3), At(-1)))
	assert.Equal(t, Shape{2}, v.Shape())
	assert.Equal(t, []int64{29, 34}, seq(v, RowMajor))

	// Missing trailing subscripts keep their axis.
	w := must[int64](t)(x.Slice(At(2)))
	assert.Equal(t, Shape{4, 5}, w.Shape())
	assert.Equal(t, int64(40), w.At(0, 0))

	// Every axis reduced leaves a scalar view.
	s := must[int64](t)(x.Slice(At(0), At(1), At(2)))
	assert.Equal(t, 0, s.Dim())
	assert.Equal(t, int64(7), s.Item())
}

func TestSliceOfSlice(t *testing.T) {
	x := Arange[int32](Shape{6, 6})
	a := must[int32](t)(x.Slice(From(1).By(2), All().By(-1)))
	b := must[int32](t)(a.Slice(All().By(-1), Span(1, 5).By(2)))

	// a rows 1,3,5 with reversed columns; b reverses those rows and keeps
	// columns 4,2 of the original.
	assert.Equal(t, "[[34 32] [22 20] [10 8]]", b.Pretty())
	assert.Equal(t, seq(b, ColMajor), walkerSeq(b, ColMajor))
}

func TestSubdim(t *testing.T) {
	x := Arange[int32](Shape{3, 4, 5})

	row := must[int32](t)(x.Subdim(1))
	assert.Equal(t, Shape{4, 5}, row.Shape())
	assert.Equal(t, int32(20), row.At(0, 0))

	vec := must[int32](t)(x.Subdim(-1, -2))
	assert.Equal(t, []int32{50, 51, 52, 53, 54}, seq(vec, RowMajor))

	same := must[int32](t)(x.Subdim())
	assert.True(t, same.IsTrivial(RowMajor))
	assert.Equal(t, seq(x, RowMajor), seq(same, RowMajor))

	// Index dispatches to Subdim when only scalars are given.
	idx := must[int32](t)(x.Index(At(2), At(0)))
	assert.Equal(t, seq(must[int32](t)(x.Subdim(2, 0)), RowMajor), seq(idx, RowMajor))
}

func TestReshape(t *testing.T) {
	x := Arange[int64](Shape{2, 6})

	r := must[int64](t)(x.ReshapeOrder(RowMajor, 3, -1))
	assert.Equal(t, Shape{3, 4}, r.Shape())
	assert.True(t, r.IsTrivial(RowMajor))
	assert.False(t, r.IsTrivial(ColMajor))
	assert.True(t, r.Capabilities().Has(CapStrided))
	assert.Equal(t, int64(6), r.At(1, 2))

	// Cross-order: the column-major sequence of x laid out column-major.
	f := must[int64](t)(x.ReshapeOrder(ColMajor, 4, 3))
	assert.False(t, f.Capabilities().Has(CapStrided))
	assert.Equal(t, seq(x, ColMajor), seq(f, ColMajor))
	assert.Equal(t, int64(6), f.At(1, 0))

	// Writes go through to the parent.
	f.Set(-1, 1, 0)
	assert.Equal(t, int64(-1), x.At(1, 0))
}

func TestReshapeOfView(t *testing.T) {
	x := Arange[int32](Shape{3, 4})
	tr := must[int32](t)(x.Transpose())

	r := must[int32](t)(tr.ReshapeOrder(RowMajor, 12))
	assert.Equal(t, seq(tr, RowMajor), seq(r, RowMajor))

	// A transposed column-major reading is the storage sequence itself.
	f := must[int32](t)(tr.ReshapeOrder(ColMajor, 2, 6))
	assert.Equal(t, seq(tr, ColMajor), seq(f, ColMajor))
	assert.Equal(t, seq(x, RowMajor), seq(tr, ColMajor))
}

func TestReshapeOverWalkerParent(t *testing.T) {
	x := Arange[int32](Shape{3, 4})
	rev := must[int32](t)(x.Slice(All().By(-1), All().By(-1)))
	want := must[int32](t)(rev.Reshape(2, 6))

	r := must[int32](t)(opaque(rev).Reshape(2, 6))
	assert.False(t, r.Capabilities().Has(CapStrided))
	assert.Equal(t, seq(want, RowMajor), seq(r, RowMajor))
	assert.Equal(t, seq(want, ColMajor), seq(r, ColMajor))
	assert.Equal(t, seq(want, ColMajor), walkerSeq(r, ColMajor))

	r.Set(-1, 1, 0)
	assert.Equal(t, int32(-1), x.At(1, 1))
}

func TestReshapeZeroSize(t *testing.T) {
	x := Zeros[float32](Shape{4, 3, 0})

	for _, dims := range [][]int{{0}, {0, 5}, {2, 0, 7}, {12, 0}} {
		r, err := x.Reshape(dims...)
		require.NoError(t, err, "%v", dims)
		assert.Equal(t, 0, r.Size())
		assert.Empty(t, seq(r, RowMajor))
	}

	r, err := x.Reshape(-1)
	require.NoError(t, err)
	assert.Equal(t, Shape{0}, r.Shape())

	// Zero known extents leave -1 undetermined.
	for _, dims := range [][]int{{1}, {4, 3}, {0, -1}} {
		_, err := x.Reshape(dims...)
		assert.ErrorIs(t, err, ErrReshapeSize, "%v", dims)
	}
}

func TestTransposeInvolution(t *testing.T) {
	x := Arange[int64](Shape{2, 3, 4, 5})
	perms := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{1, 0, 3, 2},
		{2, 3, 0, 1},
		{1, 3, 0, 2},
	}
	for _, p := range perms {
		inv := make([]int, len(p))
		for i, a := range p {
			inv[a] = i
		}
		for _, src := range []*Tensor[int64]{x, opaque(x)} {
			v := must[int64](t)(src.Transpose(p...))
			back := must[int64](t)(v.Transpose(inv...))
			assert.Equal(t, x.Shape(), back.Shape())
			for _, o := range []Order{RowMajor, ColMajor} {
				assert.Equal(t, seq(x, o), seq(back, o), "perm %v order %s", p, o)
			}
		}
	}
}

func TestReshapeRoundTrip(t *testing.T) {
	shapes := []Shape{{2, 3, 4}, {6, 4}, {24}, {4, 1, 6}}
	for _, base := range []*Tensor[int32]{
		Arange[int32](Shape{2, 3, 4}),
		must[int32](t)(Arange[int32](Shape{4, 3, 2}).Transpose()),
		must[int32](t)(Arange[int32](Shape{2, 3, 8}).Slice(All(), All(), All().By(-2))),
	} {
		for _, o := range []Order{RowMajor, ColMajor} {
			for _, s := range shapes {
				mid := must[int32](t)(base.ReshapeOrder(o, s...))
				back := must[int32](t)(mid.ReshapeOrder(o, base.Shape()...))
				assert.Equal(t, seq(base, o), seq(back, o), "%v via %v order %s", base.Shape(), s, o)
			}
		}
	}
}

func TestReverseOfReverse(t *testing.T) {
	x := Arange[uint8](Shape{3, 4, 5})
	once := must[uint8](t)(x.Slice(All(), All(), All().By(-1)))
	twice := must[uint8](t)(once.Slice(All(), All(), All().By(-1)))
	for _, o := range []Order{RowMajor, ColMajor} {
		assert.NotEqual(t, seq(x, o), seq(once, o))
		assert.Equal(t, seq(x, o), seq(twice, o))
	}
	assert.Equal(t, x.Descriptor().Strides(), twice.Descriptor().Strides())
	assert.Equal(t, 0, twice.Descriptor().Offset())
}

func TestTrivialGeneralEquivalence(t *testing.T) {
	c := Arange[int64](Shape{3, 4, 5})
	f := c.Copy(ColMajor)
	views := []struct {
		name string
		t    *Tensor[int64]
		o    Order
	}{
		{"storage C", c, RowMajor},
		{"storage F", f, ColMajor},
		{"identity transpose", must[int64](t)(c.Transpose(0, 1, 2)), RowMajor},
		{"full slice", must[int64](t)(f.Slice(All(), All())), ColMajor},
		{"empty subdim", must[int64](t)(f.Subdim()), ColMajor},
		{"same order reshape", must[int64](t)(f.ReshapeOrder(ColMajor, 6, 10)), ColMajor},
		{"nested", must[int64](t)(must[int64](t)(c.ReshapeOrder(RowMajor, 60)).Slice(All())), RowMajor},
	}
	for _, v := range views {
		t.Run(v.name, func(t *testing.T) {
			require.True(t, v.t.IsTrivial(v.o))
			assert.True(t, v.t.Begin(v.o).Trivial())
			assert.Equal(t, seq(v.t, v.o), walkerSeq(v.t, v.o))
			// The other order always goes through the walker.
			other := v.o.Other()
			assert.False(t, v.t.IsTrivial(other))
			assert.Equal(t, seq(v.t, other), walkerSeq(v.t, other))
		})
	}
}

func TestNonTrivialViews(t *testing.T) {
	x := Arange[int32](Shape{3, 4})
	for name, v := range map[string]*Tensor[int32]{
		"transpose":       must[int32](t)(x.Transpose()),
		"offset slice":    must[int32](t)(x.Slice(From(1))),
		"strided slice":   must[int32](t)(x.Slice(All(), All().By(2))),
		"reduced slice":   must[int32](t)(x.Slice(All(), At(0))),
		"subdim":          must[int32](t)(x.Subdim(0)),
		"cross reshape":   must[int32](t)(x.ReshapeOrder(ColMajor, 12)),
		"reshape of view": must[int32](t)(must[int32](t)(x.Transpose()).ReshapeOrder(RowMajor, 12)),
	} {
		assert.False(t, v.IsTrivial(RowMajor), name)
	}
}

func TestViewsShareStorage(t *testing.T) {
	x := Zeros[int32](Shape{4, 4})
	sub := must[int32](t)(x.Slice(Span(1, 3), Span(1, 3)))
	sub.Fill(1)
	tr := must[int32](t)(sub.Transpose())
	tr.Set(2, 0, 1)
	assert.Equal(t, "[[0 0 0 0] [0 1 1 0] [0 2 1 0] [0 0 0 0]]", x.Pretty())
}

func TestIndexDispatch(t *testing.T) {
	x := Arange[int64](Shape{4, 3})

	rng := must[int64](t)(x.Index(From(2)))
	assert.Equal(t, Shape{2, 3}, rng.Shape())
	assert.True(t, rng.IsView())

	scalar := must[int64](t)(x.Index(At(1)))
	assert.Equal(t, []int64{3, 4, 5}, seq(scalar, RowMajor))

	mixed := must[int64](t)(x.Index(At(1), All().By(-1)))
	assert.Equal(t, []int64{5, 4, 3}, seq(mixed, RowMajor))

	rows := mustFromSlice(t, []int64{3, 1}, Shape{2})
	g := must[int64](t)(x.Index(Take(rows)))
	assert.False(t, g.IsView())
	assert.Equal(t, "[[9 10 11] [3 4 5]]", g.Pretty())

	m := Map(x, func(v int64) bool { return v%4 == 0 })
	picked := must[int64](t)(x.Index(Where(m)))
	assert.Equal(t, []int64{0, 4, 8}, seq(picked, RowMajor))
}
