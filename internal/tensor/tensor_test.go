package tensor

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// opaqueCore hides the strided capability of the core it wraps, so every
// view built on top of it has to go through the walker decorator chain.
type opaqueCore[T DType] struct {
	core[T]
}

func (c opaqueCore[T]) caps() Capability   { return CapWalker }
func (c opaqueCore[T]) trivial(Order) bool { return false }
func (c opaqueCore[T]) root() Storage[T]   { return nil }
func (c opaqueCore[T]) trivialIndexer() Indexer[T] {
	panic("opaque core has no trivial indexer")
}

func opaque[T DType](t *Tensor[T]) *Tensor[T] {
	return wrap[T](opaqueCore[T]{t.c})
}

func mustFromSlice[T DType](t *testing.T, data []T, shape Shape) *Tensor[T] {
	t.Helper()
	x, err := FromSlice(data, shape)
	require.NoError(t, err)
	return x
}

func must[T DType](t *testing.T) func(*Tensor[T], error) *Tensor[T] {
	return func(x *Tensor[T], err error) *Tensor[T] {
		t.Helper()
		require.NoError(t, err)
		return x
	}
}

func assertEqualShape(t *testing.T, expected, actual Shape, msg string) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Errorf("%s: shape mismatch: expected %v, got %v", msg, expected, actual)
	}
}

// seq drains t in order o through an iterator.
func seq[T DType](t *Tensor[T], o Order) []T {
	return slices.Collect(t.Values(o))
}

// walkerSeq drains t in order o through the general walker path.
func walkerSeq[T DType](t *Tensor[T], o Order) []T {
	var out []T
	for it := t.walkerIterator(o, 0); it.Valid(); it.Next() {
		out = append(out, it.Value())
	}
	return out
}

func TestDataType(t *testing.T) {
	assert.Equal(t, Float32, inferDataType[float32]())
	assert.Equal(t, Float64, inferDataType[float64]())
	assert.Equal(t, Int32, inferDataType[int32]())
	assert.Equal(t, Int64, inferDataType[int64]())
	assert.Equal(t, Uint8, inferDataType[uint8]())
	assert.Equal(t, Bool, inferDataType[bool]())

	type celsius float32
	assert.Equal(t, Float32, inferDataType[celsius]())

	assert.Equal(t, 8, Int64.Size())
	assert.Equal(t, "uint8", Uint8.String())
	assert.Equal(t, "unknown", DataType(42).String())
	assert.Panics(t, func() { DataType(42).Size() })
}

func TestShape(t *testing.T) {
	assert.Equal(t, 24, Shape{2, 3, 4}.NumElements())
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.Equal(t, 0, Shape{4, 0, 2}.NumElements())

	assert.NoError(t, Shape{0, 1}.Validate())
	assert.Error(t, Shape{2, -1}.Validate())

	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.Strides(RowMajor))
	assert.Equal(t, []int{1, 2, 6}, Shape{2, 3, 4}.Strides(ColMajor))
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())

	s := Shape{1, 2}
	c := s.Clone()
	c[0] = 7
	assert.Equal(t, Shape{1, 2}, s)
	assert.False(t, s.Equal(Shape{1}))
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name    string
		in      []Shape
		want    Shape
		wantErr bool
	}{
		{"same", []Shape{{2, 3}, {2, 3}}, Shape{2, 3}, false},
		{"expand ones", []Shape{{3, 1}, {1, 5}}, Shape{3, 5}, false},
		{"leading", []Shape{{4}, {2, 3, 4}}, Shape{2, 3, 4}, false},
		{"three", []Shape{{1, 5}, {3, 5}, {5}}, Shape{3, 5}, false},
		{"scalar", []Shape{{}, {2}}, Shape{2}, false},
		{"zero extent", []Shape{{0, 3}, {1, 3}}, Shape{0, 3}, false},
		{"mismatch", []Shape{{3, 4}, {3, 5}}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BroadcastShapes(tt.in...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrder(t *testing.T) {
	for _, in := range []string{"c", "C", "row", "row-major", " rowmajor "} {
		o, err := ParseOrder(in)
		require.NoError(t, err, in)
		assert.Equal(t, RowMajor, o, in)
	}
	for _, in := range []string{"f", "F", "col", "column-major"} {
		o, err := ParseOrder(in)
		require.NoError(t, err, in)
		assert.Equal(t, ColMajor, o, in)
	}
	_, err := ParseOrder("z")
	assert.Error(t, err)

	assert.Equal(t, "C", RowMajor.String())
	assert.Equal(t, "F", ColMajor.String())
	assert.Equal(t, ColMajor, RowMajor.Other())
	assert.Equal(t, []int{2, 1, 0}, RowMajor.fastest(3))
	assert.Equal(t, []int{0, 1, 2}, ColMajor.fastest(3))
}

func TestDefaultOrder(t *testing.T) {
	prev := DefaultOrder()
	t.Cleanup(func() { SetDefaultOrder(prev) })

	SetDefaultOrder(ColMajor)
	x := Zeros[float32](Shape{2, 3})
	assert.Equal(t, ColMajor, x.Order())
	assert.True(t, x.IsTrivial(ColMajor))
	assert.False(t, x.IsTrivial(RowMajor))
}

func TestCapability(t *testing.T) {
	assert.Equal(t, "walker|flat|strided", (CapWalker | CapFlat | CapStrided).String())
	assert.Equal(t, "walker", CapWalker.String())
	assert.Equal(t, "none", Capability(0).String())
	assert.True(t, (CapWalker | CapStrided).Has(CapStrided))
	assert.False(t, CapWalker.Has(CapWalker|CapFlat))
}

func TestTensorQueries(t *testing.T) {
	x := Arange[int64](Shape{2, 3})

	assert.Equal(t, Shape{2, 3}, x.Shape())
	assert.Equal(t, 2, x.Dim())
	assert.Equal(t, 6, x.Size())
	assert.Equal(t, RowMajor, x.Order())
	assert.Equal(t, Int64, x.DType())
	assert.False(t, x.IsView())
	assert.Equal(t, CapWalker|CapFlat|CapStrided, x.Capabilities())
	assert.Equal(t, "Tensor[int64][2 3] C", x.String())

	v := must[int64](t)(x.Transpose())
	assert.True(t, v.IsView())
	assert.Equal(t, CapWalker|CapStrided, v.Capabilities())
	assert.Equal(t, []int{1, 3}, v.Descriptor().Strides())
}

func TestTensorAtSet(t *testing.T) {
	x := Arange[float32](Shape{3, 4})
	assert.Equal(t, float32(6), x.At(1, 2))

	x.Set(-1, 2, 3)
	assert.Equal(t, float32(-1), x.At(2, 3))

	assert.Panics(t, func() { x.At(3, 0) })
	assert.Panics(t, func() { x.At(0) })
	assert.Panics(t, func() { x.Set(0, -1, 0) })

	// The same element through a chain-only view.
	v := must[float32](t)(opaque(x).Transpose())
	assert.Equal(t, float32(6), v.At(2, 1))
	v.Set(42, 2, 1)
	assert.Equal(t, float32(42), x.At(1, 2))
}

func TestTensorItem(t *testing.T) {
	s := Full[int32](Shape{}, 7)
	assert.Equal(t, int32(7), s.Item())
	v := must[int32](t)(Arange[int32](Shape{1, 1, 4}).Index(At(0), At(0), At(3)))
	assert.Equal(t, int32(3), v.Item())
	assert.Panics(t, func() { Arange[int32](Shape{2}).Item() })
}

func TestTensorIndexers(t *testing.T) {
	x := Arange[int64](Shape{2, 3})

	assert.Equal(t, Buffer[int64]{0, 1, 2, 3, 4, 5}, x.TrivialIndexer())

	f := x.Indexer(ColMajor)
	require.Equal(t, 6, f.Len())
	got := make([]int64, f.Len())
	for i := range got {
		got[i] = f.At(i)
	}
	assert.Equal(t, []int64{0, 3, 1, 4, 2, 5}, got)

	v := must[int64](t)(x.Transpose())
	assert.Panics(t, func() { v.TrivialIndexer() })

	// Walker-backed indexer, accessed out of order.
	w := must[int64](t)(opaque(x).Transpose()).Indexer(RowMajor)
	assert.Equal(t, int64(5), w.At(5))
	assert.Equal(t, int64(0), w.At(0))
	assert.Equal(t, int64(4), w.At(3))
	w.SetAt(1, 30)
	assert.Equal(t, int64(30), x.At(1, 0))
}

func TestTensorAliasRelease(t *testing.T) {
	x := Arange[float64](Shape{4})
	sc := x.c.(*storageCore[float64])

	a := x.Alias()
	assert.False(t, sc.unique())
	a.Release()
	assert.True(t, sc.unique())
	assert.Nil(t, a.c)
	assert.Contains(t, a.String(), "released")
	a.Release()

	v := must[float64](t)(x.Slice(Span(1, 3)))
	assert.False(t, sc.unique())
	v.Release()
	assert.True(t, sc.unique())

	x.Release()
	assert.Nil(t, sc.data)
}

func TestTensorResize(t *testing.T) {
	x := Arange[int32](Shape{2, 3})

	require.NoError(t, x.Resize(Shape{2, 2}))
	assert.Equal(t, Shape{2, 2}, x.Shape())
	assert.Equal(t, []int32{0, 1, 2, 3}, seq(x, RowMajor))

	require.NoError(t, x.Resize(Shape{3, 2}))
	assert.Equal(t, []int32{0, 1, 2, 3, 0, 0}, seq(x, RowMajor))

	assert.Error(t, x.Resize(Shape{-1}))

	v := must[int32](t)(x.Transpose())
	assert.ErrorIs(t, v.Resize(Shape{6}), ErrResizeView)
	assert.ErrorIs(t, x.Resize(Shape{6}), ErrSharedStorage)

	v.Release()
	require.NoError(t, x.Resize(Shape{6}))
}

func TestTensorCopy(t *testing.T) {
	x := Arange[int64](Shape{3, 4})
	rev := must[int64](t)(x.Index(All(), All().By(-1)))

	c := rev.Copy(ColMajor)
	assert.False(t, c.IsView())
	assert.Equal(t, ColMajor, c.Order())
	assert.True(t, c.IsTrivial(ColMajor))
	assert.Equal(t, seq(rev, RowMajor), seq(c, RowMajor))
	assert.Equal(t, seq(rev, ColMajor), seq(c, ColMajor))

	// Copies are independent.
	c.Set(-1, 0, 0)
	assert.Equal(t, int64(3), rev.At(0, 0))

	trivial := x.Copy(RowMajor)
	assert.Equal(t, seq(x, RowMajor), seq(trivial, RowMajor))
}

func TestTensorFill(t *testing.T) {
	x := Arange[uint8](Shape{3, 3})
	diag := must[uint8](t)(x.Slice(All().By(2), All().By(2)))
	diag.Fill(9)
	assert.Equal(t, "[[9 1 9] [3 4 5] [9 7 9]]", x.Pretty())
}

func TestTensorAssign(t *testing.T) {
	dst := Zeros[int32](Shape{3, 4})
	row := mustFromSlice(t, []int32{1, 2, 3, 4}, Shape{4})
	require.NoError(t, dst.Assign(row))
	assert.Equal(t, "[[1 2 3 4] [1 2 3 4] [1 2 3 4]]", dst.Pretty())

	col := mustFromSlice(t, []int32{7, 8, 9}, Shape{3, 1})
	rev := must[int32](t)(dst.Slice(All(), All().By(-1)))
	require.NoError(t, rev.Assign(col))
	assert.Equal(t, []int32{7, 7, 7, 7, 8, 8, 8, 8, 9, 9, 9, 9}, seq(dst, RowMajor))

	err := dst.Assign(Zeros[int32](Shape{2, 4}))
	assert.ErrorIs(t, err, ErrAssignShape)
	err = row.Assign(dst)
	assert.ErrorIs(t, err, ErrAssignShape)
}

func TestTensorMap(t *testing.T) {
	x := Arange[int64](Shape{2, 3})
	even := Map(x, func(v int64) bool { return v%2 == 0 })
	assert.Equal(t, Bool, even.DType())
	assert.Equal(t, []bool{true, false, true, false, true, false}, seq(even, RowMajor))

	f := Map(must[int64](t)(x.Transpose()), func(v int64) float64 { return float64(v) / 2 })
	assert.Equal(t, Shape{3, 2}, f.Shape())
	assert.Equal(t, 2.5, f.At(2, 1))
}

func TestPretty(t *testing.T) {
	assert.Equal(t, "[0 1 2]", Arange[int32](Shape{3}).Pretty())
	assert.Equal(t, "[[[0 1] [2 3]] [[4 5] [6 7]]]", Arange[int32](Shape{2, 2, 2}).Pretty())
	assert.Equal(t, "5", Full[int32](Shape{}, 5).Pretty())
	assert.Equal(t, "[]", Zeros[int32](Shape{0}).Pretty())
	assert.Equal(t, "[false true]", Arange[bool](Shape{2}).Pretty())
}

func TestIsInvalidSubscript(t *testing.T) {
	x := Arange[float32](Shape{2})
	_, err := x.Slice(From(5))
	assert.True(t, IsInvalidSubscript(err))
	assert.False(t, IsInvalidSubscript(x.Resize(Shape{-1})))
	assert.False(t, IsInvalidSubscript(nil))
}
