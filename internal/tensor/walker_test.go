package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddrWalker(t *testing.T) {
	x := Arange[int32](Shape{3, 4})
	w := x.Walker()

	assert.Equal(t, int32(0), w.Get())
	w.Step(1)
	w.Step(0)
	assert.Equal(t, int32(5), w.Get())
	assert.Equal(t, []int{1, 1}, w.Coords())

	w.Walk(1, 2)
	assert.Equal(t, int32(7), w.Get())
	w.StepBack(0)
	assert.Equal(t, int32(3), w.Get())

	w.Reset(1)
	assert.Equal(t, []int{0, 0}, w.Coords())
	assert.Equal(t, int32(0), w.Get())

	w.To(10, RowMajor)
	assert.Equal(t, []int{2, 2}, w.Coords())
	assert.Equal(t, int32(10), w.Get())
	w.To(10, ColMajor)
	assert.Equal(t, []int{1, 3}, w.Coords())
	assert.Equal(t, int32(7), w.Get())

	w.Set(-7)
	assert.Equal(t, int32(-7), x.At(1, 3))

	w.ResetAll()
	assert.Equal(t, int32(0), w.Get())
}

func TestDecoratorWalkers(t *testing.T) {
	x := Arange[int32](Shape{3, 4})
	d := x.Descriptor()

	t.Run("offset", func(t *testing.T) {
		w := newOffsetWalker[int32](newAddrWalker[int32](d, x.c.root()), []int{1, 2})
		assert.Equal(t, int32(6), w.Get())
		w.Step(1)
		assert.Equal(t, int32(7), w.Get())
		w.Walk(0, 1)
		assert.Equal(t, int32(11), w.Get())
	})

	t.Run("axis", func(t *testing.T) {
		w := newAxisWalker[int32](newAddrWalker[int32](d, x.c.root()), []int{1, 0})
		w.Step(0)
		assert.Equal(t, int32(1), w.Get())
		w.Walk(1, 2)
		assert.Equal(t, int32(9), w.Get())
		w.StepBack(0)
		assert.Equal(t, int32(8), w.Get())
	})

	t.Run("scale", func(t *testing.T) {
		inner := newOffsetWalker[int32](newAddrWalker[int32](d, x.c.root()), []int{0, 3})
		w := newScaleWalker[int32](inner, []int{2, -1})
		assert.Equal(t, int32(3), w.Get())
		w.Step(1)
		assert.Equal(t, int32(2), w.Get())
		w.Step(0)
		assert.Equal(t, int32(10), w.Get())
		w.StepBack(1)
		assert.Equal(t, int32(11), w.Get())
		w.Walk(1, 3)
		assert.Equal(t, int32(8), w.Get())
		w.StepBack(0)
		assert.Equal(t, int32(0), w.Get())
	})

	t.Run("broadcast", func(t *testing.T) {
		row := Arange[int32](Shape{1, 4})
		w := newBroadcastWalker[int32](row.Walker(), row.Shape(), 3)
		w.Step(0)
		w.Step(1)
		assert.Equal(t, int32(0), w.Get())
		w.Walk(2, 3)
		assert.Equal(t, int32(3), w.Get())
		w.StepBack(2)
		assert.Equal(t, int32(2), w.Get())
	})

	t.Run("bound", func(t *testing.T) {
		vd := ContiguousDescriptor(Shape{2, 2}, RowMajor)
		inner := newOffsetWalker[int32](newAddrWalker[int32](d, x.c.root()), []int{1, 1})
		w := newBoundWalker[int32](inner, vd)
		w.To(3, RowMajor)
		assert.Equal(t, []int{1, 1}, w.Coords())
		assert.Equal(t, int32(10), w.Get())
		w.Reset(0)
		assert.Equal(t, int32(6), w.Get())
		w.To(2, ColMajor)
		assert.Equal(t, []int{0, 1}, w.Coords())
		assert.Equal(t, int32(6), w.Get())
		w.ResetAll()
		assert.Equal(t, int32(5), w.Get())
		w.Set(50)
		assert.Equal(t, int32(50), x.At(1, 1))
	})
}

// TestChainMatchesStrided builds every lazy view kind twice, once over the
// storage and once over an opaque wrapper that forces the decorator chain,
// and checks that both walk the same elements in both orders.
func TestChainMatchesStrided(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		build func(*Tensor[int64]) (*Tensor[int64], error)
	}{
		{"transpose", Shape{2, 3, 4}, func(x *Tensor[int64]) (*Tensor[int64], error) {
			return x.Transpose(2, 0, 1)
		}},
		{"reverse", Shape{3, 4}, func(x *Tensor[int64]) (*Tensor[int64], error) {
			return x.Slice(All().By(-1), All().By(-1))
		}},
		{"strided slice", Shape{5, 6}, func(x *Tensor[int64]) (*Tensor[int64], error) {
			return x.Slice(Span(1, 5).By(2), From(4).By(-3))
		}},
		{"reduced slice", Shape{3, 4, 5}, func(x *Tensor[int64]) (*Tensor[int64], error) {
			return x.Slice(All(), At(-1), Span(1, 4))
		}},
		{"subdim", Shape{3, 4, 5}, func(x *Tensor[int64]) (*Tensor[int64], error) {
			return x.Subdim(2, 1)
		}},
		{"reshape", Shape{4, 6}, func(x *Tensor[int64]) (*Tensor[int64], error) {
			return x.ReshapeOrder(ColMajor, 2, 3, 4)
		}},
		{"slice of transpose", Shape{4, 5}, func(x *Tensor[int64]) (*Tensor[int64], error) {
			v, err := x.Transpose()
			if err != nil {
				return nil, err
			}
			return v.Slice(From(1), Until(-1).By(2))
		}},
		{"reshape of slice", Shape{4, 6}, func(x *Tensor[int64]) (*Tensor[int64], error) {
			v, err := x.Slice(All(), All().By(-2))
			if err != nil {
				return nil, err
			}
			return v.Reshape(3, 4)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := Arange[int64](tt.shape)
			strided, err := tt.build(x)
			require.NoError(t, err)
			chained, err := tt.build(opaque(x))
			require.NoError(t, err)
			assert.False(t, chained.Capabilities().Has(CapStrided))

			for _, o := range []Order{RowMajor, ColMajor} {
				want := seq(strided, o)
				assert.Len(t, want, strided.Size())
				assert.Equal(t, want, seq(chained, o), "order %s", o)
				assert.Equal(t, want, walkerSeq(strided, o), "order %s", o)
			}
		})
	}
}
