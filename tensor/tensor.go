// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/ndview/internal/parallel"
	"github.com/born-ml/ndview/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor data types.
// Supported types: float32, float64, int32, int64, uint8, bool.
type DType = tensor.DType

// IndexType is a constraint for gather subscript element types.
type IndexType = tensor.IndexType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Order is a traversal convention: RowMajor ("C") or ColMajor ("F").
type Order = tensor.Order

// Traversal orders.
const (
	RowMajor Order = tensor.RowMajor
	ColMajor Order = tensor.ColMajor
)

// Descriptor is the immutable shape/strides/offset/order bundle of a tensor.
type Descriptor = tensor.Descriptor

// Capability describes the accessor forms a tensor supports natively.
type Capability = tensor.Capability

// Capability bits.
const (
	CapWalker  Capability = tensor.CapWalker
	CapFlat    Capability = tensor.CapFlat
	CapStrided Capability = tensor.CapStrided
)

// DivisionPolicy selects how flat indices are divided into coordinates.
type DivisionPolicy = tensor.DivisionPolicy

// Division policies.
const (
	DivisionAuto       DivisionPolicy = tensor.DivisionAuto
	DivisionNative     DivisionPolicy = tensor.DivisionNative
	DivisionReciprocal DivisionPolicy = tensor.DivisionReciprocal
)

// Tensor is a handle on a storage tensor or a lazy view.
//
// Example:
//
//	x := tensor.Arange[float32](tensor.Shape{3, 3})
//	y, _ := x.Index(tensor.All(), tensor.All().By(-1)) // columns reversed
//	z, _ := y.Transpose()                              // no copy
type Tensor[T DType] = tensor.Tensor[T]

// Storage is the flat element container behind a storage tensor.
type Storage[T any] = tensor.Storage[T]

// Buffer is the default slice-backed Storage.
type Buffer[T any] = tensor.Buffer[T]

// Walker is a stateful multi-axis cursor over a tensor.
type Walker[T any] = tensor.Walker[T]

// Indexer is a flat random-access accessor.
type Indexer[T any] = tensor.Indexer[T]

// Iterator is a random-access iterator in a fixed order.
type Iterator[T any] = tensor.Iterator[T]

// ReverseIterator walks an Iterator backwards.
type ReverseIterator[T any] = tensor.ReverseIterator[T]

// Subscript is one positional argument of Tensor.Index.
type Subscript = tensor.Subscript

// SubscriptError describes a rejected view construction.
type SubscriptError = tensor.SubscriptError

// ParallelConfig controls how Copy and ParallelEach split work.
type ParallelConfig = parallel.Config

// Errors. Every view construction failure matches ErrInvalidSubscript.
var (
	ErrInvalidSubscript  = tensor.ErrInvalidSubscript
	ErrTooManySubscripts = tensor.ErrTooManySubscripts
	ErrSliceBounds       = tensor.ErrSliceBounds
	ErrSliceStep         = tensor.ErrSliceStep
	ErrNotPermutation    = tensor.ErrNotPermutation
	ErrReshapeSize       = tensor.ErrReshapeSize
	ErrMultipleInfer     = tensor.ErrMultipleInfer
	ErrSubdimBounds      = tensor.ErrSubdimBounds
	ErrGatherBounds      = tensor.ErrGatherBounds
	ErrGatherShape       = tensor.ErrGatherShape
	ErrMaskShape         = tensor.ErrMaskShape
	ErrMixedSubscripts   = tensor.ErrMixedSubscripts
	ErrResizeView        = tensor.ErrResizeView
	ErrSharedStorage     = tensor.ErrSharedStorage
	ErrAssignShape       = tensor.ErrAssignShape
)

// Creation functions

// Zeros creates a tensor filled with zeros in the default order.
//
// Example:
//
//	x := tensor.Zeros[float32](tensor.Shape{2, 3})
func Zeros[T DType](shape Shape) *Tensor[T] {
	return tensor.Zeros[T](shape)
}

// Ones creates a tensor filled with ones.
func Ones[T DType](shape Shape) *Tensor[T] {
	return tensor.Ones[T](shape)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	x := tensor.Full[float32](tensor.Shape{2, 3}, 3.14)
func Full[T DType](shape Shape, value T) *Tensor[T] {
	return tensor.Full(shape, value)
}

// Arange creates a row-major tensor holding 0, 1, 2, ... .
//
// Example:
//
//	x := tensor.Arange[int64](tensor.Shape{2, 5}) // [[0 1 2 3 4] [5 6 7 8 9]]
func Arange[T DType](shape Shape) *Tensor[T] {
	return tensor.Arange[T](shape)
}

// FromSlice creates a row-major tensor from a Go slice.
//
// Example:
//
//	data := []float32{1, 2, 3, 4, 5, 6}
//	x, err := tensor.FromSlice(data, tensor.Shape{2, 3})
func FromSlice[T DType](data []T, shape Shape) (*Tensor[T], error) {
	return tensor.FromSlice(data, shape)
}

// FromSliceOrder creates a tensor whose storage holds data in order o.
func FromSliceOrder[T DType](data []T, shape Shape, o Order) (*Tensor[T], error) {
	return tensor.FromSliceOrder(data, shape, o)
}

// NewWithStorage wraps caller-provided storage without copying it.
func NewWithStorage[T DType](shape Shape, o Order, s Storage[T]) (*Tensor[T], error) {
	return tensor.NewWithStorage(shape, o, s)
}

// Map applies fn element-wise into a new tensor.
//
// Example:
//
//	mask := tensor.Map(x, func(v float32) bool { return v < 5 })
func Map[T, U DType](t *Tensor[T], fn func(T) U) *Tensor[U] {
	return tensor.Map(t, fn)
}

// Subscripts

// At selects one position and drops the axis.
func At(i int) Subscript { return tensor.At(i) }

// All keeps the whole axis.
func All() Subscript { return tensor.All() }

// Span selects [start, stop).
func Span(start, stop int) Subscript { return tensor.Span(start, stop) }

// From selects [start, end of axis).
func From(start int) Subscript { return tensor.From(start) }

// Until selects [0, stop).
func Until(stop int) Subscript { return tensor.Until(stop) }

// Take gathers along the next axis with integer subscripts.
func Take(idx *Tensor[int64]) Subscript { return tensor.Take(idx) }

// Where selects with a boolean mask over the leading axes.
func Where(mask *Tensor[bool]) Subscript { return tensor.Where(mask) }

// Mapping views

// Gather selects t[idx0[p], idx1[p], ...] over the broadcast subscript shape.
//
// Example:
//
//	rows, _ := tensor.FromSlice([]int64{2, 0}, tensor.Shape{2})
//	picked, _ := tensor.Gather(x, rows) // rows 2 and 0 of x
func Gather[T DType, I IndexType](t *Tensor[T], idx ...*Tensor[I]) (*Tensor[T], error) {
	return tensor.Gather(t, idx...)
}

// Mask keeps the blocks of t whose leading coordinates are true in mask.
func Mask[T DType](t *Tensor[T], mask *Tensor[bool]) (*Tensor[T], error) {
	return tensor.Mask(t, mask)
}

// Manipulation functions

// Cat concatenates tensors along a dimension into new storage.
//
// Example:
//
//	a := tensor.Ones[float32](tensor.Shape{2, 3})
//	b := tensor.Zeros[float32](tensor.Shape{2, 3})
//	c := tensor.Cat([]*tensor.Tensor[float32]{a, b}, 0) // Shape: [4, 3]
func Cat[T DType](tensors []*Tensor[T], dim int) *Tensor[T] {
	return tensor.Cat(tensors, dim)
}

// Select picks from x where cond is true and from y elsewhere, broadcasting
// all three.
func Select[T DType](cond *Tensor[bool], x, y *Tensor[T]) (*Tensor[T], error) {
	return tensor.Where(cond, x, y)
}

// BroadcastShapes returns the NumPy broadcast of the shapes.
func BroadcastShapes(shapes ...Shape) (Shape, error) {
	return tensor.BroadcastShapes(shapes...)
}

// Engine settings

// DefaultOrder returns the order used by Zeros, Full and Reshape.
func DefaultOrder() Order { return tensor.DefaultOrder() }

// SetDefaultOrder changes the default order.
func SetDefaultOrder(o Order) { tensor.SetDefaultOrder(o) }

// ParseOrder parses "c" or "f" and their long forms.
func ParseOrder(s string) (Order, error) { return tensor.ParseOrder(s) }

// SetDivisionPolicy changes the division policy for descriptors built later.
func SetDivisionPolicy(p DivisionPolicy) { tensor.SetDivisionPolicy(p) }

// ResolvedDivisionPolicy returns the concrete policy in effect.
func ResolvedDivisionPolicy() DivisionPolicy { return tensor.ResolvedDivisionPolicy() }

// SetParallelConfig sets the partitioning used by Copy.
func SetParallelConfig(cfg ParallelConfig) { tensor.SetParallelConfig(cfg) }

// IsInvalidSubscript reports whether err is a view construction failure.
func IsInvalidSubscript(err error) bool { return tensor.IsInvalidSubscript(err) }
