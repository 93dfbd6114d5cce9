package tensor

import (
	"fmt"
	"reflect"
)

// Zeros creates a tensor filled with zeros, laid out in the default order.
//
// Example:
//
//	t := tensor.Zeros[float32](Shape{3, 4})
func Zeros[T DType](shape Shape) *Tensor[T] {
	if err := shape.Validate(); err != nil {
		panic(err) // Shapes are built by the caller; a negative extent is a bug.
	}
	return wrap[T](newStorageCore[T](shape.Clone(), DefaultOrder(), NewBuffer[T](shape.NumElements())))
}

// Ones creates a tensor filled with ones.
func Ones[T DType](shape Shape) *Tensor[T] {
	return Full(shape, fromInt[T](1))
}

// Full creates a tensor filled with a specific value.
func Full[T DType](shape Shape, value T) *Tensor[T] {
	if err := shape.Validate(); err != nil {
		panic(err)
	}
	return wrap[T](newStorageCore[T](shape.Clone(), DefaultOrder(), FilledBuffer(shape.NumElements(), value)))
}

// FromSlice creates a row-major tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[T DType](data []T, shape Shape) (*Tensor[T], error) {
	return FromSliceOrder(data, shape, RowMajor)
}

// FromSliceOrder creates a tensor whose storage holds data in order o.
func FromSliceOrder[T DType](data []T, shape Shape, o Order) (*Tensor[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	return wrap[T](newStorageCore[T](shape.Clone(), o, BufferOf(data))), nil
}

// NewWithStorage wraps caller-provided storage laid out contiguously in
// order o. The storage is not copied.
func NewWithStorage[T DType](shape Shape, o Order, s Storage[T]) (*Tensor[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != s.Len() {
		return nil, fmt.Errorf("shape %v requires %d elements, storage has %d", shape, shape.NumElements(), s.Len())
	}
	return wrap[T](newStorageCore[T](shape.Clone(), o, s)), nil
}

// Arange creates a row-major tensor holding 0, 1, 2, ... in storage order.
// For bool, even positions are false and odd ones true.
func Arange[T DType](shape Shape) *Tensor[T] {
	if err := shape.Validate(); err != nil {
		panic(err)
	}
	n := shape.NumElements()
	buf := NewBuffer[T](n)
	for i := range buf {
		buf[i] = fromInt[T](i)
	}
	return wrap[T](newStorageCore[T](shape.Clone(), RowMajor, buf))
}

// fromInt converts an int to any element type. Named types are set through
// their underlying kind; bool takes the parity of i.
func fromInt[T DType](i int) T {
	var out T
	v := reflect.ValueOf(&out).Elem()
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		v.SetFloat(float64(i))
	case reflect.Int32, reflect.Int64:
		v.SetInt(int64(i))
	case reflect.Uint8:
		v.SetUint(uint64(i))
	case reflect.Bool:
		v.SetBool(i%2 == 1)
	}
	return out
}

// Map applies fn to every element of t in t's order and returns a new
// tensor of the same shape and order.
//
// Example:
//
//	mask := tensor.Map(t, func(v float32) bool { return v < 5 })
func Map[T, U DType](t *Tensor[T], fn func(T) U) *Tensor[U] {
	o := t.Order()
	buf := NewBuffer[U](t.Size())
	for i, v := range t.All(o) {
		buf[i] = fn(v)
	}
	return wrap[U](newStorageCore[U](t.Shape().Clone(), o, buf))
}
