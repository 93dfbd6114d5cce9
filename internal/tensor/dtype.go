// Package tensor implements the indexing and view engine behind ndview:
// descriptors, walkers, traversers, iterators and the lazy view cores that
// let many logical shapes share one physical buffer.
package tensor

import "reflect"

// DType is the set of element types a Tensor can hold.
type DType interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint8 | ~bool
}

// IndexType is a constraint for the element types accepted as gather
// subscripts.
type IndexType interface {
	~int32 | ~int64
}

// DataType tags the element type of a tensor at runtime.
type DataType int

// Element types.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
	Uint8
	Bool
)

var dataTypes = [...]struct {
	name string
	size int
}{
	Float32: {"float32", 4},
	Float64: {"float64", 8},
	Int32:   {"int32", 4},
	Int64:   {"int64", 8},
	Uint8:   {"uint8", 1},
	Bool:    {"bool", 1},
}

func (dt DataType) valid() bool {
	return dt >= 0 && int(dt) < len(dataTypes)
}

// Size returns the width of one element in bytes.
func (dt DataType) Size() int {
	if !dt.valid() {
		panic("tensor: unknown data type")
	}
	return dataTypes[dt].size
}

func (dt DataType) String() string {
	if !dt.valid() {
		return "unknown"
	}
	return dataTypes[dt].name
}

// inferDataType maps the element type parameter to its tag. Named types
// resolve through their underlying kind.
func inferDataType[T DType]() DataType {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Float32:
		return Float32
	case reflect.Float64:
		return Float64
	case reflect.Int32:
		return Int32
	case reflect.Int64:
		return Int64
	case reflect.Uint8:
		return Uint8
	case reflect.Bool:
		return Bool
	default:
		panic("tensor: unsupported element type")
	}
}
