package tensor

import (
	"fmt"
	"slices"
)

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the number of elements addressed by the shape. A
// scalar holds one; a shape with any zero extent holds none.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate rejects negative extents. Zero extents are allowed.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal reports whether both shapes have the same extents.
func (s Shape) Equal(other Shape) bool {
	return slices.Equal(s, other)
}

// Clone returns a copy of the shape. The clone of a nil shape is an empty,
// non-nil scalar shape.
func (s Shape) Clone() Shape {
	return append(Shape{}, s...)
}

// Strides calculates the contiguous strides of the shape for the given order.
// Row-major: stride[i] = product of all dimensions after i.
// Column-major: stride[i] = product of all dimensions before i.
func (s Shape) Strides(order Order) []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	acc := 1
	for _, axis := range order.fastest(len(s)) {
		strides[axis] = acc
		acc *= s[axis]
	}
	return strides
}

// ComputeStrides calculates row-major strides for the shape.
func (s Shape) ComputeStrides() []int {
	return s.Strides(RowMajor)
}

// BroadcastShapes implements NumPy-style broadcasting rules over any number
// of shapes.
//
// Rules:
// 1. Compare shapes element-wise from right to left
// 2. Dimensions are compatible if:
//   - They are equal, OR
//   - One of them is 1
//
// 3. Missing dimensions are treated as 1
//
// Examples:
//
//	(3, 1) + (3, 5) → (3, 5)
//	(1, 5) + (3, 5) + (5) → (3, 5)
//	(3, 4) + (3, 5) → error
func BroadcastShapes(shapes ...Shape) (Shape, error) {
	maxLen := 0
	for _, s := range shapes {
		maxLen = max(maxLen, len(s))
	}
	result := make(Shape, maxLen)
	for i := range result {
		result[i] = 1
	}

	for _, s := range shapes {
		for i := 0; i < len(s); i++ {
			dim := s[len(s)-1-i]
			out := maxLen - 1 - i
			switch {
			case dim == result[out]:
			case result[out] == 1:
				result[out] = dim
			case dim == 1:
			default:
				return nil, fmt.Errorf("shapes not compatible for broadcasting: %v (dimension %d: %d vs %d)",
					shapes, out, result[out], dim)
			}
		}
	}

	return result, nil
}
