package tensor

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Order is a traversal convention. It fixes both the canonical contiguous
// stride layout and the default visiting sequence of a descriptor.
type Order uint8

// Supported traversal orders.
const (
	RowMajor Order = iota // "C": last axis varies fastest
	ColMajor              // "F": first axis varies fastest
)

// String returns the conventional single-letter name of the order.
func (o Order) String() string {
	switch o {
	case RowMajor:
		return "C"
	case ColMajor:
		return "F"
	default:
		return fmt.Sprintf("Order(%d)", uint8(o))
	}
}

// Other returns the opposite order.
func (o Order) Other() Order {
	if o == RowMajor {
		return ColMajor
	}
	return RowMajor
}

// ParseOrder accepts "c", "row", "row-major", "f", "col", "column-major"
// (case-insensitive).
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "row", "rowmajor", "row-major", "row_major":
		return RowMajor, nil
	case "f", "col", "column", "colmajor", "col-major", "column-major", "column_major":
		return ColMajor, nil
	default:
		return RowMajor, fmt.Errorf("unknown order %q (want c|f)", s)
	}
}

// fastest returns the axes of an n-dimensional shape from the fastest
// varying to the slowest varying one.
func (o Order) fastest(n int) []int {
	axes := make([]int, n)
	for i := range axes {
		if o == RowMajor {
			axes[i] = n - 1 - i
		} else {
			axes[i] = i
		}
	}
	return axes
}

var defaultOrder atomic.Uint32

func init() {
	defaultOrder.Store(uint32(buildDefaultOrder))
}

// DefaultOrder returns the order used by entry points that take none.
func DefaultOrder() Order {
	return Order(defaultOrder.Load())
}

// SetDefaultOrder overrides the build-time default order.
func SetDefaultOrder(o Order) {
	defaultOrder.Store(uint32(o))
}
