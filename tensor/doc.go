// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides strided n-dimensional tensor views.
//
// # Overview
//
// A Tensor is a handle on either a storage tensor, which owns a flat buffer,
// or a view, which re-addresses its parent's elements without copying:
//   - Transpose permutes axes
//   - Slice / Index select strided ranges, reverse axes and drop axes
//   - Subdim fixes leading axes
//   - Reshape reinterprets the element sequence under a new shape
//
// Gather and Mask are the two selections that materialise a new buffer.
//
// # Basic Usage
//
//	x := tensor.Arange[int64](tensor.Shape{3, 3})
//
//	// Reverse the columns: [[2 1 0] [5 4 3] [8 7 6]]
//	rev, err := x.Index(tensor.All(), tensor.All().By(-1))
//	if err != nil {
//	    return err
//	}
//
//	// Every element below 5, in traversal order.
//	small, _ := tensor.Mask(x, tensor.Map(x, func(v int64) bool { return v < 5 }))
//
// # Orders
//
// Every iteration entry point takes an Order. RowMajor ("C") varies the last
// axis fastest, ColMajor ("F") the first. The default order is RowMajor unless
// the module is built with the colmajor tag, and can be changed at runtime
// with SetDefaultOrder.
//
// Iterating a tensor whose layout is the identity in the requested order
// uses a flat fast path (see Tensor.IsTrivial); every other case steps a
// walker through the view chain. Both paths yield the same sequence.
//
// # Errors
//
// View construction validates its arguments and returns an error matching
// ErrInvalidSubscript on failure; the parent is never modified.
//
//	_, err := x.Transpose(0, 0)
//	errors.Is(err, tensor.ErrInvalidSubscript) // true
//	errors.Is(err, tensor.ErrNotPermutation)   // true
//
// # Memory Management
//
// Views hold a counted reference to their parent. Alias takes an extra
// reference and Release drops one. Copy produces independent storage in any
// order.
//
// # Supported Data Types
//
// The tensor package supports the following data types via the DType constraint:
//   - float32, float64 (floating-point)
//   - int32, int64 (signed integers)
//   - uint8 (unsigned integers, useful for images)
//   - bool (boolean masks)
package tensor
