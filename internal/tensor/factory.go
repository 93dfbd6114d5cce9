package tensor

import "log/slog"

// The functions in this file validate view arguments and compute the view
// descriptors. They never touch the parent beyond reading its descriptor: the
// parent's reference count only changes once a core is actually built.

func rejected(err error) error {
	slog.Debug("view construction rejected", "err", err)
	return err
}

// newTranspose permutes axes. An empty permutation reverses the axis order.
func newTranspose[T DType](parent core[T], perm []int) (core[T], error) {
	dim := parent.desc().Dim()
	if len(perm) == 0 {
		perm = make([]int, dim)
		for i := range perm {
			perm[i] = dim - 1 - i
		}
	}
	if len(perm) > dim {
		return nil, rejected(subscriptErr("transpose", -1, ErrTooManySubscripts,
			"%d axes for rank %d", len(perm), dim))
	}
	if len(perm) != dim {
		return nil, rejected(subscriptErr("transpose", -1, ErrNotPermutation,
			"%d axes for rank %d", len(perm), dim))
	}
	seen := make([]bool, dim)
	axes := make([]int, dim)
	for i, a := range perm {
		if a < 0 || a >= dim {
			return nil, rejected(subscriptErr("transpose", i, ErrNotPermutation,
				"axis %d outside [0, %d)", a, dim))
		}
		if seen[a] {
			return nil, rejected(subscriptErr("transpose", i, ErrNotPermutation,
				"axis %d repeated", a))
		}
		seen[a] = true
		axes[i] = a
	}
	return newTransposeCore(parent, axes), nil
}

// axisRange is a resolved range subscript on one axis.
type axisRange struct {
	start, step, count int
}

// resolveRange applies negative-index correction and clamping to a range
// subscript over an axis of extent n.
func resolveRange(s Subscript, n, axis int) (axisRange, error) {
	if s.step == 0 {
		return axisRange{}, subscriptErr("slice", axis, ErrSliceStep, "%s", s)
	}
	defaulted := !s.hasStart && !s.hasStop
	if s.step > 0 {
		start, stop := 0, n
		if s.hasStart {
			start = s.start
			if start < 0 {
				start = max(start+n, 0)
			}
			if start >= n {
				return axisRange{}, subscriptErr("slice", axis, ErrSliceBounds,
					"start %d outside extent %d", s.start, n)
			}
		}
		if s.hasStop {
			stop = s.stop
			if stop < 0 {
				stop += n
			}
			stop = min(max(stop, 0), n)
		}
		if start >= stop {
			if n == 0 && defaulted {
				return axisRange{step: s.step}, nil
			}
			return axisRange{}, subscriptErr("slice", axis, ErrSliceBounds,
				"%s resolves to empty range [%d, %d) over extent %d", s, start, stop, n)
		}
		return axisRange{start: start, step: s.step, count: (stop - start + s.step - 1) / s.step}, nil
	}

	start, stop := n-1, -1
	if s.hasStart {
		start = s.start
		if start < 0 {
			start += n
		}
		if start < 0 {
			return axisRange{}, subscriptErr("slice", axis, ErrSliceBounds,
				"start %d outside extent %d", s.start, n)
		}
		start = min(start, n-1)
	}
	if s.hasStop {
		stop = s.stop
		if stop < 0 {
			stop += n
		}
		stop = min(max(stop, -1), n-1)
	}
	if start <= stop {
		if n == 0 && defaulted {
			return axisRange{step: s.step}, nil
		}
		return axisRange{}, subscriptErr("slice", axis, ErrSliceBounds,
			"%s resolves to empty range (%d, %d] over extent %d", s, stop, start, n)
	}
	back := -s.step
	return axisRange{start: start, step: s.step, count: (start - stop + back - 1) / back}, nil
}

// resolveIndex corrects a negative scalar subscript and bounds-checks it.
func resolveIndex(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}

// newSlice builds a slice view from index and range subscripts. Missing
// trailing subscripts keep their whole axis; index subscripts reduce.
func newSlice[T DType](parent core[T], subs []Subscript) (core[T], error) {
	pd := parent.desc()
	dim := pd.Dim()
	if len(subs) > dim {
		return nil, rejected(subscriptErr("slice", -1, ErrTooManySubscripts,
			"%d subscripts for rank %d", len(subs), dim))
	}
	offsets := make([]int, dim)
	axes := make([]int, 0, dim)
	scale := make([]int, 0, dim)
	shape := make(Shape, 0, dim)
	for p := range dim {
		n := pd.shape[p]
		s := All()
		if p < len(subs) {
			s = subs[p]
		}
		if s.kind == subIndex {
			i, ok := resolveIndex(s.index, n)
			if !ok {
				return nil, rejected(subscriptErr("slice", p, ErrSliceBounds,
					"index %d outside extent %d", s.index, n))
			}
			offsets[p] = i
			continue
		}
		r, err := resolveRange(s, n, p)
		if err != nil {
			return nil, rejected(err)
		}
		offsets[p] = r.start
		axes = append(axes, p)
		scale = append(scale, r.step)
		shape = append(shape, r.count)
	}
	return newSliceCore(parent, shape, axes, scale, offsets), nil
}

// newSubdim fixes the leading axes to the given indices.
func newSubdim[T DType](parent core[T], idx []int) (core[T], error) {
	pd := parent.desc()
	if len(idx) > pd.Dim() {
		return nil, rejected(subscriptErr("subdim", -1, ErrTooManySubscripts,
			"%d subscripts for rank %d", len(idx), pd.Dim()))
	}
	fixed := make([]int, len(idx))
	for a, v := range idx {
		i, ok := resolveIndex(v, pd.shape[a])
		if !ok {
			return nil, rejected(subscriptErr("subdim", a, ErrSubdimBounds,
				"index %d outside extent %d", v, pd.shape[a]))
		}
		fixed[a] = i
	}
	return newSubdimCore(parent, fixed), nil
}

// newReshape reinterprets the parent's sequence in order o under a new shape.
// A single -1 extent is inferred from the remaining ones. Inference needs the
// known extents to be non-zero: over an empty source {-1} gives {0}, while
// {0, -1} is rejected with ErrReshapeSize because any extent would fit.
func newReshape[T DType](parent core[T], dims []int, o Order) (core[T], error) {
	size := parent.desc().size
	shape := make(Shape, len(dims))
	infer := -1
	known := 1
	for i, d := range dims {
		switch {
		case d == -1:
			if infer >= 0 {
				return nil, rejected(subscriptErr("reshape", i, ErrMultipleInfer,
					"axes %d and %d both inferred", infer, i))
			}
			infer = i
		case d < 0:
			return nil, rejected(subscriptErr("reshape", i, ErrReshapeSize,
				"negative extent %d", d))
		default:
			known *= d
			shape[i] = d
		}
	}
	if infer >= 0 {
		if known == 0 || size%known != 0 {
			return nil, rejected(subscriptErr("reshape", infer, ErrReshapeSize,
				"cannot infer extent of %v from size %d", dims, size))
		}
		shape[infer] = size / known
	} else if known != size {
		return nil, rejected(subscriptErr("reshape", -1, ErrReshapeSize,
			"shape %v has %d elements, source has %d", shape, known, size))
	}
	return newReshapeCore(parent, shape, o), nil
}
