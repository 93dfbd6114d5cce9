package tensor

import "log/slog"

// Mapping views are not lazy: they scan the parent once and copy the selected
// elements into fresh row-major storage.

// newGather selects parent[i0[p], i1[p], ..., :] for every position p of the
// broadcast subscript shape. Out-of-range values are only found during the
// scan; the partially filled buffer is dropped with the error.
func newGather[T DType, I IndexType](parent core[T], subs []core[I]) (core[T], error) {
	pd := parent.desc()
	k := len(subs)
	if k == 0 {
		return nil, rejected(subscriptErr("gather", -1, ErrGatherShape, "no subscripts"))
	}
	if k > pd.Dim() {
		return nil, rejected(subscriptErr("gather", -1, ErrTooManySubscripts,
			"%d subscripts for rank %d", k, pd.Dim()))
	}
	shapes := make([]Shape, k)
	for i, s := range subs {
		shapes[i] = s.desc().shape
	}
	bshape, err := BroadcastShapes(shapes...)
	if err != nil {
		return nil, rejected(subscriptErr("gather", -1, ErrGatherShape, "%v", err))
	}

	trailing := pd.shape[k:]
	block := trailing.NumElements()
	outShape := append(bshape.Clone(), trailing...)
	out := NewBuffer[T](outShape.NumElements())

	bd := ContiguousDescriptor(bshape, RowMajor)
	travs := make([]*Traverser[I], k)
	for i, s := range subs {
		w := newBroadcastWalker[I](s.walker(), s.desc().shape, len(bshape))
		travs[i] = NewTraverser[I](newBoundWalker[I](w, bd), bd, RowMajor)
	}

	src := indexerFor(parent, RowMajor)
	rm := pd.shape.Strides(RowMajor)
	for pos := range bd.size {
		flat := 0
		for a, tr := range travs {
			ext := pd.shape[a]
			v, ok := resolveIndex(int(tr.Get()), ext)
			if !ok {
				return nil, rejected(subscriptErr("gather", a, ErrGatherBounds,
					"value %d at position %d outside extent %d", tr.Get(), pos, ext))
			}
			flat += v * rm[a]
			tr.Next()
		}
		copyBlock(out, pos*block, src, flat, block)
	}
	slog.Debug("gather materialised", "shape", outShape, "block", block)
	return newStorageCore[T](outShape, RowMajor, out), nil
}

// newMask keeps the blocks of parent whose leading coordinates are true in
// mask. The mask is scanned in the parent's order.
func newMask[T DType](parent core[T], mask core[bool]) (core[T], error) {
	pd, md := parent.desc(), mask.desc()
	m := md.Dim()
	if m > pd.Dim() {
		return nil, rejected(subscriptErr("mask", -1, ErrTooManySubscripts,
			"mask rank %d for rank %d", m, pd.Dim()))
	}
	for a, n := range md.shape {
		if n > pd.shape[a] {
			return nil, rejected(subscriptErr("mask", a, ErrMaskShape,
				"mask extent %d exceeds %d", n, pd.shape[a]))
		}
	}

	trailing := pd.shape[m:]
	block := trailing.NumElements()
	lead := pd.shape[:m].NumElements()
	c := newStorageCore[T](append(Shape{lead}, trailing...), RowMajor, NewBuffer[T](lead*block))
	out := c.data.(Buffer[T])

	src := indexerFor(parent, RowMajor)
	rm := pd.shape.Strides(RowMajor)
	count := 0
	for tr := NewTraverser[bool](mask.walker(), md, pd.order); tr.Valid(); tr.Next() {
		if !tr.Get() {
			continue
		}
		flat := 0
		for a, x := range tr.coords {
			flat += x * rm[a]
		}
		copyBlock(out, count*block, src, flat, block)
		count++
	}
	slog.Debug("mask materialised", "selected", count, "of", lead, "block", block)
	c.shrink(append(Shape{count}, trailing...))
	return c, nil
}

// copyBlock copies n consecutive flat elements of src starting at from into
// dst at at.
func copyBlock[T any](dst Buffer[T], at int, src Indexer[T], from, n int) {
	if b, ok := src.(Buffer[T]); ok {
		copy(dst[at:at+n], b[from:from+n])
		return
	}
	for i := range n {
		dst[at+i] = src.At(from + i)
	}
}
