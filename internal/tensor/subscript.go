package tensor

import "fmt"

type subKind uint8

const (
	subIndex subKind = iota
	subRange
	subTake
	subWhere
)

// Subscript is one positional argument of Tensor.Index. Build it with At,
// All, Span, From, Until, Take or Where.
type Subscript struct {
	kind     subKind
	index    int
	start    int
	stop     int
	step     int
	hasStart bool
	hasStop  bool
	take     *Tensor[int64]
	where    *Tensor[bool]
}

// At selects a single position and drops the axis. Negative values count
// from the end.
func At(i int) Subscript {
	return Subscript{kind: subIndex, index: i}
}

// All keeps the whole axis.
func All() Subscript {
	return Subscript{kind: subRange, step: 1}
}

// Span selects [start, stop).
func Span(start, stop int) Subscript {
	return Subscript{kind: subRange, start: start, stop: stop, step: 1, hasStart: true, hasStop: true}
}

// From selects [start, end of axis).
func From(start int) Subscript {
	return Subscript{kind: subRange, start: start, step: 1, hasStart: true}
}

// Until selects [0, stop).
func Until(stop int) Subscript {
	return Subscript{kind: subRange, stop: stop, step: 1, hasStop: true}
}

// By sets the step of a range subscript. A negative step walks the axis
// backwards; with defaulted bounds it covers the whole axis in reverse.
func (s Subscript) By(step int) Subscript {
	if s.kind == subIndex {
		s = Subscript{kind: subRange, start: s.index, stop: s.index + 1, hasStart: true, hasStop: true}
	}
	s.step = step
	return s
}

// Take gathers along the next axis with integer subscripts.
func Take(idx *Tensor[int64]) Subscript {
	return Subscript{kind: subTake, take: idx}
}

// Where selects with a boolean mask over the leading axes.
func Where(mask *Tensor[bool]) Subscript {
	return Subscript{kind: subWhere, where: mask}
}

// String implements fmt.Stringer using slice notation.
func (s Subscript) String() string {
	switch s.kind {
	case subIndex:
		return fmt.Sprint(s.index)
	case subTake:
		return fmt.Sprintf("take%v", s.take.Shape())
	case subWhere:
		return fmt.Sprintf("where%v", s.where.Shape())
	}
	var start, stop string
	if s.hasStart {
		start = fmt.Sprint(s.start)
	}
	if s.hasStop {
		stop = fmt.Sprint(s.stop)
	}
	if s.step == 1 {
		return start + ":" + stop
	}
	return fmt.Sprintf("%s:%s:%d", start, stop, s.step)
}

func (s Subscript) isTensor() bool {
	return s.kind == subTake || s.kind == subWhere
}
