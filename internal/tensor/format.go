package tensor

import (
	"fmt"
	"strings"
)

// Pretty renders the elements as nested brackets, outermost axis first,
// e.g. [[1 2 3] [4 5 6]].
func (t *Tensor[T]) Pretty() string {
	var sb strings.Builder
	shape := t.Shape()
	if len(shape) == 0 {
		fmt.Fprint(&sb, t.Item())
		return sb.String()
	}
	it := t.Begin(RowMajor)
	writeNested(&sb, shape, it)
	return sb.String()
}

func writeNested[T any](sb *strings.Builder, shape Shape, it *Iterator[T]) {
	sb.WriteByte('[')
	for i := range shape[0] {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if len(shape) == 1 {
			fmt.Fprint(sb, it.Value())
			it.Next()
			continue
		}
		writeNested(sb, shape[1:], it)
	}
	sb.WriteByte(']')
}
