package tensor

import (
	"sync/atomic"

	"github.com/born-ml/ndview/internal/parallel"
)

var parallelConfig atomic.Pointer[parallel.Config]

func init() {
	cfg := parallel.DefaultConfig()
	parallelConfig.Store(&cfg)
}

// SetParallelConfig sets the partitioning used by Copy.
func SetParallelConfig(cfg parallel.Config) {
	parallelConfig.Store(&cfg)
}

// ParallelConfig returns the partitioning used by Copy.
func ParallelConfig() parallel.Config {
	return currentParallelConfig()
}

func currentParallelConfig() parallel.Config {
	return *parallelConfig.Load()
}

// parallelRanges splits [0, Size()) into disjoint flat ranges and runs f on
// each with its own iterator seeked to lo. Iterators never share walker
// state, so the ranges proceed without coordination.
func (t *Tensor[T]) parallelRanges(o Order, cfg parallel.Config, f func(it *Iterator[T], lo, hi int)) {
	parallel.ForRange(t.Size(), func(lo, hi int) {
		f(t.newIterator(o, lo), lo, hi)
	}, cfg)
}

// ParallelEach calls fn for every element in order o, spreading disjoint
// flat ranges over goroutines per cfg. fn must be safe for concurrent use
// and must not write elements other ranges read.
func (t *Tensor[T]) ParallelEach(o Order, cfg parallel.Config, fn func(flat int, v T)) {
	t.parallelRanges(o, cfg, func(it *Iterator[T], lo, hi int) {
		for i := lo; i < hi; i++ {
			fn(i, it.Value())
			it.Next()
		}
	})
}
