// Package parallel partitions flat index spaces for concurrent read-only
// traversal.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 4096,
	}
}

// Sequential returns a configuration that never spawns goroutines.
func Sequential() Config {
	return Config{NumWorkers: 1, MinChunkSize: 1}
}

// Range is a half-open flat index range [Lo, Hi).
type Range struct {
	Lo, Hi int
}

// Len returns the number of indices in the range.
func (r Range) Len() int { return r.Hi - r.Lo }

// Split partitions [0, n) into disjoint consecutive ranges of at least
// MinChunkSize items, at most one per worker. A disabled config or a small n
// yields a single range.
func Split(n int, cfg Config) []Range {
	if n <= 0 {
		return nil
	}
	workers := max(cfg.NumWorkers, 1)
	if !cfg.Enabled || workers == 1 || n < 2*max(cfg.MinChunkSize, 1) {
		return []Range{{0, n}}
	}
	chunk := max((n+workers-1)/workers, cfg.MinChunkSize)
	ranges := make([]Range, 0, (n+chunk-1)/chunk)
	for lo := 0; lo < n; lo += chunk {
		ranges = append(ranges, Range{lo, min(lo+chunk, n)})
	}
	return ranges
}

// ForRange calls f once per range of Split(n, cfg), concurrently when there
// is more than one, and waits for all of them.
func ForRange(n int, f func(lo, hi int), cfg Config) {
	ranges := Split(n, cfg)
	if len(ranges) == 1 {
		f(ranges[0].Lo, ranges[0].Hi)
		return
	}

	var wg sync.WaitGroup
	for _, r := range ranges {
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(r.Lo, r.Hi)
	}
	wg.Wait()
}

// For executes f(i) for i in [0, n) with optional parallelism.
func For(n int, f func(i int), cfg Config) {
	ForRange(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			f(i)
		}
	}, cfg)
}
