package tensor

import (
	"fmt"
	"math"
	"math/bits"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// DivisionPolicy selects how descriptors divide flat indices into
// per-axis coordinates.
type DivisionPolicy int32

// Supported division policies.
const (
	DivisionAuto       DivisionPolicy = iota // pick from CPU features
	DivisionNative                           // hardware integer division
	DivisionReciprocal                       // precomputed 64-bit reciprocal
)

// String returns the policy name.
func (p DivisionPolicy) String() string {
	switch p {
	case DivisionAuto:
		return "auto"
	case DivisionNative:
		return "native"
	case DivisionReciprocal:
		return "reciprocal"
	default:
		return fmt.Sprintf("DivisionPolicy(%d)", int32(p))
	}
}

// ParseDivisionPolicy parses "auto", "native" or "reciprocal".
func ParseDivisionPolicy(s string) (DivisionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return DivisionAuto, nil
	case "native":
		return DivisionNative, nil
	case "reciprocal", "fast":
		return DivisionReciprocal, nil
	default:
		return DivisionAuto, fmt.Errorf("unknown division policy %q (want auto|native|reciprocal)", s)
	}
}

var divisionPolicy atomic.Int32

// SetDivisionPolicy changes the policy used by descriptors built afterwards.
// Existing descriptors keep the dividers they were built with.
func SetDivisionPolicy(p DivisionPolicy) {
	divisionPolicy.Store(int32(p))
}

// CurrentDivisionPolicy returns the configured policy (possibly Auto).
func CurrentDivisionPolicy() DivisionPolicy {
	return DivisionPolicy(divisionPolicy.Load())
}

// ResolvedDivisionPolicy returns the concrete policy Auto resolves to on this
// machine.
func ResolvedDivisionPolicy() DivisionPolicy {
	p := CurrentDivisionPolicy()
	if p != DivisionAuto {
		return p
	}
	switch runtime.GOARCH {
	case "amd64":
		// MULX makes the 128-bit multiply-high cheap.
		if cpu.X86.HasBMI2 {
			return DivisionReciprocal
		}
	case "arm64":
		return DivisionReciprocal
	}
	return DivisionNative
}

// Divider divides non-negative integers by a fixed divisor.
//
// With the reciprocal policy the quotient of a 32-bit dividend is the high
// word of M*n where M = floor((2^64-1)/d)+1 (Lemire, Kaser, Kurz 2019).
// Larger dividends fall back to native division.
type Divider struct {
	d    int
	m    uint64
	fast bool
}

// NewDivider builds a divider for d using the current policy.
// d must be positive.
func NewDivider(d int) Divider {
	return newDivider(d, ResolvedDivisionPolicy())
}

func newDivider(d int, p DivisionPolicy) Divider {
	if d <= 0 {
		panic(fmt.Sprintf("divider: non-positive divisor %d", d))
	}
	v := Divider{d: d}
	if p == DivisionReciprocal && d > 1 && d <= math.MaxUint32 {
		v.m = math.MaxUint64/uint64(d) + 1
		v.fast = true
	}
	return v
}

// Divisor returns the divisor.
func (v Divider) Divisor() int {
	return v.d
}

// Fast reports whether the reciprocal path is active.
func (v Divider) Fast() bool {
	return v.fast
}

// Div returns n / d for n >= 0.
func (v Divider) Div(n int) int {
	if v.fast && n >= 0 && n <= math.MaxUint32 {
		hi, _ := bits.Mul64(v.m, uint64(n))
		return int(hi) //nolint:gosec // G115: hi < 2^32
	}
	return n / v.d
}
