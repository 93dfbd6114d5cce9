package tensor

import (
	"errors"
	"fmt"
)

// ErrInvalidSubscript is the single error kind of the view layer: every
// subscript or shape validation failure matches it with errors.Is.
var ErrInvalidSubscript = errors.New("invalid subscript")

// Validation failure cases.
var (
	ErrTooManySubscripts = errors.New("subscript count exceeds rank")
	ErrSliceBounds       = errors.New("slice bounds out of range")
	ErrSliceStep         = errors.New("slice step cannot be zero")
	ErrNotPermutation    = errors.New("axes are not a permutation")
	ErrReshapeSize       = errors.New("reshape size mismatch")
	ErrMultipleInfer     = errors.New("more than one inferred axis")
	ErrSubdimBounds      = errors.New("subdimension index out of range")
	ErrGatherBounds      = errors.New("gather index out of range")
	ErrGatherShape       = errors.New("gather subscripts do not broadcast")
	ErrMaskShape         = errors.New("mask shape exceeds tensor shape")
	ErrMixedSubscripts   = errors.New("tensor subscripts cannot be mixed with ranges or indices")
	ErrResizeView        = errors.New("cannot resize through a view")
	ErrSharedStorage     = errors.New("cannot resize storage aliased by other handles")
	ErrAssignShape       = errors.New("source does not broadcast to destination")
)

// SubscriptError describes a rejected view construction.
type SubscriptError struct {
	Op      string // view kind, e.g. "slice", "transpose"
	Axis    int    // offending axis, -1 when not axis specific
	Err     error  // one of the case sentinels above
	Details string
}

// Error implements the error interface.
func (e *SubscriptError) Error() string {
	if e.Axis >= 0 {
		return fmt.Sprintf("%s: axis %d: %v: %s", e.Op, e.Axis, e.Err, e.Details)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, e.Details)
}

// Unwrap returns the case sentinel.
func (e *SubscriptError) Unwrap() error { return e.Err }

// Is matches the error kind.
func (e *SubscriptError) Is(target error) bool {
	return target == ErrInvalidSubscript
}

func subscriptErr(op string, axis int, err error, format string, args ...any) error {
	return &SubscriptError{Op: op, Axis: axis, Err: err, Details: fmt.Sprintf(format, args...)}
}
