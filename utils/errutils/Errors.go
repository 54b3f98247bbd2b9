// Package errutils implements the error kinds reported by the joint
// action space, the tensor utilities, and the joint distributions.
package errutils

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind denotes the category of an Error
type Kind int

const (
	// InvalidConfiguration reports bad agent/action counts or bad
	// distribution settings at construction
	InvalidConfiguration Kind = iota

	// Shape reports a tensor rank or shape that does not match what
	// an operation expects
	Shape

	// IndexOutOfRange reports an action index outside [0, width)
	IndexOutOfRange

	// InvalidProbabilities reports a probability row that cannot be
	// sampled from, e.g. one that is all zero or holds negative values
	InvalidProbabilities
)

func (k Kind) String() string {
	switch k {
	case InvalidConfiguration:
		return "invalid configuration"
	case Shape:
		return "shape error"
	case IndexOutOfRange:
		return "index out of range"
	case InvalidProbabilities:
		return "invalid probabilities"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var (
	errInvalidConfiguration = errors.New(InvalidConfiguration.String())
	errShape                = errors.New(Shape.String())
	errIndexOutOfRange      = errors.New(IndexOutOfRange.String())
	errInvalidProbabilities = errors.New(InvalidProbabilities.String())
)

func sentinel(k Kind) error {
	switch k {
	case InvalidConfiguration:
		return errInvalidConfiguration
	case Shape:
		return errShape
	case IndexOutOfRange:
		return errIndexOutOfRange
	default:
		return errInvalidProbabilities
	}
}

// Error is an error raised by an operation on joint action spaces or
// joint distributions. Op names the operation that failed.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

// New returns a new *Error of kind k raised by operation op. The
// message is formatted from format and args.
func New(k Kind, op, format string, args ...interface{}) error {
	return &Error{
		Op:   op,
		Kind: k,
		Err:  errors.Wrapf(sentinel(k), format, args...),
	}
}

// Error satisfies the error interface
func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// is returns whether err, or any error it wraps, is an *Error of
// kind k
func is(err error, k Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == k && errors.Cause(e.Err) == sentinel(k)
}

// IsInvalidConfiguration returns whether err reports an invalid
// configuration
func IsInvalidConfiguration(err error) bool {
	return is(err, InvalidConfiguration)
}

// IsShape returns whether err reports a tensor shape mismatch
func IsShape(err error) bool {
	return is(err, Shape)
}

// IsIndexOutOfRange returns whether err reports an index outside of
// its valid range
func IsIndexOutOfRange(err error) bool {
	return is(err, IndexOutOfRange)
}

// IsInvalidProbabilities returns whether err reports a probability
// row that could not be sampled from
func IsInvalidProbabilities(err error) bool {
	return is(err, InvalidProbabilities)
}
