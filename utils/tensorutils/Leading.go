package tensorutils

import (
	"reflect"

	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/errutils"
	"gorgonia.org/tensor"
)

// LeadingKind classifies the batch axes that lead the core shape of a
// tensor
type LeadingKind int

const (
	// NoLeading tensors hold a single step: [*core]
	NoLeading LeadingKind = iota

	// BatchOnly tensors hold a batch of environments: [B, *core]
	BatchOnly

	// TimeAndBatch tensors hold a batch of environments over time:
	// [T, B, *core]
	TimeAndBatch
)

func (l LeadingKind) String() string {
	switch l {
	case NoLeading:
		return "None"
	case BatchOnly:
		return "BatchOnly"
	default:
		return "TimeAndBatch"
	}
}

// Leading records the leading axes removed from a tensor by
// InferLeading so that RestoreLeading can put them back. T is 1
// unless Kind is TimeAndBatch, and B is 1 if Kind is NoLeading.
type Leading struct {
	Kind LeadingKind
	T, B int
}

// Size returns T * B, the length of the single leading axis of a
// canonical tensor
func (l Leading) Size() int {
	return l.T * l.B
}

// Shape returns the leading shape: [T, B], [B], or []
func (l Leading) Shape() []int {
	switch l.Kind {
	case TimeAndBatch:
		return []int{l.T, l.B}
	case BatchOnly:
		return []int{l.B}
	default:
		return []int{}
	}
}

// InferLeading classifies the axes of t that precede its trailing
// trailingRank axes as [T, B], [B], or none, and returns a canonical
// view of t with those axes flattened into a single leading axis of
// length T * B. With no leading axes the canonical view has a leading
// axis of length 1.
//
// The returned tensor shares its backing data with t; t itself is not
// reshaped.
func InferLeading(t *tensor.Dense, trailingRank int) (*tensor.Dense, Leading,
	error) {
	if t == nil {
		return nil, Leading{}, errutils.New(errutils.Shape, "inferLeading",
			"nil tensor")
	}
	if trailingRank < 0 {
		return nil, Leading{}, errutils.New(errutils.Shape, "inferLeading",
			"trailing rank must be >= 0, have %d", trailingRank)
	}

	shape := t.Shape().Clone()
	leadRank := len(shape) - trailingRank
	if leadRank < 0 {
		return nil, Leading{}, errutils.New(errutils.Shape, "inferLeading",
			"tensor of rank %d has fewer than %d axes", len(shape),
			trailingRank)
	}

	var leading Leading
	switch leadRank {
	case 0:
		leading = Leading{Kind: NoLeading, T: 1, B: 1}
	case 1:
		leading = Leading{Kind: BatchOnly, T: 1, B: shape[0]}
	case 2:
		leading = Leading{Kind: TimeAndBatch, T: shape[0], B: shape[1]}
	default:
		return nil, Leading{}, errutils.New(errutils.Shape, "inferLeading",
			"tensor of shape %v has %d leading axes, at most 2 allowed",
			shape, leadRank)
	}

	canonical := append([]int{leading.Size()}, shape[leadRank:]...)
	out, err := Reshape(t, canonical)
	if err != nil {
		return nil, Leading{}, err
	}
	return out, leading, nil
}

// RestoreLeading reverses InferLeading on each argument tensor. Each
// tensor must have the canonical leading axis of length T * B, which is
// expanded back to [T, B], kept as [B], or removed. The tensors may
// have different trailing shapes, such as a probability table and a
// value estimate computed from the same batch.
//
// Rank-0 tensors are returned unchanged when l.Kind is NoLeading.
func RestoreLeading(l Leading, ts ...*tensor.Dense) ([]*tensor.Dense, error) {
	restored := make([]*tensor.Dense, len(ts))

	for i, t := range ts {
		if t == nil {
			return nil, errutils.New(errutils.Shape, "restoreLeading",
				"tensor %d is nil", i)
		}
		shape := t.Shape().Clone()

		if l.Kind == NoLeading && len(shape) == 0 {
			restored[i] = t.ShallowClone()
			continue
		}
		if len(shape) == 0 || shape[0] != l.Size() {
			return nil, errutils.New(errutils.Shape, "restoreLeading",
				"tensor %d of shape %v does not lead with an axis of "+
					"length %d", i, shape, l.Size())
		}

		out, err := Reshape(t, append(l.Shape(), shape[1:]...))
		if err != nil {
			return nil, err
		}
		restored[i] = out
	}

	return restored, nil
}

// Reshape returns a tensor of the argument shape that shares the
// backing data of t
func Reshape(t *tensor.Dense, shape []int) (*tensor.Dense, error) {
	if t.IsMaterializable() {
		t = t.Materialize().(*tensor.Dense)
	}
	if Size(shape) != Size(t.Shape()) {
		return nil, errutils.New(errutils.Shape, "reshape",
			"cannot reshape %v into %v", t.Shape(), shape)
	}

	if len(shape) == 0 {
		return tensor.New(tensor.FromScalar(t.Get(0))), nil
	}
	if t.Shape().IsScalar() {
		v := reflect.ValueOf(t.Data())
		backing := reflect.MakeSlice(reflect.SliceOf(v.Type()), 1, 1)
		backing.Index(0).Set(v)
		return newDense(shape, backing.Interface()), nil
	}

	out := t.ShallowClone()
	if err := out.Reshape(shape...); err != nil {
		return nil, errutils.New(errutils.Shape, "reshape", "%v", err)
	}
	return out, nil
}
