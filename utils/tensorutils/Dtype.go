package tensorutils

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/errutils"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/intutils"
	"gorgonia.org/tensor"
)

// ParseDtype returns the tensor.Dtype named by name. Supported names
// are float64, float32, int64, int32, and int.
func ParseDtype(name string) (tensor.Dtype, error) {
	switch strings.ToLower(name) {
	case "float64":
		return tensor.Float64, nil
	case "float32":
		return tensor.Float32, nil
	case "int64":
		return tensor.Int64, nil
	case "int32":
		return tensor.Int32, nil
	case "int":
		return tensor.Int, nil
	}
	return tensor.Dtype{}, errutils.New(errutils.InvalidConfiguration,
		"parseDtype", "unsupported dtype %q", name)
}

// IsFloat returns whether dt is a supported floating point dtype
func IsFloat(dt tensor.Dtype) bool {
	return dt == tensor.Float64 || dt == tensor.Float32
}

// IsInt returns whether dt is a supported integer dtype
func IsInt(dt tensor.Dtype) bool {
	return dt == tensor.Int64 || dt == tensor.Int32 || dt == tensor.Int
}

// Size returns the number of elements held by a tensor of the argument
// shape
func Size(shape []int) int {
	return intutils.Prod(shape...)
}

// Float64s returns the elements of t in row-major order as float64s.
// If t is a contiguous tensor.Float64 tensor, its backing slice is
// returned and must not be modified.
func Float64s(t *tensor.Dense) ([]float64, error) {
	if t == nil {
		return nil, errutils.New(errutils.Shape, "float64s", "nil tensor")
	}
	if t.IsMaterializable() {
		t = t.Materialize().(*tensor.Dense)
	}
	n := Size(t.Shape())
	if n == 0 {
		return []float64{}, nil
	}

	switch data := t.Data().(type) {
	case []float64:
		return data[:n], nil
	case float64:
		return []float64{data}, nil
	}

	values, err := toFloat64s(t.Data(), n)
	if err != nil {
		return nil, errutils.New(errutils.Shape, "float64s", "%v", err)
	}
	return values, nil
}

// Ints returns the elements of t in row-major order as ints. Floating
// point tensors are accepted if every element is a whole number.
func Ints(t *tensor.Dense) ([]int, error) {
	values, err := Float64s(t)
	if err != nil {
		return nil, err
	}

	ints := make([]int, len(values))
	for i, v := range values {
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, errutils.New(errutils.IndexOutOfRange, "ints",
				"element %d (%v) is not a whole number", i, v)
		}
		ints[i] = int(v)
	}
	return ints, nil
}

// FromFloat64s returns a new tensor of dtype dt with the argument shape
// backed by a copy of data converted to dt. If shape is empty, a scalar
// tensor is returned.
func FromFloat64s(shape []int, data []float64, dt tensor.Dtype) (*tensor.Dense,
	error) {
	if Size(shape) != len(data) {
		return nil, errutils.New(errutils.Shape, "fromFloat64s",
			"shape %v cannot hold %d elements", shape, len(data))
	}

	var backing interface{}
	switch dt {
	case tensor.Float64:
		backing = append([]float64(nil), data...)
	case tensor.Float32:
		b := make([]float32, len(data))
		for i, v := range data {
			b[i] = float32(v)
		}
		backing = b
	case tensor.Int64:
		b := make([]int64, len(data))
		for i, v := range data {
			b[i] = int64(v)
		}
		backing = b
	case tensor.Int32:
		b := make([]int32, len(data))
		for i, v := range data {
			b[i] = int32(v)
		}
		backing = b
	case tensor.Int:
		b := make([]int, len(data))
		for i, v := range data {
			b[i] = int(v)
		}
		backing = b
	default:
		return nil, errutils.New(errutils.InvalidConfiguration,
			"fromFloat64s", "unsupported dtype %v", dt)
	}

	return newDense(shape, backing), nil
}

// FromInts returns a new tensor of dtype dt with the argument shape
// holding data converted to dt
func FromInts(shape []int, data []int, dt tensor.Dtype) (*tensor.Dense,
	error) {
	values := make([]float64, len(data))
	for i, v := range data {
		values[i] = float64(v)
	}
	return FromFloat64s(shape, values, dt)
}

// newDense creates a tensor of the argument shape with the argument
// backing slice. An empty shape creates a scalar tensor holding the
// single element of backing.
func newDense(shape []int, backing interface{}) *tensor.Dense {
	if len(shape) == 0 {
		return tensor.New(tensor.FromScalar(
			reflect.ValueOf(backing).Index(0).Interface()))
	}
	return tensor.New(
		tensor.WithShape(append([]int(nil), shape...)...),
		tensor.WithBacking(backing),
	)
}

// toFloat64s converts the backing data of a tensor, which may be a
// scalar or a slice, into a slice of float64 of length n
func toFloat64s(data interface{}, n int) ([]float64, error) {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		s := reflect.MakeSlice(reflect.SliceOf(v.Type()), 1, 1)
		s.Index(0).Set(v)
		v = s
	}

	values := make([]float64, n)
	for i := 0; i < n; i++ {
		switch e := v.Index(i).Interface().(type) {
		case float32:
			values[i] = float64(e)
		case int64:
			values[i] = float64(e)
		case int32:
			values[i] = float64(e)
		case int:
			values[i] = float64(e)
		default:
			return nil, fmt.Errorf("unsupported element type %T", e)
		}
	}
	return values, nil
}
