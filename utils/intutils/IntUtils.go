// Package intutils provides utilities for working with ints
package intutils

import "math"

// Max calculates and returns the maximum int in a list
func Max(ints ...int) int {
	max := ints[0]
	for _, val := range ints {
		if val > max {
			max = val
		}
	}
	return max
}

// Prod returns the product of all ints in a list. The product of an
// empty list is 1, so that Prod(shape...) is the number of elements
// of a tensor of any rank, including scalars.
func Prod(ints ...int) int {
	prod := 1
	for _, val := range ints {
		prod *= val
	}
	return prod
}

// Pow returns base raised to the power exp for exp >= 0. The boolean
// return value is false if the result overflows an int.
func Pow(base, exp int) (int, bool) {
	result := 1
	for i := 0; i < exp; i++ {
		if base != 0 && result > math.MaxInt/base {
			return 0, false
		}
		result *= base
	}
	return result, true
}
