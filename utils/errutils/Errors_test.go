package errutils

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindPredicates(t *testing.T) {
	tests := []struct {
		kind Kind
		is   func(error) bool
	}{
		{InvalidConfiguration, IsInvalidConfiguration},
		{Shape, IsShape},
		{IndexOutOfRange, IsIndexOutOfRange},
		{InvalidProbabilities, IsInvalidProbabilities},
	}

	for _, test := range tests {
		t.Run(test.kind.String(), func(t *testing.T) {
			err := New(test.kind, "op", "value %d", 3)
			assert.True(t, test.is(err))

			for _, other := range tests {
				if other.kind != test.kind {
					assert.False(t, other.is(err))
				}
			}
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := New(Shape, "inferLeading", "rank %d < %d", 1, 2)

	assert.True(t, IsShape(errors.Wrap(err, "selectAction")))
	assert.True(t, IsShape(fmt.Errorf("evaluate: %w", err)))
	assert.False(t, IsShape(errors.New("shape error")))
	assert.False(t, IsShape(nil))
}

func TestErrorMessage(t *testing.T) {
	err := New(IndexOutOfRange, "encode", "index %d not in [0, %d)", 5, 3)
	assert.Equal(t, "encode: index 5 not in [0, 3): index out of range",
		err.Error())
}
