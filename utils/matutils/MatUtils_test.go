package matutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestRowsSharesBacking(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	m, err := Rows(data, 2, 3)
	require.NoError(t, err)

	assert.Equal(t, []float64{4, 5, 6}, m.RawRowView(1))

	m.Set(0, 1, 9)
	assert.Equal(t, 9.0, data[1])
}

func TestRowsErrors(t *testing.T) {
	_, err := Rows([]float64{1, 2, 3}, 2, 2)
	assert.Error(t, err)

	_, err = Rows(nil, 0, 2)
	assert.Error(t, err)
}

func TestRowApply(t *testing.T) {
	m, err := Rows([]float64{1, 2, 3, 4, 5, 6}, 3, 2)
	require.NoError(t, err)

	sums := RowApply(m, floats.Sum)
	assert.Equal(t, []float64{3, 7, 11}, sums.RawVector().Data)
}

func TestRowApply2(t *testing.T) {
	a, _ := Rows([]float64{1, 2, 3, 4}, 2, 2)
	b, _ := Rows([]float64{1, 0, 0, 1}, 2, 2)

	dots, err := RowApply2(a, b, floats.Dot)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 4}, dots.RawVector().Data)

	c, _ := Rows([]float64{1, 2, 3, 4}, 1, 4)
	_, err = RowApply2(a, c, floats.Dot)
	assert.Error(t, err)
}
