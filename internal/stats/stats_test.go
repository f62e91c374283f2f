package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_PopulationStddev(t *testing.T) {
	// Population stddev of {2,4,4,4,5,5,7,9} is exactly 2 (classic example).
	s := Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 5.0, s.Mean)
	require.NotNil(t, s.Stddev)
	assert.Equal(t, 2.0, *s.Stddev)
	assert.Equal(t, 8, s.N)
}

func TestSummarize_DividesByN_NotNMinus1(t *testing.T) {
	// Sample stddev of {1,3} would be sqrt(2); population stddev is 1.
	s := Summarize([]float64{1, 3})
	require.NotNil(t, s.Stddev)
	assert.Equal(t, 1.0, *s.Stddev)
}

func TestSummarize_SingleElementHasNoStddev(t *testing.T) {
	s := Summarize([]float64{42})
	assert.Equal(t, 42.0, s.Mean)
	assert.Nil(t, s.Stddev, "size-1 group must have undefined stddev, not zero")
	assert.Equal(t, 1, s.N)
}

func TestSummarize_ZeroVarianceHasNoStddev(t *testing.T) {
	s := Summarize([]float64{100, 100, 100})
	assert.Equal(t, 100.0, s.Mean)
	assert.Nil(t, s.Stddev, "zero variance must surface as undefined, not 0.0")
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, Summary{}, s)
	assert.Equal(t, 0.0, s.ZScore(10))
}

func TestSummarize_OrderIndependentBits(t *testing.T) {
	vals := []float64{0.1, 0.2, 0.3, 1e15, -1e15, 7.77}
	a := Summarize(append([]float64(nil), vals...))

	reversed := make([]float64, len(vals))
	for i, v := range vals {
		reversed[len(vals)-1-i] = v
	}
	b := Summarize(reversed)

	assert.Equal(t, math.Float64bits(a.Mean), math.Float64bits(b.Mean))
	require.NotNil(t, a.Stddev)
	require.NotNil(t, b.Stddev)
	assert.Equal(t, math.Float64bits(*a.Stddev), math.Float64bits(*b.Stddev))
}

func TestZScore(t *testing.T) {
	sd := 10.0
	s := Summary{Mean: 100, Stddev: &sd, N: 11}
	assert.Equal(t, 3.0, s.ZScore(130))
	assert.Equal(t, -2.0, s.ZScore(80))
}

func TestZScore_UndefinedStddevIsZero(t *testing.T) {
	s := Summary{Mean: 100, N: 1}
	assert.Equal(t, 0.0, s.ZScore(1e9))
}
