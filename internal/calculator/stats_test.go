package calculator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	s, err := Describe([]float64{4, 2, 1, 3})
	require.NoError(t, err)
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3.0), s.StdDev, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.InDelta(t, 1.75, s.P25, 1e-12)
	assert.InDelta(t, 2.5, s.Median, 1e-12)
	assert.InDelta(t, 3.25, s.P75, 1e-12)
	assert.Equal(t, 4.0, s.Max)
}

func TestDescribe_SkipsNaN(t *testing.T) {
	s, err := Describe([]float64{math.NaN(), 1, 3})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 2.0, s.Mean, 1e-12)
}

func TestDescribe_Empty(t *testing.T) {
	_, err := Describe(nil)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Describe([]float64{math.NaN()})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestDescribe_SingleValueHasNoStdDev(t *testing.T) {
	s, err := Describe([]float64{1.5})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(s.StdDev))
	assert.Equal(t, 1.5, s.Median)
}

func TestDescribe_ConstantIsAllZero(t *testing.T) {
	s, err := Describe(make([]float64, 20))
	require.NoError(t, err)
	for _, v := range []float64{s.Mean, s.StdDev, s.Min, s.P25, s.Median, s.P75, s.Max} {
		assert.Equal(t, 0.0, v)
	}
}

func TestDescribe_QuartilesAreMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(60)
		xs := make([]float64, n)
		for i := range xs {
			xs[i] = rng.NormFloat64() * 3
		}
		s, err := Describe(xs)
		require.NoError(t, err)
		assert.LessOrEqual(t, s.Min, s.P25)
		assert.LessOrEqual(t, s.P25, s.Median)
		assert.LessOrEqual(t, s.Median, s.P75)
		assert.LessOrEqual(t, s.P75, s.Max)
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 10},
		{0.1, 14},
		{0.25, 20},
		{0.5, 30},
		{0.9, 46},
		{1, 50},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Percentile(sorted, tt.p), 1e-9, "p=%.2f", tt.p)
	}
	assert.True(t, math.IsNaN(Percentile(nil, 0.5)))
}
