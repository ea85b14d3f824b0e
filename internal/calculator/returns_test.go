package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturns(t *testing.T) {
	got := Returns([]float64{100, 110, 99})
	require.Len(t, got, 2)
	assert.InDelta(t, 10.0, got[0], 1e-9)
	assert.InDelta(t, -10.0, got[1], 1e-9)
}

func TestReturns_LengthIsOneLess(t *testing.T) {
	for n := 0; n < 6; n++ {
		closes := make([]float64, n)
		for i := range closes {
			closes[i] = float64(i + 1)
		}
		got := Returns(closes)
		if n < 2 {
			assert.Empty(t, got)
			continue
		}
		assert.Len(t, got, n-1)
		for _, r := range got {
			assert.False(t, math.IsNaN(r) || math.IsInf(r, 0))
		}
	}
}

func TestReturns_ZeroPriorCloseIsNaN(t *testing.T) {
	got := Returns([]float64{0, 5, 10})
	require.Len(t, got, 2)
	assert.True(t, math.IsNaN(got[0]))
	assert.InDelta(t, 100.0, got[1], 1e-9)
}

func TestReturns_ConstantSeriesIsZero(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 42.5
	}
	for _, r := range Returns(closes) {
		assert.Equal(t, 0.0, r)
	}
}

func TestRebase(t *testing.T) {
	got, err := Rebase([]float64{50, 55, 45}, 200)
	require.NoError(t, err)
	assert.Equal(t, 200.0, got[0])
	assert.InDelta(t, 220.0, got[1], 1e-9)
	assert.InDelta(t, 180.0, got[2], 1e-9)
}

func TestRebase_FirstValueEqualsAnchorExactly(t *testing.T) {
	anchors := []float64{189.9842529296875, 0.1, 3.3333333, 12345.678}
	for _, a := range anchors {
		got, err := Rebase([]float64{4471.07, 4500.12}, a)
		require.NoError(t, err)
		assert.Equal(t, a, got[0])
	}
}

func TestRebase_Errors(t *testing.T) {
	_, err := Rebase(nil, 10)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Rebase([]float64{0, 1}, 10)
	assert.ErrorIs(t, err, ErrZeroPrice)

	_, err = Rebase([]float64{1, 2}, math.NaN())
	assert.ErrorIs(t, err, ErrZeroPrice)
}

func TestPeriodReturn(t *testing.T) {
	got, err := PeriodReturn(200, 250)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, got, 1e-9)

	_, err = PeriodReturn(0, 250)
	assert.ErrorIs(t, err, ErrZeroPrice)
}
