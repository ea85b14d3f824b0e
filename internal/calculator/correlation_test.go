package calculator

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestAlignNearest_ExactDates(t *testing.T) {
	dates := []time.Time{day(0), day(1), day(2)}
	x, y := AlignNearest(dates, []float64{1, 2, 3}, dates, []float64{10, 20, 30})
	assert.Equal(t, []float64{1, 2, 3}, x)
	assert.Equal(t, []float64{10, 20, 30}, y)
}

func TestAlignNearest_MissingDayTiesToEarlier(t *testing.T) {
	left := []time.Time{day(0), day(1), day(2)}
	right := []time.Time{day(0), day(2)}
	x, y := AlignNearest(left, []float64{1, 2, 3}, right, []float64{10, 30})
	assert.Equal(t, []float64{1, 2, 3}, x)
	assert.Equal(t, []float64{10, 10, 30}, y)
}

func TestAlignNearest_OutsideRange(t *testing.T) {
	left := []time.Time{day(-5), day(10)}
	right := []time.Time{day(0), day(1), day(3)}
	_, y := AlignNearest(left, []float64{1, 2}, right, []float64{7, 8, 9})
	assert.Equal(t, []float64{7, 9}, y)
}

func TestAlignNearest_NearestWins(t *testing.T) {
	left := []time.Time{day(0).Add(20 * time.Hour)}
	right := []time.Time{day(0), day(1)}
	_, y := AlignNearest(left, []float64{1}, right, []float64{5, 6})
	assert.Equal(t, []float64{6}, y)
}

func TestAlignNearest_EmptyRight(t *testing.T) {
	x, y := AlignNearest([]time.Time{day(0)}, []float64{1}, nil, nil)
	assert.Empty(t, x)
	assert.Empty(t, y)
}

func TestPearson(t *testing.T) {
	r, err := Pearson([]float64{1, 2, 3}, []float64{2, 4, 6})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r, 1e-12)

	r, err = Pearson([]float64{1, 2, 3}, []float64{6, 4, 2})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, r, 1e-12)
}

func TestPearson_Errors(t *testing.T) {
	_, err := Pearson([]float64{1}, []float64{2})
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Pearson([]float64{1, 1, 1}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestPearson_Bounded(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 200; trial++ {
		n := 2 + rng.Intn(50)
		x := make([]float64, n)
		y := make([]float64, n)
		for i := range x {
			x[i] = 100 + rng.NormFloat64()*10
			y[i] = 0.5*x[i] + rng.NormFloat64()*5
		}
		r, err := Pearson(x, y)
		if err != nil {
			continue
		}
		assert.GreaterOrEqual(t, r, -1.0)
		assert.LessOrEqual(t, r, 1.0)
	}
}

func TestHistogram(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	bins := Histogram(values, 5)
	require.Len(t, bins, 5)
	total := 0
	for _, b := range bins {
		assert.Equal(t, 2, b.Count)
		total += b.Count
	}
	assert.Equal(t, len(values), total)
	assert.Equal(t, 0.0, bins[0].Lower)
	assert.Equal(t, 9.0, bins[4].Upper)
}

func TestHistogram_DegenerateAndEmpty(t *testing.T) {
	assert.Nil(t, Histogram(nil, 30))

	bins := Histogram([]float64{0, 0, 0}, 30)
	require.Len(t, bins, 1)
	assert.Equal(t, 3, bins[0].Count)
}
