package calculator

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of a series.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64 // NaN when Count < 2
	Min    float64
	P25    float64
	Median float64
	P75    float64
	Max    float64
}

// Describe computes count, mean, sample standard deviation and quartiles over the finite values.
func Describe(values []float64) (Summary, error) {
	xs := Finite(values)
	if len(xs) == 0 {
		return Summary{}, ErrInsufficientData
	}
	sort.Float64s(xs)

	s := Summary{
		Count:  len(xs),
		Mean:   stat.Mean(xs, nil),
		StdDev: math.NaN(),
		Min:    xs[0],
		P25:    Percentile(xs, 0.25),
		Median: Percentile(xs, 0.50),
		P75:    Percentile(xs, 0.75),
		Max:    xs[len(xs)-1],
	}
	if len(xs) > 1 {
		s.StdDev = stat.StdDev(xs, nil)
	}
	return s, nil
}

// Percentile returns the p-quantile (0..1) of sorted values, interpolating linearly between ranks.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo+1 >= n {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
