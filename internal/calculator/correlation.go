package calculator

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// AlignNearest pairs every left observation with the right observation closest in time.
// Equal distances resolve to the earlier right observation. Both date slices must be ascending.
func AlignNearest(leftDates []time.Time, left []float64, rightDates []time.Time, right []float64) (x, y []float64) {
	if len(rightDates) == 0 || len(leftDates) == 0 {
		return nil, nil
	}
	x = make([]float64, 0, len(leftDates))
	y = make([]float64, 0, len(leftDates))
	for i, d := range leftDates {
		j := sort.Search(len(rightDates), func(k int) bool { return !rightDates[k].Before(d) })
		switch {
		case j == 0:
		case j == len(rightDates):
			j--
		default:
			after := rightDates[j].Sub(d)
			before := d.Sub(rightDates[j-1])
			if before <= after {
				j--
			}
		}
		x = append(x, left[i])
		y = append(y, right[j])
	}
	return x, y
}

// Pearson returns the correlation coefficient of x and y over the pairs where both are finite.
func Pearson(x, y []float64) (float64, error) {
	xs, ys := finitePairs(x, y)
	if len(xs) < 2 {
		return 0, ErrInsufficientData
	}
	if stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return 0, ErrDegenerate
	}
	r := stat.Correlation(xs, ys, nil)
	return math.Max(-1, math.Min(1, r)), nil
}

func finitePairs(x, y []float64) ([]float64, []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if finite(x[i]) && finite(y[i]) {
			xs = append(xs, x[i])
			ys = append(ys, y[i])
		}
	}
	return xs, ys
}
