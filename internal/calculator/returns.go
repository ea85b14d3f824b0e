package calculator

import (
	"errors"
	"math"
)

var (
	// ErrInsufficientData is returned when a series is too short for the computation.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrZeroPrice is returned when a base price is zero or not finite.
	ErrZeroPrice = errors.New("zero or missing base price")
	// ErrDegenerate is returned when a series has no variance.
	ErrDegenerate = errors.New("degenerate series")
)

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Returns computes day-over-day percentage changes: out[i] = 100*(closes[i+1]-closes[i])/closes[i].
// An element is NaN when its prior close is zero or not finite.
func Returns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 || !finite(prev) || !finite(closes[i]) {
			out[i-1] = math.NaN()
			continue
		}
		out[i-1] = 100 * (closes[i] - prev) / prev
	}
	return out
}

// Rebase scales prices so that the first value equals anchor.
func Rebase(prices []float64, anchor float64) ([]float64, error) {
	if len(prices) == 0 {
		return nil, ErrInsufficientData
	}
	base := prices[0]
	if base == 0 || !finite(base) || !finite(anchor) {
		return nil, ErrZeroPrice
	}
	out := make([]float64, len(prices))
	for i, p := range prices {
		out[i] = p / base * anchor
	}
	return out, nil
}

// PeriodReturn is the simple percentage return from first to last.
func PeriodReturn(first, last float64) (float64, error) {
	if first == 0 || !finite(first) || !finite(last) {
		return 0, ErrZeroPrice
	}
	return 100 * (last - first) / first, nil
}

// Finite drops NaN and infinite values.
func Finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if finite(v) {
			out = append(out, v)
		}
	}
	return out
}
