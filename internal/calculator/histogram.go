package calculator

import "github.com/harryrigby/financial-dashboard/internal/model"

// Histogram buckets the finite values into equal-width bins spanning [min, max].
func Histogram(values []float64, bins int) []model.HistogramBin {
	xs := Finite(values)
	if len(xs) == 0 || bins <= 0 {
		return nil
	}
	lo, hi := xs[0], xs[0]
	for _, v := range xs {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return []model.HistogramBin{{Lower: lo - 0.5, Upper: hi + 0.5, Count: len(xs)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]model.HistogramBin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi
	for _, v := range xs {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}
