package calculator

import (
	"math"

	"github.com/harryrigby/financial-dashboard/internal/model"
)

// PeriodRange returns the highest high and lowest low across bars. Bars without a high/low
// (zero values from some providers) fall back to their close.
func PeriodRange(bars []model.OHLCV) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, ErrInsufficientData
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars {
		h, l := b.High, b.Low
		if h == 0 {
			h = b.Close
		}
		if l == 0 {
			l = b.Close
		}
		high = math.Max(high, h)
		low = math.Min(low, l)
	}
	return high, low, nil
}

// RangePosition returns where price sits within [low, high], clamped to 0.0~1.0.
func RangePosition(price, high, low float64) (float64, error) {
	if high < low {
		return 0, ErrDegenerate
	}
	if high == low {
		return 0.5, nil
	}
	return math.Max(0, math.Min(1, (price-low)/(high-low))), nil
}
