package calculator

import "github.com/harryrigby/financial-dashboard/internal/model"

// CalculateRSI computes the Wilder-smoothed RSI of closing prices. Requires period+1 bars.
func CalculateRSI(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 || len(bars) < period+1 {
		return 0, ErrInsufficientData
	}
	return wilderRSI(extractCloses(bars), period), nil
}

func wilderRSI(closes []float64, period int) float64 {
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		gain, loss := split(closes[i] - closes[i-1])
		avgGain += gain
		avgLoss += loss
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		gain, loss := split(closes[i] - closes[i-1])
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100
	}
	return 100 - 100/(1+avgGain/avgLoss)
}

// split turns a price change into a (gain, loss) pair of non-negative values.
func split(change float64) (float64, float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}
