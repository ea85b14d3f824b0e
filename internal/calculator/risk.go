package calculator

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear annualises daily statistics.
const TradingDaysPerYear = 252

// dailyRiskFree converts an annual decimal rate (0.04) into a daily percentage return.
func dailyRiskFree(annual float64) float64 {
	return annual * 100 / TradingDaysPerYear
}

// Volatility is the annualised sample standard deviation of daily percentage returns.
func Volatility(returns []float64) (float64, error) {
	xs := Finite(returns)
	if len(xs) < 2 {
		return 0, ErrInsufficientData
	}
	return stat.StdDev(xs, nil) * math.Sqrt(TradingDaysPerYear), nil
}

// BetaRSquared regresses stock returns on market returns over paired observations.
// Values that cannot be computed are NaN. A flat stock series still has a beta (zero)
// but no R², which is reported with ErrDegenerate.
func BetaRSquared(stock, market []float64) (beta, rSquared float64, err error) {
	xs, ys := finitePairs(market, stock)
	if len(xs) < 2 {
		return math.NaN(), math.NaN(), ErrInsufficientData
	}
	varM := stat.Variance(xs, nil)
	if varM == 0 {
		return math.NaN(), math.NaN(), ErrDegenerate
	}
	beta = stat.Covariance(xs, ys, nil) / varM
	r, err := Pearson(xs, ys)
	if err != nil {
		return beta, math.NaN(), err
	}
	return beta, r * r, nil
}

// Sharpe is the annualised mean excess daily return over its standard deviation.
func Sharpe(returns []float64, riskFree float64) (float64, error) {
	xs := Finite(returns)
	if len(xs) < 2 {
		return 0, ErrInsufficientData
	}
	mean, std := stat.MeanStdDev(xs, nil)
	if std == 0 {
		return 0, ErrDegenerate
	}
	return (mean - dailyRiskFree(riskFree)) / std * math.Sqrt(TradingDaysPerYear), nil
}

// Sortino is Sharpe with downside deviation (shortfall below the risk-free rate) as the denominator.
func Sortino(returns []float64, riskFree float64) (float64, error) {
	xs := Finite(returns)
	if len(xs) < 2 {
		return 0, ErrInsufficientData
	}
	rf := dailyRiskFree(riskFree)
	var sumSq float64
	for _, r := range xs {
		if d := r - rf; d < 0 {
			sumSq += d * d
		}
	}
	downside := math.Sqrt(sumSq / float64(len(xs)))
	if downside == 0 {
		return 0, ErrDegenerate
	}
	return (stat.Mean(xs, nil) - rf) / downside * math.Sqrt(TradingDaysPerYear), nil
}

// Treynor is the annualised excess return in percent per unit of beta.
func Treynor(returns []float64, riskFree, beta float64) (float64, error) {
	xs := Finite(returns)
	if len(xs) == 0 {
		return 0, ErrInsufficientData
	}
	if beta == 0 || !finite(beta) {
		return 0, ErrDegenerate
	}
	annual := stat.Mean(xs, nil) * TradingDaysPerYear
	return (annual - riskFree*100) / beta, nil
}

// HistoricalVaR returns the daily return at the (1-confidence) quantile and the expected
// shortfall, the mean of returns at or below it. Both are percentages and normally negative.
func HistoricalVaR(returns []float64, confidence float64) (valueAtRisk, shortfall float64, err error) {
	xs := Finite(returns)
	if len(xs) < 2 {
		return 0, 0, ErrInsufficientData
	}
	sort.Float64s(xs)
	valueAtRisk = Percentile(xs, 1-confidence)

	var sum float64
	var n int
	for _, r := range xs {
		if r > valueAtRisk {
			break
		}
		sum += r
		n++
	}
	if n == 0 {
		return valueAtRisk, valueAtRisk, nil
	}
	return valueAtRisk, sum / float64(n), nil
}
