package model

// SummaryStats describes one return series. Count is the number of finite returns.
type SummaryStats struct {
	Count  int   `json:"count"`
	Mean   Float `json:"mean"`
	StdDev Float `json:"stdDev"`
	Min    Float `json:"min"`
	P25    Float `json:"p25"`
	Median Float `json:"median"`
	P75    Float `json:"p75"`
	Max    Float `json:"max"`
}

// HistogramBin is one equal-width bucket [Lower, Upper).
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// RiskMetrics are computed over the stock's daily returns. Percent-valued fields are in percent.
type RiskMetrics struct {
	Volatility        Float `json:"volatility"`
	Beta              Float `json:"beta"`
	RSquared          Float `json:"rSquared"`
	Sharpe            Float `json:"sharpe"`
	Sortino           Float `json:"sortino"`
	Treynor           Float `json:"treynor"`
	ValueAtRisk       Float `json:"valueAtRisk"`
	ExpectedShortfall Float `json:"expectedShortfall"`

	Confidence float64 `json:"confidence"` // VaR/ES level, e.g. 0.95
}

// Technicals are trend indicators over the stock's own bars.
type Technicals struct {
	RSI14         Float `json:"rsi14"`
	SMA50         Float `json:"sma50"`
	SMA200        Float `json:"sma200"`
	PeriodHigh    Float `json:"periodHigh"`
	PeriodLow     Float `json:"periodLow"`
	RangePosition Float `json:"rangePosition"` // 0.0 ~ 1.0
}
