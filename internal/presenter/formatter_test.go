package presenter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harryrigby/financial-dashboard/internal/model"
)

func TestCaption(t *testing.T) {
	asOf := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		last model.Float
		ret  model.Float
		asOf time.Time
		want string
	}{
		{"full", model.Some(210.615), model.Some(12.3456), asOf, "Latest close: $210.62 (12.35%) on 2024-06-28"},
		{"negative", model.Some(99), model.Some(-3.2), asOf, "Latest close: $99.00 (-3.20%) on 2024-06-28"},
		{"no return", model.Some(5), model.NA, asOf, "Latest close: $5.00 (N/A) on 2024-06-28"},
		{"no close", model.NA, model.Some(1), asOf, "Latest close: N/A"},
		{"no date", model.Some(1), model.Some(1), time.Time{}, "Latest close: N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Caption(tt.last, tt.ret, tt.asOf))
		})
	}
}

func TestDividend(t *testing.T) {
	assert.Equal(t, "N/A", Dividend(nil))
	assert.Equal(t, "--", Dividend(&model.Fundamentals{}))
	assert.Equal(t, "0.55%", Dividend(&model.Fundamentals{DividendYield: model.Some(0.55)}))
}

func sampleResult() *model.AnalyticsResult {
	return &model.AnalyticsResult{
		Symbol:  "PLD",
		Period:  model.Period1Year,
		Company: &model.Company{Symbol: "PLD", Name: "Prologis", Sector: "Real Estate", SubIndustry: "Industrial REITs"},
		Stats: model.SummaryStats{
			Count: 3, Mean: model.Some(0.1234), Median: model.Some(0.1), Min: model.Some(-2.5),
			Max: model.Some(3.456), P25: model.Some(-0.5), P75: model.Some(0.75),
		},
		Market: model.Benchmark{Symbol: "^GSPC", Label: "S&P 500", Available: true, Correlation: model.Some(0.87654)},
		Sector: model.Benchmark{Symbol: "XLRE", Label: "Real Estate"},
		Fundamentals: &model.Fundamentals{
			Symbol: "PLD", LastClose: model.Some(112.3), MarketCapBillions: model.Some(104.123),
			PERatioTTM: model.Some(35.2), EPSTTM: model.NA,
		},
		Beta:    model.Some(1.05),
		Caption: "Latest close: $112.30 (5.00%) on 2024-06-28",
		Issues: []model.Issue{
			model.NewIssue("sector", model.IssueDataUnavailable, errors.New("timeout")),
		},
	}
}

func TestBuild(t *testing.T) {
	tables := Build(sampleResult())

	stats := tables.Statistics
	assert.Equal(t, []string{"", "PLD", "Real Estate", "S&P 500"}, stats.Columns)
	require.Len(t, stats.Rows, 6)
	assert.Equal(t, "Mean daily return", stats.Rows[0].Label)
	assert.Equal(t, []string{"0.12%", "N/A", "N/A"}, stats.Rows[0].Values)
	assert.Equal(t, "Largest day-on-day loss", stats.Rows[2].Label)
	assert.Equal(t, "-2.50%", stats.Rows[2].Values[0])
	assert.Equal(t, "3.46%", stats.Rows[3].Values[0])
	assert.Equal(t, "75th Percentile", stats.Rows[5].Label)

	fin := tables.Financials
	require.Len(t, fin.Rows, 7)
	assert.Equal(t, "Latest Close Price ($)", fin.Rows[0].Label)
	assert.Equal(t, "112.30", fin.Rows[0].Values[0])
	assert.Equal(t, "104.12", fin.Rows[1].Values[0])
	assert.Equal(t, "N/A", fin.Rows[2].Values[0])
	assert.Equal(t, "--", fin.Rows[4].Values[0])
	assert.Equal(t, "N/A", fin.Rows[6].Values[0])

	corr := tables.Correlation
	require.Len(t, corr.Rows, 3)
	assert.Equal(t, "1.05", corr.Rows[0].Values[0])
	assert.Equal(t, "0.877", corr.Rows[1].Values[0])
	assert.Equal(t, "N/A", corr.Rows[2].Values[0])

	assert.Len(t, tables.All(), 5)
}

func TestBuild_NoFundamentals(t *testing.T) {
	res := sampleResult()
	res.Fundamentals = nil
	fin := Build(res).Financials
	for _, r := range fin.Rows {
		assert.Equal(t, "N/A", r.Values[0], r.Label)
	}
}

func TestFormatReport(t *testing.T) {
	out := FormatReport(sampleResult())
	assert.Contains(t, out, "Prologis (PLD) | 1 Year")
	assert.Contains(t, out, "Sector: Real Estate / Industrial REITs")
	assert.Contains(t, out, "Latest close: $112.30 (5.00%) on 2024-06-28")
	assert.Contains(t, out, "Correlation with market index")
	assert.Contains(t, out, "sector (DATA_UNAVAILABLE)")
}

func TestBuild_RiskLabelsFollowConfidence(t *testing.T) {
	res := sampleResult()
	res.Risk = model.RiskMetrics{Confidence: 0.99, ValueAtRisk: model.Some(-3.1), ExpectedShortfall: model.Some(-4.25)}

	rows := Build(res).Risk.Rows
	require.Len(t, rows, 8)
	assert.Equal(t, "Value at Risk (99%, 1 day)", rows[6].Label)
	assert.Equal(t, []string{"-3.10%"}, rows[6].Values)
	assert.Equal(t, "Expected shortfall (99%, 1 day)", rows[7].Label)

	res.Risk.Confidence = 0.975
	assert.Equal(t, "Value at Risk (97.5%, 1 day)", Build(res).Risk.Rows[6].Label)

	res.Risk.Confidence = 0
	assert.Equal(t, "Value at Risk (1 day)", Build(res).Risk.Rows[6].Label)
}
