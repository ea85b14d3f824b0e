package presenter

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/harryrigby/financial-dashboard/internal/model"
)

// Row is one labelled line of a table.
type Row struct {
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

// Table is a titled grid of pre-formatted cells. Columns[0] heads the label column.
type Table struct {
	Title   string   `json:"title"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Tables are the dashboard tables for one result.
type Tables struct {
	Statistics  Table `json:"statistics"`
	Financials  Table `json:"financials"`
	Correlation Table `json:"correlation"`
	Risk        Table `json:"risk"`
	Technicals  Table `json:"technicals"`
}

// All returns the tables in display order.
func (t Tables) All() []Table {
	return []Table{t.Statistics, t.Financials, t.Correlation, t.Risk, t.Technicals}
}

// Build formats every table of res.
func Build(res *model.AnalyticsResult) Tables {
	return Tables{
		Statistics:  statistics(res),
		Financials:  financials(res.Fundamentals),
		Correlation: correlation(res),
		Risk:        risk(res.Risk),
		Technicals:  technicals(res.Technicals),
	}
}

func sectorColumn(res *model.AnalyticsResult) string {
	if res.Sector.Label != "" {
		return res.Sector.Label
	}
	return "Industry"
}

func statistics(res *model.AnalyticsResult) Table {
	cols := []string{"", res.Symbol, sectorColumn(res), res.Market.Label}
	sets := []model.SummaryStats{res.Stats, res.Sector.Stats, res.Market.Stats}

	row := func(label string, pick func(model.SummaryStats) model.Float) Row {
		vals := make([]string, len(sets))
		for i, s := range sets {
			vals[i] = Percent(pick(s), 2)
		}
		return Row{Label: label, Values: vals}
	}

	return Table{
		Title:   "Daily return statistics",
		Columns: cols,
		Rows: []Row{
			row("Mean daily return", func(s model.SummaryStats) model.Float { return s.Mean }),
			row("Median daily return", func(s model.SummaryStats) model.Float { return s.Median }),
			row("Largest day-on-day loss", func(s model.SummaryStats) model.Float { return s.Min }),
			row("Largest day-on-day gain", func(s model.SummaryStats) model.Float { return s.Max }),
			row("25th Percentile", func(s model.SummaryStats) model.Float { return s.P25 }),
			row("75th Percentile", func(s model.SummaryStats) model.Float { return s.P75 }),
		},
	}
}

func financials(f *model.Fundamentals) Table {
	var fd model.Fundamentals
	if f != nil {
		fd = *f
	}
	return Table{
		Title:   "Financials",
		Columns: []string{"", "Value"},
		Rows: []Row{
			{"Latest Close Price ($)", []string{Number(fd.LastClose, 2)}},
			{"Market Cap ($Bn)", []string{Number(fd.MarketCapBillions, 2)}},
			{"52 Week High ($)", []string{Number(fd.Week52High, 2)}},
			{"52 Week Low ($)", []string{Number(fd.Week52Low, 2)}},
			{"Dividend Yield (5 year average)", []string{Dividend(f)}},
			{"Price/Earnings Ratio (TTM)", []string{Number(fd.PERatioTTM, 2)}},
			{"Earnings per Share (TTM)", []string{Number(fd.EPSTTM, 2)}},
		},
	}
}

func correlation(res *model.AnalyticsResult) Table {
	return Table{
		Title:   "Correlation",
		Columns: []string{"", "Value"},
		Rows: []Row{
			{"Beta (5 year monthly)", []string{Number(res.Beta, 2)}},
			{"Correlation with market index", []string{Number(res.Market.Correlation, 3)}},
			{"Correlation with industry index", []string{Number(res.Sector.Correlation, 3)}},
		},
	}
}

// tailLabel names a one-day tail measure at the result's confidence level.
func tailLabel(name string, confidence float64) string {
	if confidence <= 0 || confidence >= 1 {
		return name + " (1 day)"
	}
	level := decimal.NewFromFloat(confidence).Shift(2).String()
	return fmt.Sprintf("%s (%s%%, 1 day)", name, level)
}

func risk(r model.RiskMetrics) Table {
	return Table{
		Title:   "Risk",
		Columns: []string{"", "Value"},
		Rows: []Row{
			{"Annualised volatility", []string{Percent(r.Volatility, 2)}},
			{"Beta vs market (daily)", []string{Number(r.Beta, 2)}},
			{"R-squared", []string{Number(r.RSquared, 3)}},
			{"Sharpe ratio", []string{Number(r.Sharpe, 2)}},
			{"Sortino ratio", []string{Number(r.Sortino, 2)}},
			{"Treynor ratio", []string{Number(r.Treynor, 2)}},
			{tailLabel("Value at Risk", r.Confidence), []string{Percent(r.ValueAtRisk, 2)}},
			{tailLabel("Expected shortfall", r.Confidence), []string{Percent(r.ExpectedShortfall, 2)}},
		},
	}
}

func technicals(t model.Technicals) Table {
	pos := model.NA
	if t.RangePosition.Valid {
		pos = model.Some(t.RangePosition.Value * 100)
	}
	return Table{
		Title:   "Technicals",
		Columns: []string{"", "Value"},
		Rows: []Row{
			{"RSI (14)", []string{Number(t.RSI14, 1)}},
			{"50-day SMA ($)", []string{Number(t.SMA50, 2)}},
			{"200-day SMA ($)", []string{Number(t.SMA200, 2)}},
			{"Period high ($)", []string{Number(t.PeriodHigh, 2)}},
			{"Period low ($)", []string{Number(t.PeriodLow, 2)}},
			{"Position in period range", []string{Percent(pos, 0)}},
		},
	}
}
