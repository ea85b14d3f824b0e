package presenter

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harryrigby/financial-dashboard/internal/model"
)

const (
	// Unavailable marks a value that could not be produced.
	Unavailable = "N/A"
	// NoDividend marks a company without dividend history.
	NoDividend = "--"
)

// Caption formats the latest close, the period return and the as-of date.
func Caption(lastClose, periodReturn model.Float, asOf time.Time) string {
	if !lastClose.Valid || asOf.IsZero() {
		return "Latest close: " + Unavailable
	}
	pct := Unavailable
	if periodReturn.Valid {
		pct = fixed(periodReturn.Value, 2) + "%"
	}
	return fmt.Sprintf("Latest close: $%s (%s) on %s", fixed(lastClose.Value, 2), pct, asOf.Format("2006-01-02"))
}

// fixed rounds half away from zero at the presentation boundary.
func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Number renders v to the given decimal places, or N/A.
func Number(v model.Float, places int32) string {
	if !v.Valid {
		return Unavailable
	}
	return fixed(v.Value, places)
}

// Percent renders a percentage value with a trailing %.
func Percent(v model.Float, places int32) string {
	if !v.Valid {
		return Unavailable
	}
	return fixed(v.Value, places) + "%"
}

// Dividend renders the dividend yield, distinguishing "no dividend" from unknown fundamentals.
func Dividend(f *model.Fundamentals) string {
	if f == nil {
		return Unavailable
	}
	if !f.DividendYield.Valid {
		return NoDividend
	}
	return fixed(f.DividendYield.Value, 2) + "%"
}

// FormatReport renders a plain-text summary of one result.
func FormatReport(res *model.AnalyticsResult) string {
	var b strings.Builder

	name := res.Symbol
	if res.Company != nil && res.Company.Name != "" {
		name = fmt.Sprintf("%s (%s)", res.Company.Name, res.Symbol)
	}
	b.WriteString(fmt.Sprintf("%s | %s\n", name, res.Period.Label()))
	if res.Company != nil {
		b.WriteString(fmt.Sprintf("Sector: %s", res.Company.Sector))
		if res.Company.SubIndustry != "" {
			b.WriteString(" / " + res.Company.SubIndustry)
		}
		b.WriteString("\n")
	}
	b.WriteString(res.Caption + "\n")

	for _, t := range Build(res).All() {
		b.WriteString("\n" + t.Title + "\n")
		if len(t.Columns) > 1 {
			b.WriteString(fmt.Sprintf("  %-34s %s\n", "", strings.Join(t.Columns[1:], " | ")))
		}
		for _, r := range t.Rows {
			b.WriteString(fmt.Sprintf("  %-34s %s\n", r.Label, strings.Join(r.Values, " | ")))
		}
	}

	if res.Degraded() {
		b.WriteString("\nUnavailable:\n")
		for _, iss := range res.Issues {
			b.WriteString(fmt.Sprintf("  %s (%s)\n", iss.Field, iss.Kind))
		}
	}
	return b.String()
}
