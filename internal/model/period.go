package model

import "strings"

// Period is a provider lookback window code.
type Period string

const (
	Period1Month Period = "1mo"
	Period3Month Period = "3mo"
	Period6Month Period = "6mo"
	Period1Year  Period = "1y"
	Period2Year  Period = "2y"
	Period5Year  Period = "5y"
	Period10Year Period = "10y"
	PeriodYTD    Period = "ytd"
	PeriodMax    Period = "max"
)

// DefaultPeriod is used when a requested period is not recognised.
const DefaultPeriod = Period6Month

// InitialPeriod is preselected when the dashboard first loads.
const InitialPeriod = Period1Year

// PeriodOption pairs a display label with its code.
type PeriodOption struct {
	Label string `json:"label"`
	Code  Period `json:"code"`
}

// Periods lists the selectable windows in display order.
var Periods = []PeriodOption{
	{"1 Month", Period1Month},
	{"3 Months", Period3Month},
	{"6 Months", Period6Month},
	{"1 Year", Period1Year},
	{"2 Years", Period2Year},
	{"5 Years", Period5Year},
	{"10 Years", Period10Year},
	{"YTD", PeriodYTD},
	{"Max", PeriodMax},
}

// ParsePeriod accepts either a label ("1 Year") or a code ("1y"), case-insensitively.
func ParsePeriod(s string) (Period, bool) {
	s = strings.TrimSpace(s)
	for _, p := range Periods {
		if strings.EqualFold(s, p.Label) || strings.EqualFold(s, string(p.Code)) {
			return p.Code, true
		}
	}
	return "", false
}

// ResolvePeriod parses s and falls back to def when it is not recognised.
func ResolvePeriod(s string, def Period) Period {
	if p, ok := ParsePeriod(s); ok {
		return p
	}
	return def
}

// Label returns the display label of the period.
func (p Period) Label() string {
	for _, o := range Periods {
		if o.Code == p {
			return o.Label
		}
	}
	return string(p)
}
