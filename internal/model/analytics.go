package model

import (
	"errors"
	"time"
)

// IssueKind classifies a degraded part of a result.
type IssueKind string

const (
	IssueDataUnavailable IssueKind = "DATA_UNAVAILABLE"
	IssueUnknownSector   IssueKind = "UNKNOWN_SECTOR"
	IssueUnknownSymbol   IssueKind = "UNKNOWN_SYMBOL"
	IssueComputation     IssueKind = "COMPUTATION_ERROR"
)

// Issue records one field that could not be produced.
type Issue struct {
	Field   string    `json:"field"`
	Kind    IssueKind `json:"kind"`
	Message string    `json:"message"`
	err     error
}

// NewIssue builds an issue that unwraps to err.
func NewIssue(field string, kind IssueKind, err error) Issue {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return Issue{Field: field, Kind: kind, Message: msg, err: err}
}

// Err returns the underlying error.
func (i Issue) Err() error {
	if i.err != nil {
		return i.err
	}
	return errors.New(i.Message)
}

// Benchmark is a comparison series (market or sector) for one result.
type Benchmark struct {
	Symbol      string       `json:"symbol"`
	Label       string       `json:"label"`
	Available   bool         `json:"available"`
	Rebased     []Point      `json:"rebased"`
	Returns     []Point      `json:"returns"`
	Stats       SummaryStats `json:"stats"`
	Correlation Float        `json:"correlation"`
}

// AnalyticsResult is everything the dashboard shows for one ticker and period.
type AnalyticsResult struct {
	RunID        string         `json:"runId"`
	Symbol       string         `json:"symbol"`
	Period       Period         `json:"period"`
	Company      *Company       `json:"company"`
	Description  string         `json:"description,omitempty"`
	Prices       []Point        `json:"prices"`
	Returns      []Point        `json:"returns"`
	Histogram    []HistogramBin `json:"histogram"`
	Stats        SummaryStats   `json:"stats"`
	Market       Benchmark      `json:"market"`
	Sector       Benchmark      `json:"sector"`
	Fundamentals *Fundamentals  `json:"fundamentals"`
	Beta         Float          `json:"beta"`
	Risk         RiskMetrics    `json:"risk"`
	Technicals   Technicals     `json:"technicals"`
	FirstClose   Float          `json:"firstClose"`
	LastClose    Float          `json:"lastClose"`
	PeriodReturn Float          `json:"periodReturn"`
	AsOf         time.Time      `json:"asOf"`
	Caption      string         `json:"caption"`
	Issues       []Issue        `json:"issues"`
	GeneratedAt  time.Time      `json:"generatedAt"`
	Duration     time.Duration  `json:"duration"`
}

// Degraded reports whether any field could not be produced.
func (r *AnalyticsResult) Degraded() bool { return len(r.Issues) > 0 }

// HasIssue reports whether the result contains an issue of the given kind.
func (r *AnalyticsResult) HasIssue(kind IssueKind) bool {
	for _, i := range r.Issues {
		if i.Kind == kind {
			return true
		}
	}
	return false
}
