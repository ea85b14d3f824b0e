package recorder

import (
	"time"

	"github.com/harryrigby/financial-dashboard/internal/model"
)

// Run is the stored summary of one analytics computation.
type Run struct {
	ID          string        `json:"id"`
	Symbol      string        `json:"symbol"`
	Period      model.Period  `json:"period"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Duration    time.Duration `json:"duration"`
	Bars        int           `json:"bars"`
	LastClose   model.Float   `json:"lastClose"`
	Caption     string        `json:"caption"`
	Issues      []string      `json:"issues"` // field:kind
}

// Degraded reports whether the run had any unavailable field.
func (r Run) Degraded() bool { return len(r.Issues) > 0 }

// RunFromResult summarises a result for storage.
func RunFromResult(res *model.AnalyticsResult) *Run {
	run := &Run{
		ID:          res.RunID,
		Symbol:      res.Symbol,
		Period:      res.Period,
		GeneratedAt: res.GeneratedAt,
		Duration:    res.Duration,
		Bars:        len(res.Prices),
		LastClose:   res.LastClose,
		Caption:     res.Caption,
	}
	for _, iss := range res.Issues {
		run.Issues = append(run.Issues, iss.Field+":"+string(iss.Kind))
	}
	return run
}

// Recorder persists run history.
type Recorder interface {
	RecordRun(run *Run) error
	Recent(limit int) ([]Run, error)
	Prune(before time.Time) (int64, error)
	Close() error
}
