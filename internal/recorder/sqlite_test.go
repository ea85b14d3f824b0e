package recorder

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harryrigby/financial-dashboard/internal/model"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })
	return rec
}

func TestSQLiteRecorder_RecordAndRecent(t *testing.T) {
	rec := openTestRecorder(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, rec.RecordRun(&Run{
		ID: "a", Symbol: "AAPL", Period: model.Period1Year, GeneratedAt: base,
		Duration: 1500 * time.Millisecond, Bars: 252, LastClose: model.Some(190.5),
		Caption: "Latest close: $190.50 (12.00%) on 2024-03-01",
	}))
	require.NoError(t, rec.RecordRun(&Run{
		ID: "b", Symbol: "ZZZZ", Period: model.Period6Month, GeneratedAt: base.Add(time.Minute),
		Issues: []string{"company:UNKNOWN_SYMBOL", "sector:UNKNOWN_SECTOR"},
	}))

	runs, err := rec.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "b", runs[0].ID)
	assert.True(t, runs[0].Degraded())
	assert.False(t, runs[0].LastClose.Valid)
	assert.Equal(t, []string{"company:UNKNOWN_SYMBOL", "sector:UNKNOWN_SECTOR"}, runs[0].Issues)

	assert.Equal(t, "a", runs[1].ID)
	assert.False(t, runs[1].Degraded())
	assert.Equal(t, 1500*time.Millisecond, runs[1].Duration)
	assert.Equal(t, 190.5, runs[1].LastClose.Value)
	assert.True(t, base.Equal(runs[1].GeneratedAt))

	one, err := rec.Recent(1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestSQLiteRecorder_Prune(t *testing.T) {
	rec := openTestRecorder(t)
	now := time.Now().UTC()

	require.NoError(t, rec.RecordRun(&Run{ID: "old", Symbol: "MMM", Period: model.Period1Month, GeneratedAt: now.AddDate(0, 0, -40)}))
	require.NoError(t, rec.RecordRun(&Run{ID: "new", Symbol: "MMM", Period: model.Period1Month, GeneratedAt: now}))

	n, err := rec.Prune(now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	runs, err := rec.Recent(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "new", runs[0].ID)
}

func TestRunFromResult(t *testing.T) {
	res := &model.AnalyticsResult{
		RunID:  "r1",
		Symbol: "AAPL",
		Period: model.Period1Year,
		Prices: make([]model.Point, 3),
		Issues: []model.Issue{model.NewIssue("fundamentals", model.IssueDataUnavailable, errors.New("timeout"))},
	}
	run := RunFromResult(res)
	assert.Equal(t, "r1", run.ID)
	assert.Equal(t, 3, run.Bars)
	assert.Equal(t, []string{"fundamentals:DATA_UNAVAILABLE"}, run.Issues)
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NewNoopRecorder()
	assert.NoError(t, rec.RecordRun(&Run{ID: "x"}))
	runs, err := rec.Recent(5)
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, rec.Close())
}
