package collector

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/harryrigby/financial-dashboard/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars         map[string][]model.OHLCV
	Fundamentals map[string]model.Fundamentals
	Errors       map[string]error // keyed by symbol; applies to both calls
	Delay        time.Duration

	mu    sync.Mutex
	calls []string
}

// NewMockFetcher creates an empty mock.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Bars:         map[string][]model.OHLCV{},
		Fundamentals: map[string]model.Fundamentals{},
		Errors:       map[string]error{},
	}
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns the symbols requested so far, in call order.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockFetcher) record(kind, symbol string) {
	m.mu.Lock()
	m.calls = append(m.calls, kind+":"+symbol)
	m.mu.Unlock()
}

func (m *MockFetcher) wait(ctx context.Context) error {
	if m.Delay <= 0 {
		return nil
	}
	select {
	case <-time.After(m.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MockFetcher) FetchHistory(ctx context.Context, symbol string, period model.Period) (model.PriceSeries, error) {
	m.record("history", symbol)
	series := model.PriceSeries{Symbol: symbol, Period: period, FetchedAt: time.Now()}
	if err := m.wait(ctx); err != nil {
		return series, err
	}
	if err := m.Errors[strings.ToUpper(symbol)]; err != nil {
		return series, err
	}
	bars, ok := m.Bars[strings.ToUpper(symbol)]
	if !ok {
		return series, fmt.Errorf("mock history %s: %w", symbol, ErrNoData)
	}
	series.Bars = append([]model.OHLCV(nil), bars...)
	return series, nil
}

func (m *MockFetcher) FetchFundamentals(ctx context.Context, symbol string) (model.Fundamentals, error) {
	m.record("fundamentals", symbol)
	if err := m.wait(ctx); err != nil {
		return model.Fundamentals{Symbol: symbol}, err
	}
	if err := m.Errors[strings.ToUpper(symbol)]; err != nil {
		return model.Fundamentals{Symbol: symbol}, err
	}
	f, ok := m.Fundamentals[strings.ToUpper(symbol)]
	if !ok {
		return model.Fundamentals{Symbol: symbol}, fmt.Errorf("mock fundamentals %s: %w", symbol, ErrNoData)
	}
	return f, nil
}

// GenerateBars builds count consecutive weekday bars from start whose closes follow closeAt.
func GenerateBars(start time.Time, count int, closeAt func(i int) float64) []model.OHLCV {
	bars := make([]model.OHLCV, 0, count)
	d := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for len(bars) < count {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			p := closeAt(len(bars))
			bars = append(bars, model.OHLCV{
				Time:   d,
				Open:   p * 0.999,
				High:   p * 1.005,
				Low:    p * 0.995,
				Close:  p,
				Volume: 1000000,
			})
		}
		d = d.AddDate(0, 0, 1)
	}
	return bars
}
