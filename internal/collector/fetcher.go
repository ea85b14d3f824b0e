package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/harryrigby/financial-dashboard/internal/model"
)

// ErrNoData is returned when the provider answers but has nothing for the symbol or period.
var ErrNoData = errors.New("no data returned")

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchHistory(ctx context.Context, symbol string, period model.Period) (model.PriceSeries, error)
	FetchFundamentals(ctx context.Context, symbol string) (model.Fundamentals, error)
	Name() string
}

// APIError is a non-200 answer from a provider.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}
