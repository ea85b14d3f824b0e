package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/harryrigby/financial-dashboard/internal/model"
)

// RESTFetcher implements Fetcher against a self-hosted market data REST API.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *RESTFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: proxyTransport(proxyURL),
		},
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape of one daily bar.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// restFundamentals mirrors model.Fundamentals with optional fields.
type restFundamentals struct {
	LastClose     *float64 `json:"last_close"`
	High52w       *float64 `json:"high_52w"`
	Low52w        *float64 `json:"low_52w"`
	MarketCap     *float64 `json:"market_cap"`
	DividendYield *float64 `json:"dividend_yield"`
	PERatio       *float64 `json:"pe_ratio"`
	EPS           *float64 `json:"eps"`
	Beta          *float64 `json:"beta"`
	Description   string   `json:"description"`
}

func (f *RESTFetcher) FetchHistory(ctx context.Context, symbol string, period model.Period) (model.PriceSeries, error) {
	series := model.PriceSeries{Symbol: symbol, Period: period, FetchedAt: time.Now()}
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&range=%s", f.BaseURL, url.QueryEscape(symbol), period)

	var raw []restBar
	if err := f.getJSON(ctx, endpoint, &raw); err != nil {
		return series, fmt.Errorf("rest history %s: %w", symbol, err)
	}
	bars := make([]model.OHLCV, 0, len(raw))
	for _, rb := range raw {
		t := time.Unix(rb.Timestamp, 0).UTC()
		bars = append(bars, model.OHLCV{
			Time:   time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
			Open:   rb.Open,
			High:   rb.High,
			Low:    rb.Low,
			Close:  rb.Close,
			Volume: rb.Volume,
		})
	}
	series.Bars = normalizeBars(bars)
	return series, nil
}

func (f *RESTFetcher) FetchFundamentals(ctx context.Context, symbol string) (model.Fundamentals, error) {
	endpoint := fmt.Sprintf("%s/api/v1/fundamentals?symbol=%s", f.BaseURL, url.QueryEscape(symbol))

	var raw restFundamentals
	if err := f.getJSON(ctx, endpoint, &raw); err != nil {
		return model.Fundamentals{Symbol: symbol}, fmt.Errorf("rest fundamentals %s: %w", symbol, err)
	}
	fund := model.Fundamentals{
		Symbol:        symbol,
		LastClose:     model.FromPtr(raw.LastClose),
		Week52High:    model.FromPtr(raw.High52w),
		Week52Low:     model.FromPtr(raw.Low52w),
		DividendYield: model.FromPtr(raw.DividendYield),
		PERatioTTM:    model.FromPtr(raw.PERatio),
		EPSTTM:        model.FromPtr(raw.EPS),
		Beta:          model.FromPtr(raw.Beta),
		Description:   raw.Description,
	}
	if raw.MarketCap != nil {
		fund.MarketCapBillions = model.Some(*raw.MarketCap / 1e9)
	}
	return fund, nil
}

func (f *RESTFetcher) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNoData
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Endpoint: req.URL.Path, Message: truncate(string(body), 200)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
