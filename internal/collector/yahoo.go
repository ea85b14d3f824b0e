package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/time/rate"

	"github.com/harryrigby/financial-dashboard/internal/model"
)

const (
	yahooChartURL   = "https://query1.finance.yahoo.com"
	yahooSummaryURL = "https://query2.finance.yahoo.com"
	yahooCookieURL  = "https://fc.yahoo.com"
	userAgent       = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// YahooFetcher implements Fetcher using the Yahoo Finance public API.
type YahooFetcher struct {
	Client     *http.Client
	SymbolMap  map[string]string // maps listing symbols to Yahoo tickers
	chartURL   string
	summaryURL string
	cookieURL  string
	limiter    *rate.Limiter

	mu    sync.Mutex
	crumb string
}

// YahooOption configures a YahooFetcher.
type YahooOption func(*YahooFetcher)

// WithYahooBaseURLs points the fetcher at alternative hosts.
func WithYahooBaseURLs(chartURL, summaryURL, cookieURL string) YahooOption {
	return func(f *YahooFetcher) {
		f.chartURL = strings.TrimRight(chartURL, "/")
		f.summaryURL = strings.TrimRight(summaryURL, "/")
		f.cookieURL = cookieURL
	}
}

// WithYahooRateLimit caps outgoing requests per second.
func WithYahooRateLimit(rps float64) YahooOption {
	return func(f *YahooFetcher) {
		if rps > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
		}
	}
}

// WithYahooTimeout sets the HTTP client timeout.
func WithYahooTimeout(d time.Duration) YahooOption {
	return func(f *YahooFetcher) {
		if d > 0 {
			f.Client.Timeout = d
		}
	}
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string, opts ...YahooOption) *YahooFetcher {
	jar, _ := cookiejar.New(nil)
	f := &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: proxyTransport(proxyURL),
			Jar:       jar,
		},
		SymbolMap: map[string]string{
			"SPX":    "^GSPC",
			"SPX500": "^GSPC",
			"SP500":  "^GSPC",
		},
		chartURL:   yahooChartURL,
		summaryURL: yahooSummaryURL,
		cookieURL:  yahooCookieURL,
		limiter:    rate.NewLimiter(rate.Limit(5), 5),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func proxyTransport(proxyURL string) *http.Transport {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return transport
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooSymbol maps aliases and turns share-class dots into dashes ("BRK.B" -> "BRK-B").
func (f *YahooFetcher) yahooSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return strings.ReplaceAll(symbol, ".", "-")
}

// yahooChart is the response structure from the v8 chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				GMTOffset int    `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func at(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return 0
	}
	return *vals[i]
}

// FetchHistory downloads daily bars for the period.
func (f *YahooFetcher) FetchHistory(ctx context.Context, symbol string, period model.Period) (model.PriceSeries, error) {
	series := model.PriceSeries{Symbol: symbol, Period: period, FetchedAt: time.Now()}

	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("range", string(period))
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", f.chartURL, url.PathEscape(f.yahooSymbol(symbol)), params.Encode())

	body, err := f.get(ctx, endpoint)
	if err != nil {
		return series, fmt.Errorf("yahoo history %s: %w", symbol, err)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return series, fmt.Errorf("yahoo decode chart: %w", err)
	}
	if chart.Chart.Error != nil {
		return series, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return series, fmt.Errorf("yahoo history %s: %w", symbol, ErrNoData)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	zone := time.FixedZone("exchange", result.Meta.GMTOffset)
	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue // null bar (holiday, halted session)
		}
		local := time.Unix(ts, 0).In(zone)
		bars = append(bars, model.OHLCV{
			Time:   time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  *quote.Close[i],
			Volume: at(quote.Volume, i),
		})
	}
	series.Bars = normalizeBars(bars)
	return series, nil
}

// normalizeBars sorts bars by date and keeps the last bar of each day so dates are strictly increasing.
func normalizeBars(bars []model.OHLCV) []model.OHLCV {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

type rawValue struct {
	Raw *float64 `json:"raw"`
}

type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				RegularMarketPrice rawValue `json:"regularMarketPrice"`
				LongName           string   `json:"longName"`
			} `json:"price"`
			SummaryDetail struct {
				PreviousClose            rawValue `json:"previousClose"`
				FiftyTwoWeekHigh         rawValue `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow          rawValue `json:"fiftyTwoWeekLow"`
				MarketCap                rawValue `json:"marketCap"`
				FiveYearAvgDividendYield rawValue `json:"fiveYearAvgDividendYield"`
				TrailingPE               rawValue `json:"trailingPE"`
				Beta                     rawValue `json:"beta"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				TrailingEps rawValue `json:"trailingEps"`
				Beta        rawValue `json:"beta"`
			} `json:"defaultKeyStatistics"`
			AssetProfile struct {
				LongBusinessSummary string `json:"longBusinessSummary"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// FetchFundamentals downloads the quote summary modules for the symbol.
func (f *YahooFetcher) FetchFundamentals(ctx context.Context, symbol string) (model.Fundamentals, error) {
	body, err := f.fetchSummary(ctx, symbol)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			f.resetCrumb()
			body, err = f.fetchSummary(ctx, symbol)
		}
		if err != nil {
			return model.Fundamentals{Symbol: symbol}, fmt.Errorf("yahoo fundamentals %s: %w", symbol, err)
		}
	}

	var summary yahooSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return model.Fundamentals{Symbol: symbol}, fmt.Errorf("yahoo decode summary: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return model.Fundamentals{Symbol: symbol}, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return model.Fundamentals{Symbol: symbol}, fmt.Errorf("yahoo fundamentals %s: %w", symbol, ErrNoData)
	}

	r := summary.QuoteSummary.Result[0]
	fund := model.Fundamentals{
		Symbol:        symbol,
		LastClose:     model.FromPtr(r.Price.RegularMarketPrice.Raw),
		Week52High:    model.FromPtr(r.SummaryDetail.FiftyTwoWeekHigh.Raw),
		Week52Low:     model.FromPtr(r.SummaryDetail.FiftyTwoWeekLow.Raw),
		DividendYield: model.FromPtr(r.SummaryDetail.FiveYearAvgDividendYield.Raw),
		PERatioTTM:    model.FromPtr(r.SummaryDetail.TrailingPE.Raw),
		EPSTTM:        model.FromPtr(r.DefaultKeyStatistics.TrailingEps.Raw),
		Beta:          model.FromPtr(r.SummaryDetail.Beta.Raw),
		Description:   r.AssetProfile.LongBusinessSummary,
	}
	if !fund.LastClose.Valid {
		fund.LastClose = model.FromPtr(r.SummaryDetail.PreviousClose.Raw)
	}
	if !fund.Beta.Valid {
		fund.Beta = model.FromPtr(r.DefaultKeyStatistics.Beta.Raw)
	}
	if mc := r.SummaryDetail.MarketCap.Raw; mc != nil {
		fund.MarketCapBillions = model.Some(*mc / 1e9)
	}
	return fund, nil
}

func (f *YahooFetcher) fetchSummary(ctx context.Context, symbol string) ([]byte, error) {
	crumb, err := f.getCrumb(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("yahoo crumb unavailable, trying without")
	}
	params := url.Values{}
	params.Set("modules", "price,summaryDetail,defaultKeyStatistics,assetProfile")
	if crumb != "" {
		params.Set("crumb", crumb)
	}
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s", f.summaryURL, url.PathEscape(f.yahooSymbol(symbol)), params.Encode())
	return f.get(ctx, endpoint)
}

// getCrumb obtains the session cookie and crumb the quoteSummary endpoint requires.
func (f *YahooFetcher) getCrumb(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.crumb != "" {
		return f.crumb, nil
	}

	if f.cookieURL != "" {
		// fc.yahoo.com answers 404 but sets the session cookie.
		if _, err := f.get(ctx, f.cookieURL); err != nil {
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				return "", fmt.Errorf("yahoo cookie: %w", err)
			}
		}
	}
	body, err := f.get(ctx, f.summaryURL+"/v1/test/getcrumb")
	if err != nil {
		return "", fmt.Errorf("yahoo crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(body))
	if crumb == "" || strings.ContainsAny(crumb, "<{") {
		return "", fmt.Errorf("yahoo crumb: unexpected body %q", crumb)
	}
	f.crumb = crumb
	return crumb, nil
}

func (f *YahooFetcher) resetCrumb() {
	f.mu.Lock()
	f.crumb = ""
	f.mu.Unlock()
}

func (f *YahooFetcher) get(ctx context.Context, endpoint string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Endpoint: req.URL.Path, Message: truncate(string(body), 200)}
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
