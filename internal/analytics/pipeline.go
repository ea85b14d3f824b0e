package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/harryrigby/financial-dashboard/internal/calculator"
	"github.com/harryrigby/financial-dashboard/internal/collector"
	"github.com/harryrigby/financial-dashboard/internal/model"
	"github.com/harryrigby/financial-dashboard/internal/presenter"
	"github.com/harryrigby/financial-dashboard/internal/recorder"
)

// CompanyLookup resolves a ticker to its listing entry.
type CompanyLookup interface {
	Lookup(symbol string) (model.Company, bool)
}

// Options tune a Pipeline. Zero fields take the defaults below.
type Options struct {
	MarketSymbol  string
	MarketLabel   string
	FetchTimeout  time.Duration
	RiskFreeRate  float64 // annual, decimal
	Confidence    float64 // VaR confidence level
	HistogramBins int
	DefaultPeriod model.Period
}

func (o *Options) applyDefaults() {
	if o.MarketSymbol == "" {
		o.MarketSymbol = model.MarketIndexSymbol
	}
	if o.MarketLabel == "" {
		o.MarketLabel = "S&P 500"
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = 15 * time.Second
	}
	if o.Confidence <= 0 || o.Confidence >= 1 {
		o.Confidence = 0.95
	}
	if o.HistogramBins <= 0 {
		o.HistogramBins = 30
	}
	if o.DefaultPeriod == "" {
		o.DefaultPeriod = model.DefaultPeriod
	}
}

// Pipeline computes the analytics result for a ticker and period.
type Pipeline struct {
	fetcher   collector.Fetcher
	companies CompanyLookup
	recorder  recorder.Recorder
	opts      Options
}

// NewPipeline wires a pipeline. rec may be nil.
func NewPipeline(f collector.Fetcher, companies CompanyLookup, rec recorder.Recorder, opts Options) *Pipeline {
	opts.applyDefaults()
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Pipeline{fetcher: f, companies: companies, recorder: rec, opts: opts}
}

// fetched holds the outcome of every upstream call of one run. Each goroutine writes only its own fields.
type fetched struct {
	stock, market, sector      model.PriceSeries
	stockErr, marketErr        error
	sectorErr, fundamentalsErr error
	fundamentals               model.Fundamentals
}

// Compute fetches the stock, market and sector histories plus fundamentals concurrently and derives
// every field of the result. Failures degrade single fields and are reported as issues; the only
// error returned is ErrInvalidSymbol.
func (p *Pipeline) Compute(ctx context.Context, ticker, period string) (*model.AnalyticsResult, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}

	start := time.Now()
	res := &model.AnalyticsResult{
		RunID:       uuid.NewString(),
		Symbol:      symbol,
		Period:      model.ResolvePeriod(period, p.opts.DefaultPeriod),
		GeneratedAt: start.UTC(),
		Market:      model.Benchmark{Symbol: p.opts.MarketSymbol, Label: p.opts.MarketLabel},
	}
	b := &builder{res: res}

	sectorSymbol := p.resolveCompany(b)
	f := p.fetchAll(ctx, symbol, sectorSymbol, res.Period)

	p.computeStock(b, f.stock, f.stockErr)
	p.computeBenchmark(b, "market", &res.Market, f.market, f.marketErr, f.stock)
	if sectorSymbol != "" {
		p.computeBenchmark(b, "sector", &res.Sector, f.sector, f.sectorErr, f.stock)
	}
	p.computeRisk(b, f.stock, f.market)
	p.applyFundamentals(b, f.fundamentals, f.fundamentalsErr)

	res.Caption = presenter.Caption(res.LastClose, res.PeriodReturn, res.AsOf)
	res.Duration = time.Since(start)

	log.Info().Str("run_id", res.RunID).Str("symbol", symbol).Str("period", string(res.Period)).
		Dur("duration", res.Duration).Int("issues", len(res.Issues)).Msg("analytics computed")

	if err := p.recorder.RecordRun(recorder.RunFromResult(res)); err != nil {
		log.Warn().Err(err).Str("run_id", res.RunID).Msg("record run")
	}
	return res, nil
}

// resolveCompany fills company metadata and the sector benchmark label, returning the proxy symbol
// or "" when no sector comparison is possible.
func (p *Pipeline) resolveCompany(b *builder) string {
	res := b.res
	company, ok := p.companies.Lookup(res.Symbol)
	if !ok {
		b.issue("company", model.IssueUnknownSymbol, fmt.Errorf("%w: %s", ErrUnknownSymbol, res.Symbol))
		b.issue("sector", model.IssueUnknownSector, fmt.Errorf("%w: no sector for %s", ErrUnknownSector, res.Symbol))
		return ""
	}
	res.Company = &company
	res.Sector.Label = company.Sector

	sector, ok := model.ParseSector(company.Sector)
	if !ok {
		b.issue("sector", model.IssueUnknownSector, fmt.Errorf("%w: %q", ErrUnknownSector, company.Sector))
		return ""
	}
	proxy, _ := sector.ProxySymbol()
	res.Sector.Symbol = proxy
	res.Sector.Label = string(sector)
	return proxy
}

func (p *Pipeline) fetchAll(ctx context.Context, symbol, sectorSymbol string, period model.Period) *fetched {
	f := &fetched{}
	var wg sync.WaitGroup

	p.spawn(ctx, &wg, func(ctx context.Context) {
		f.stock, f.stockErr = p.history(ctx, symbol, period)
	})
	p.spawn(ctx, &wg, func(ctx context.Context) {
		f.market, f.marketErr = p.history(ctx, p.opts.MarketSymbol, period)
	})
	if sectorSymbol != "" {
		p.spawn(ctx, &wg, func(ctx context.Context) {
			f.sector, f.sectorErr = p.history(ctx, sectorSymbol, period)
		})
	}
	p.spawn(ctx, &wg, func(ctx context.Context) {
		f.fundamentals, f.fundamentalsErr = p.fetcher.FetchFundamentals(ctx, symbol)
	})

	wg.Wait()
	return f
}

// spawn runs fn with its own fetch deadline.
func (p *Pipeline) spawn(ctx context.Context, wg *sync.WaitGroup, fn func(context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		fctx, cancel := context.WithTimeout(ctx, p.opts.FetchTimeout)
		defer cancel()
		fn(fctx)
	}()
}

func (p *Pipeline) history(ctx context.Context, symbol string, period model.Period) (model.PriceSeries, error) {
	series, err := p.fetcher.FetchHistory(ctx, symbol, period)
	if err != nil {
		return series, fmt.Errorf("%w: %s history: %w", ErrDataUnavailable, symbol, err)
	}
	if series.Empty() {
		return series, fmt.Errorf("%w: %s returned no bars for %s", ErrDataUnavailable, symbol, period)
	}
	return series, nil
}

func (p *Pipeline) computeStock(b *builder, stock model.PriceSeries, err error) {
	res := b.res
	if err != nil {
		b.issue("prices", model.IssueDataUnavailable, err)
		return
	}

	closes := stock.Closes()
	dates := stock.Dates()
	returns := calculator.Returns(closes)

	res.Prices = points(dates, closes)
	res.Returns = returnPoints(dates, returns)
	b.checkReturns("returns", stock.Symbol, returns)
	res.Stats = b.summary("stats", returns)
	res.Histogram = calculator.Histogram(returns, p.opts.HistogramBins)

	first, _ := stock.First()
	last, _ := stock.Last()
	res.FirstClose = model.Some(first.Close)
	res.LastClose = model.Some(last.Close)
	res.AsOf = last.Time
	res.PeriodReturn = b.value("periodReturn")(calculator.PeriodReturn(first.Close, last.Close))

	tech := &res.Technicals
	tech.RSI14 = b.value("technicals.rsi14")(calculator.CalculateRSI(stock.Bars, 14))
	tech.SMA50 = b.value("technicals.sma50")(calculator.SMAOfBars(stock.Bars, 50))
	tech.SMA200 = b.value("technicals.sma200")(calculator.SMAOfBars(stock.Bars, 200))
	if high, low, err := calculator.PeriodRange(stock.Bars); err == nil {
		tech.PeriodHigh = model.Some(high)
		tech.PeriodLow = model.Some(low)
		tech.RangePosition = b.value("technicals.rangePosition")(calculator.RangePosition(last.Close, high, low))
	}
}

// computeBenchmark rebases the comparison series to the stock's first close and correlates closing
// prices after a nearest-date join.
func (p *Pipeline) computeBenchmark(b *builder, field string, bm *model.Benchmark, series model.PriceSeries, err error, stock model.PriceSeries) {
	if err != nil {
		b.issue(field, model.IssueDataUnavailable, err)
		return
	}
	bm.Available = true

	closes := series.Closes()
	dates := series.Dates()
	returns := calculator.Returns(closes)
	bm.Returns = returnPoints(dates, returns)
	b.checkReturns(field+".returns", series.Symbol, returns)
	bm.Stats = b.summary(field+".stats", returns)

	if first, ok := stock.First(); ok {
		rebased, err := calculator.Rebase(closes, first.Close)
		if err != nil {
			b.issue(field+".rebased", model.IssueComputation, fmt.Errorf("%w: rebase %s: %w", ErrComputation, series.Symbol, err))
		} else {
			bm.Rebased = points(dates, rebased)
		}
	}

	x, y := calculator.AlignNearest(stock.Dates(), stock.Closes(), dates, closes)
	bm.Correlation = b.value(field + ".correlation")(calculator.Pearson(x, y))
}

func (p *Pipeline) computeRisk(b *builder, stock, market model.PriceSeries) {
	if stock.Len() < 2 {
		return
	}
	risk := &b.res.Risk
	risk.Confidence = p.opts.Confidence
	rf := p.opts.RiskFreeRate
	returns := calculator.Returns(stock.Closes())

	risk.Volatility = b.value("risk.volatility")(calculator.Volatility(returns))
	risk.Sharpe = b.value("risk.sharpe")(calculator.Sharpe(returns, rf))
	risk.Sortino = b.value("risk.sortino")(calculator.Sortino(returns, rf))
	if v, es, err := calculator.HistoricalVaR(returns, p.opts.Confidence); err == nil {
		risk.ValueAtRisk = model.Some(v)
		risk.ExpectedShortfall = model.Some(es)
	}

	if market.Len() < 2 {
		return
	}
	stockDates := stock.Dates()[1:]
	marketDates := market.Dates()[1:]
	s, m := calculator.AlignNearest(stockDates, returns, marketDates, calculator.Returns(market.Closes()))
	beta, r2, err := calculator.BetaRSquared(s, m)
	risk.Beta = model.Some(beta)
	risk.RSquared = model.Some(r2)
	if err != nil {
		field := "risk.rSquared"
		if !risk.Beta.Valid {
			field = "risk.beta"
		}
		b.computation(field, err)
	}
	if risk.Beta.Valid {
		risk.Treynor = b.value("risk.treynor")(calculator.Treynor(returns, rf, beta))
	}
}

func (p *Pipeline) applyFundamentals(b *builder, f model.Fundamentals, err error) {
	res := b.res
	if err != nil {
		b.issue("fundamentals", model.IssueDataUnavailable, fmt.Errorf("%w: %s fundamentals: %w", ErrDataUnavailable, res.Symbol, err))
		return
	}
	res.Fundamentals = &f
	res.Beta = f.Beta
	if res.Company != nil {
		res.Description = f.Description
	}
}

// builder collects issues while a result is assembled.
type builder struct {
	res *model.AnalyticsResult
}

func (b *builder) issue(field string, kind model.IssueKind, err error) {
	b.res.Issues = append(b.res.Issues, model.NewIssue(field, kind, err))
	log.Warn().Str("symbol", b.res.Symbol).Str("field", field).Str("kind", string(kind)).Err(err).Msg("analytics field degraded")
}

// computation records a failed derived value. Too little data is not an issue.
func (b *builder) computation(field string, err error) {
	if errors.Is(err, calculator.ErrInsufficientData) {
		return
	}
	b.issue(field, model.IssueComputation, fmt.Errorf("%w: %s: %w", ErrComputation, field, err))
}

// value converts a calculator result into an optional value.
func (b *builder) value(field string) func(float64, error) model.Float {
	return func(v float64, err error) model.Float {
		if err != nil {
			b.computation(field, err)
			return model.NA
		}
		return model.Some(v)
	}
}

// checkReturns reports returns lost to a zero or non-finite prior close.
func (b *builder) checkReturns(field, symbol string, returns []float64) {
	lost := len(returns) - len(calculator.Finite(returns))
	if lost == 0 {
		return
	}
	b.issue(field, model.IssueComputation,
		fmt.Errorf("%w: %s: %d of %d returns: %w", ErrComputation, symbol, lost, len(returns), calculator.ErrZeroPrice))
}

func (b *builder) summary(field string, returns []float64) model.SummaryStats {
	s, err := calculator.Describe(returns)
	if err != nil {
		b.computation(field, err)
		return model.SummaryStats{}
	}
	return model.SummaryStats{
		Count:  s.Count,
		Mean:   model.Some(s.Mean),
		StdDev: model.Some(s.StdDev),
		Min:    model.Some(s.Min),
		P25:    model.Some(s.P25),
		Median: model.Some(s.Median),
		P75:    model.Some(s.P75),
		Max:    model.Some(s.Max),
	}
}

func points(dates []time.Time, values []float64) []model.Point {
	out := make([]model.Point, len(values))
	for i, v := range values {
		out[i] = model.Point{Date: dates[i], Value: model.Some(v)}
	}
	return out
}

// returnPoints dates each return by the later of its two closes.
func returnPoints(dates []time.Time, returns []float64) []model.Point {
	if len(returns) == 0 {
		return nil
	}
	return points(dates[1:], returns)
}
