package server

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/harryrigby/financial-dashboard/internal/analytics"
	"github.com/harryrigby/financial-dashboard/internal/collector"
	"github.com/harryrigby/financial-dashboard/internal/model"
	"github.com/harryrigby/financial-dashboard/internal/presenter"
	"github.com/harryrigby/financial-dashboard/internal/recorder"
)

// Analyzer computes one analytics result.
type Analyzer interface {
	Compute(ctx context.Context, ticker, period string) (*model.AnalyticsResult, error)
}

var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9.\-^=]{1,15}$`)

// Handler serves the dashboard API.
type Handler struct {
	analyzer       Analyzer
	listing        *collector.Listing
	recorder       recorder.Recorder
	requestTimeout time.Duration
	startTime      time.Time
}

// NewHandler creates a Handler. rec may be nil.
func NewHandler(a Analyzer, listing *collector.Listing, rec recorder.Recorder, requestTimeout time.Duration) *Handler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if requestTimeout <= 0 {
		requestTimeout = 60 * time.Second
	}
	return &Handler{
		analyzer:       a,
		listing:        listing,
		recorder:       rec,
		requestTimeout: requestTimeout,
		startTime:      time.Now(),
	}
}

// AnalyticsResponse is a result plus its formatted tables.
type AnalyticsResponse struct {
	*model.AnalyticsResult
	Tables presenter.Tables `json:"tables"`
}

// Health handles GET /health
func (h *Handler) Health(c *fiber.Ctx) error {
	dir := h.listing.Current()
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"uptime":    time.Since(h.startTime).String(),
		"companies": dir.Len(),
		"listedAt":  dir.LoadedAt(),
		"time":      time.Now(),
	})
}

// Periods handles GET /v1/periods
func (h *Handler) Periods(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"default": model.InitialPeriod,
		"periods": model.Periods,
	})
}

// Tickers handles GET /v1/tickers
func (h *Handler) Tickers(c *fiber.Ctx) error {
	dir := h.listing.Current()
	symbols := dir.Symbols()
	if symbols == nil {
		symbols = []string{}
	}
	return c.JSON(fiber.Map{
		"count":   len(symbols),
		"symbols": symbols,
	})
}

// Ticker handles GET /v1/tickers/:symbol
func (h *Handler) Ticker(c *fiber.Ctx) error {
	symbol := strings.ToUpper(c.Params("symbol"))
	company, ok := h.listing.Lookup(symbol)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("%s is not in the company listing", symbol))
	}
	return c.JSON(company)
}

// Analytics handles GET /v1/analytics/:symbol?period=<label|code>&format=text
func (h *Handler) Analytics(c *fiber.Ctx) error {
	symbol := c.Params("symbol")
	if !symbolPattern.MatchString(symbol) {
		return fmt.Errorf("%w: %q", analytics.ErrInvalidSymbol, symbol)
	}

	ctx, cancel := context.WithTimeout(c.Context(), h.requestTimeout)
	defer cancel()

	res, err := h.analyzer.Compute(ctx, symbol, c.Query("period"))
	if err != nil {
		return err
	}

	c.Set("X-Run-Id", res.RunID)
	if c.Query("format") == "text" {
		return c.SendString(presenter.FormatReport(res))
	}
	return c.JSON(AnalyticsResponse{AnalyticsResult: res, Tables: presenter.Build(res)})
}

// Runs handles GET /v1/runs?limit=n
func (h *Handler) Runs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 500 {
		return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 500")
	}
	runs, err := h.recorder.Recent(limit)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []recorder.Run{}
	}
	return c.JSON(fiber.Map{
		"count": len(runs),
		"runs":  runs,
	})
}
