package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phuslu/log"

	"github.com/harryrigby/financial-dashboard/internal/analytics"
	"github.com/harryrigby/financial-dashboard/internal/collector"
	"github.com/harryrigby/financial-dashboard/internal/config"
	"github.com/harryrigby/financial-dashboard/internal/recorder"
	"github.com/harryrigby/financial-dashboard/internal/scheduler"
	"github.com/harryrigby/financial-dashboard/internal/server"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	log.DefaultLogger = log.Logger{
		Level:      log.ParseLevel(cfg.Log.Level),
		Caller:     1,
		TimeFormat: "15:04:05",
		Writer:     &log.ConsoleWriter{ColorOutput: true},
	}
	log.Info().Str("config", cfgPath).Msg("financial dashboard starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, cfg.DataSource.FetchTimeout)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy,
			collector.WithYahooRateLimit(cfg.DataSource.RequestsPerSecond),
			collector.WithYahooTimeout(cfg.DataSource.FetchTimeout),
		)
	}
	log.Info().Str("source", fetcher.Name()).Msg("data source ready")

	// Load company listing
	src := collector.ListingSource{URL: cfg.Listing.URL, File: cfg.Listing.File, Proxy: cfg.Proxy}
	loadCtx, loadCancel := context.WithTimeout(ctx, 30*time.Second)
	dir, err := collector.LoadListing(loadCtx, src)
	loadCancel()
	if err != nil {
		log.Warn().Err(err).Msg("company listing unavailable, every symbol will be unknown until the next refresh")
	}
	listing := collector.NewListing(dir)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	pipeline := analytics.NewPipeline(fetcher, listing, rec, analytics.Options{
		MarketSymbol:  cfg.DataSource.MarketSymbol,
		FetchTimeout:  cfg.DataSource.FetchTimeout,
		RiskFreeRate:  cfg.Analytics.RiskFreeRate,
		HistogramBins: cfg.Analytics.HistogramBins,
		DefaultPeriod: cfg.DefaultPeriod(),
	})

	// Init scheduler
	retention := time.Duration(cfg.Database.RetentionDays) * 24 * time.Hour
	sched := scheduler.NewScheduler(ctx, listing, src, rec, retention)
	if err := sched.RegisterAll(cfg.Listing.RefreshCron, cfg.Database.PruneCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	// Start HTTP server
	app := server.New(server.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		RateLimit:    cfg.Server.RateLimit,
		AccessLog:    true,
	}, server.NewHandler(pipeline, listing, rec, cfg.Server.WriteTimeout))

	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("start server")
		}
	}()
	log.Info().Str("port", cfg.Server.Port).Int("companies", listing.Current().Len()).Msg("financial dashboard is running")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("financial dashboard stopped")
}
