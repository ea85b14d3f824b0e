package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"

	"github.com/harryrigby/financial-dashboard/internal/collector"
	"github.com/harryrigby/financial-dashboard/internal/recorder"
)

// Scheduler manages the background maintenance jobs.
type Scheduler struct {
	Cron      *cron.Cron
	Listing   *collector.Listing
	Source    collector.ListingSource
	Recorder  recorder.Recorder
	Retention time.Duration
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, listing *collector.Listing, src collector.ListingSource, rec recorder.Recorder, retention time.Duration) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Listing:   listing,
		Source:    src,
		Recorder:  rec,
		Retention: retention,
		Ctx:       ctx,
	}
}

// RegisterAll registers the listing refresh and run history pruning tasks.
func (s *Scheduler) RegisterAll(refreshCron, pruneCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshListing); err != nil {
		return fmt.Errorf("register listing refresh: %w", err)
	}
	if s.Retention > 0 {
		if _, err := s.Cron.AddFunc(pruneCron, s.pruneRuns); err != nil {
			return fmt.Errorf("register run pruning: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RefreshNow reloads the listing immediately.
func (s *Scheduler) RefreshNow() error {
	return s.refresh()
}

func (s *Scheduler) refreshListing() {
	if err := s.refresh(); err != nil {
		log.Error().Err(err).Msg("listing refresh failed, keeping previous snapshot")
	}
}

func (s *Scheduler) refresh() error {
	dir, err := collector.LoadListing(s.Ctx, s.Source)
	if err != nil {
		return err
	}
	if dir.Len() == 0 {
		return fmt.Errorf("listing refresh returned no companies")
	}
	s.Listing.Replace(dir)
	log.Info().Int("companies", dir.Len()).Msg("company listing replaced")
	return nil
}

func (s *Scheduler) pruneRuns() {
	cutoff := time.Now().Add(-s.Retention)
	n, err := s.Recorder.Prune(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("prune run history")
		return
	}
	log.Info().Int64("deleted", n).Time("before", cutoff).Msg("run history pruned")
}
