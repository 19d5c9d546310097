package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"aerofare-service/internal/domain/entity"
	"aerofare-service/pkg/logger"

	"github.com/robfig/cron/v3"
)

// ScrapeScheduler fires the daily scheduled collection over a fixed
// route list at the configured time of day. The horizon end date bounds
// how far the schedule stays active: once today passes it, the job is
// skipped entirely.
type ScrapeScheduler struct {
	service  *ScrapeService
	settings *SettingsService
	routes   []RoutePair
	location *time.Location
	logger   logger.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
}

// SchedulerStatus is the externally visible scheduler state.
type SchedulerStatus struct {
	Running     bool       `json:"running"`
	NextRunTime *time.Time `json:"next_run_time,omitempty"`
}

// NewScrapeScheduler creates a scheduler for the given routes and timezone
func NewScrapeScheduler(service *ScrapeService, settings *SettingsService, routes []RoutePair, timezone string, log logger.Logger) (*ScrapeScheduler, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &ScrapeScheduler{
		service:  service,
		settings: settings,
		routes:   routes,
		location: location,
		logger:   log,
	}, nil
}

// Start registers the daily trigger at the configured schedule time
func (s *ScrapeScheduler) Start(ctx context.Context) error {
	hour, minute, err := s.settings.ScheduleTime(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return fmt.Errorf("scheduler already started")
	}

	c := cron.New(cron.WithLocation(s.location))
	entryID, err := c.AddFunc(fmt.Sprintf("%d %d * * *", minute, hour), s.runScheduledJob)
	if err != nil {
		return fmt.Errorf("register cron entry: %w", err)
	}
	c.Start()

	s.cron = c
	s.entryID = entryID
	s.logger.Info("Scheduler started", "hour", hour, "minute", minute, "timezone", s.location.String())
	return nil
}

// Restart re-reads the schedule time and re-registers the trigger
func (s *ScrapeScheduler) Restart(ctx context.Context) error {
	s.Stop()
	return s.Start(ctx)
}

// Stop shuts the scheduler down
func (s *ScrapeScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
		s.logger.Info("Scheduler stopped")
	}
}

// Status returns whether the scheduler is running and its next fire time
func (s *ScrapeScheduler) Status() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return SchedulerStatus{}
	}
	next := s.cron.Entry(s.entryID).Next
	return SchedulerStatus{Running: true, NextRunTime: &next}
}

// TriggerNow runs the scheduled job immediately, bypassing the cron
// trigger but honoring the horizon check
func (s *ScrapeScheduler) TriggerNow() {
	s.logger.Info("Manual trigger requested")
	s.runScheduledJob()
}

// runScheduledJob collects every configured route sequentially from
// today through the horizon end date.
func (s *ScrapeScheduler) runScheduledJob() {
	ctx := context.Background()
	log := s.logger.With("job", "daily_scrape")
	log.Info("Scheduled scraping started")

	today := dateOnly(time.Now().In(s.location))

	endDate, err := s.settings.HorizonEndDate(ctx)
	if err != nil {
		log.Error("Failed to read horizon end date", "error", err)
		return
	}
	if today.After(endDate) {
		log.Info("Past horizon end date, skipping", "end_date", endDate.Format(dateLayout))
		return
	}

	credential, err := s.settings.Credential(ctx)
	if err != nil {
		log.Error("Failed to read credential", "error", err)
		return
	}

	for _, route := range s.routes {
		result, err := s.service.Run(ctx, RunParams{
			Origin:      route.Origin,
			Destination: route.Destination,
			StartDate:   today,
			EndDate:     endDate,
			Credential:  credential,
			RunType:     entity.RunScheduled,
		})
		if err != nil {
			log.Error("Scheduled route failed", "route", route.Code(), "error", err)
			continue
		}
		log.Info("Scheduled route collected",
			"route", route.Code(),
			"records", result.TotalRecords,
			"errors", result.TotalErrors,
		)
	}

	log.Info("Scheduled scraping finished")
}
