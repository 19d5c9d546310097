package usecase

import (
	"context"
	"testing"
	"time"

	"aerofare-service/internal/domain/entity"
	"aerofare-service/internal/interface/scraper"
	"aerofare-service/pkg/logger"
)

func newSchedulerFixture(t *testing.T, settingRepo *fakeSettingRepo) (*serviceFixture, *ScrapeScheduler) {
	t.Helper()
	bookcabin := &fakeScraper{source: entity.SourceBookCabin, flights: []scraper.Flight{
		{Airline: "Lion Air", FlightNumber: "JT368", Fare: 1000000},
	}}
	f := newServiceFixture(&fakeProvider{always: []scraper.Scraper{bookcabin}})

	settings := NewSettingsService(settingRepo, "07:30", "2026-03-31", "", logger.NewNop())
	routes := []RoutePair{{Origin: "BTH", Destination: "CGK"}}
	sched, err := NewScrapeScheduler(f.service, settings, routes, "UTC", logger.NewNop())
	if err != nil {
		t.Fatalf("NewScrapeScheduler() err=%v", err)
	}
	return f, sched
}

func TestSchedulerStatusLifecycle(t *testing.T) {
	_, sched := newSchedulerFixture(t, newFakeSettingRepo())

	if status := sched.Status(); status.Running {
		t.Errorf("scheduler reports running before Start")
	}

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start() err=%v", err)
	}
	defer sched.Stop()

	status := sched.Status()
	if !status.Running {
		t.Fatalf("scheduler not running after Start")
	}
	if status.NextRunTime == nil || !status.NextRunTime.After(time.Now()) {
		t.Errorf("next run time = %v, want a future timestamp", status.NextRunTime)
	}

	if err := sched.Start(context.Background()); err == nil {
		t.Errorf("second Start succeeded, want already-started error")
	}

	sched.Stop()
	if status := sched.Status(); status.Running {
		t.Errorf("scheduler reports running after Stop")
	}
}

func TestSchedulerRestartPicksUpNewTime(t *testing.T) {
	repo := newFakeSettingRepo()
	_, sched := newSchedulerFixture(t, repo)

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start() err=%v", err)
	}
	defer sched.Stop()

	repo.values[entity.SettingScheduleTime] = "23:59"
	if err := sched.Restart(context.Background()); err != nil {
		t.Fatalf("Restart() err=%v", err)
	}

	status := sched.Status()
	if !status.Running || status.NextRunTime == nil {
		t.Fatalf("scheduler not running after Restart: %+v", status)
	}
	next := status.NextRunTime.UTC()
	if next.Hour() != 23 || next.Minute() != 59 {
		t.Errorf("next run at %02d:%02d, want 23:59", next.Hour(), next.Minute())
	}
}

// With the horizon end date in the past the job exits before touching
// any adapter.
func TestSchedulerSkipsPastHorizon(t *testing.T) {
	repo := newFakeSettingRepo()
	repo.values[entity.SettingEndDate] = "2020-01-01"
	f, sched := newSchedulerFixture(t, repo)

	sched.TriggerNow()

	if len(f.runs.created) != 0 {
		t.Errorf("runs created past horizon = %d, want 0", len(f.runs.created))
	}
	if len(f.quotes.inserted) != 0 {
		t.Errorf("quotes inserted past horizon = %d, want 0", len(f.quotes.inserted))
	}
}

func TestSchedulerRejectsUnknownTimezone(t *testing.T) {
	f := newServiceFixture(&fakeProvider{})
	settings := NewSettingsService(newFakeSettingRepo(), "07:30", "2026-03-31", "", logger.NewNop())

	if _, err := NewScrapeScheduler(f.service, settings, nil, "Mars/Olympus_Mons", logger.NewNop()); err == nil {
		t.Errorf("unknown timezone accepted")
	}
}
