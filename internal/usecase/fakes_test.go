package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"aerofare-service/internal/domain/entity"
	"aerofare-service/internal/interface/scraper"
)

type fakeRunRepo struct {
	mu        sync.Mutex
	created   []entity.ScrapeRun
	completed map[string][2]int
	createErr error
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{completed: make(map[string][2]int)}
}

func (f *fakeRunRepo) Create(ctx context.Context, run *entity.ScrapeRun) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, *run)
	return nil
}

func (f *fakeRunRepo) Complete(ctx context.Context, runID string, totalRecords, totalErrors int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed[runID] = [2]int{totalRecords, totalErrors}
	return nil
}

type fakeQuoteRepo struct {
	mu       sync.Mutex
	inserted []entity.FlightQuote
}

func (f *fakeQuoteRepo) BulkInsert(ctx context.Context, quotes []entity.FlightQuote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, quotes...)
	return nil
}

func (f *fakeQuoteRepo) FindSuccessfulByRun(ctx context.Context, runID string) ([]entity.FlightQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.FlightQuote
	for _, q := range f.inserted {
		if q.RunID == runID && q.Status == entity.QuoteSuccess {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeSummaryRepo struct {
	mu       sync.Mutex
	prior    map[string]*entity.DailySummary
	inserted []entity.DailySummary
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{prior: make(map[string]*entity.DailySummary)}
}

func priorKey(route, airline, travelDate string) string {
	return route + "|" + airline + "|" + travelDate
}

func (f *fakeSummaryRepo) Insert(ctx context.Context, summary *entity.DailySummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, *summary)
	return nil
}

func (f *fakeSummaryRepo) FindPrior(ctx context.Context, route, airline string, travelDate, before time.Time) (*entity.DailySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prior, ok := f.prior[priorKey(route, airline, travelDate.Format(dateLayout))]
	if !ok || !prior.ScrapeDate.Before(before) {
		return nil, nil
	}
	return prior, nil
}

type fakeNotifRepo struct {
	mu       sync.Mutex
	inserted []entity.Notification
}

func (f *fakeNotifRepo) Insert(ctx context.Context, notif *entity.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, *notif)
	return nil
}

func (f *fakeNotifRepo) List(ctx context.Context, limit int) ([]entity.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.Notification(nil), f.inserted...), nil
}

func (f *fakeNotifRepo) MarkRead(ctx context.Context, id uint) error { return nil }

func (f *fakeNotifRepo) MarkAllRead(ctx context.Context) error { return nil }

func (f *fakeNotifRepo) byType(t string) []entity.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Notification
	for _, n := range f.inserted {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

type fakeSettingRepo struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{values: make(map[string]string)}
}

func (f *fakeSettingRepo) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key], nil
}

func (f *fakeSettingRepo) Put(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return nil
}

type fakeScraper struct {
	source  string
	flights []scraper.Flight
	err     error
	calls   atomic.Int32
}

func (f *fakeScraper) Source() string { return f.source }

func (f *fakeScraper) SourcePage() string { return "https://example.test/" + f.source }

func (f *fakeScraper) Fetch(ctx context.Context, origin, destination, travelDate string) ([]scraper.Flight, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]scraper.Flight, len(f.flights))
	copy(out, f.flights)
	for i := range out {
		out[i].TravelDate = travelDate
	}
	return out, nil
}

type fakeProvider struct {
	always       []scraper.Scraper
	credentialed []scraper.Scraper
}

func (f *fakeProvider) Eligible(credential string) []scraper.Scraper {
	scrapers := append([]scraper.Scraper(nil), f.always...)
	if credential != "" {
		scrapers = append(scrapers, f.credentialed...)
	}
	return scrapers
}
