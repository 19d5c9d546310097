package usecase

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"aerofare-service/internal/domain/entity"
	"aerofare-service/internal/domain/repository"
	"aerofare-service/internal/interface/scraper"
	"aerofare-service/pkg/logger"
	"aerofare-service/pkg/metrics"

	"github.com/google/uuid"
)

const (
	dateLayout = "2006-01-02"

	// Dates are processed in concurrent batches of this size to bound
	// outstanding connections against the upstream APIs.
	dateBatchSize = 5

	// A run whose error ratio exceeds this raises a system alert.
	// Fixed policy value, kept as-is.
	errorRateAlertThreshold = 0.5
)

// RoutePair is one origin-destination pair to collect.
type RoutePair struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// Code serializes the route as "ORIGIN-DEST".
func (r RoutePair) Code() string {
	return r.Origin + "-" + r.Destination
}

// ProgressRef ties a run to its slice of a multi-route job so progress
// percentages span the whole job, not just the current route.
type ProgressRef struct {
	JobID       string
	RouteIndex  int
	TotalRoutes int
}

// RunParams are the inputs of one orchestrator invocation.
type RunParams struct {
	Origin      string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Credential  string // bearer token for the credentialed adapter, may be empty
	RunType     string // MANUAL / SCHEDULED
	Progress    *ProgressRef
}

// SourceStats are the per-adapter tallies of one run.
type SourceStats struct {
	Source       string `json:"source"`
	TotalFlights int    `json:"total_flights"`
	TotalDates   int    `json:"total_dates"`
	Errors       int    `json:"errors"`
}

// RunResult is the outcome of one run. A run that completed with
// per-source failures still returns a result; callers distinguish "ran
// with some failures" from "did not run" by the error counts.
type RunResult struct {
	RunID        string        `json:"run_id"`
	Route        string        `json:"route"`
	StartDate    string        `json:"start_date"`
	EndDate      string        `json:"end_date"`
	RunType      string        `json:"run_type"`
	TotalRecords int           `json:"total_records"`
	TotalErrors  int           `json:"total_errors"`
	Stats        []SourceStats `json:"stats"`
}

// ScrapeService orchestrates fare collection over a route and date
// range: batched concurrent scraping, retry on transient failures,
// lowest-fare marking, persistence, aggregation and run notifications.
type ScrapeService struct {
	runRepo    repository.RunRepository
	quoteRepo  repository.QuoteRepository
	notifRepo  repository.NotificationRepository
	sources    scraper.Provider
	aggregator *Aggregator
	tracker    *ProgressTracker
	metrics    *metrics.Metrics
	logger     logger.Logger
	retry      *retryPolicy
	batchDelay time.Duration
}

// NewScrapeService creates a new scrape orchestrator
func NewScrapeService(
	runRepo repository.RunRepository,
	quoteRepo repository.QuoteRepository,
	notifRepo repository.NotificationRepository,
	sources scraper.Provider,
	aggregator *Aggregator,
	tracker *ProgressTracker,
	m *metrics.Metrics,
	log logger.Logger,
	batchDelay time.Duration,
) *ScrapeService {
	return &ScrapeService{
		runRepo:    runRepo,
		quoteRepo:  quoteRepo,
		notifRepo:  notifRepo,
		sources:    sources,
		aggregator: aggregator,
		tracker:    tracker,
		metrics:    m,
		logger:     log,
		retry:      newScrapeRetryPolicy(scraper.IsTransient),
		batchDelay: batchDelay,
	}
}

type dateResult struct {
	quotes     []entity.FlightQuote
	errors     int
	authFailed bool
}

// Run executes one collection over the inclusive date range. Adapter
// and network failures are recorded as FAILED quotes, never returned;
// only persistence failures propagate and abort the run.
func (s *ScrapeService) Run(ctx context.Context, params RunParams) (*RunResult, error) {
	started := time.Now()
	runID := uuid.NewString()
	route := params.Origin + "-" + params.Destination
	scrapeDate := dateOnly(time.Now())
	dates := enumerateDates(params.StartDate, params.EndDate)
	totalDates := len(dates)

	log := s.logger.With("run_id", runID, "route", route)
	log.Info("Starting scrape run",
		"run_type", params.RunType,
		"start_date", params.StartDate.Format(dateLayout),
		"end_date", params.EndDate.Format(dateLayout),
		"dates", totalDates,
	)

	run := entity.ScrapeRun{
		RunID:      runID,
		RunType:    params.RunType,
		ScrapeDate: scrapeDate,
		Route:      route,
		Status:     entity.RunRunning,
	}
	if err := s.runRepo.Create(ctx, &run); err != nil {
		s.metrics.ErrorsCount.WithLabelValues("create_run").Inc()
		return nil, fmt.Errorf("create run: %w", err)
	}

	eligible := s.sources.Eligible(params.Credential)

	stats := map[string]*SourceStats{
		entity.SourceGaruda:    {Source: entity.SourceGaruda},
		entity.SourceCitilink:  {Source: entity.SourceCitilink},
		entity.SourceBookCabin: {Source: entity.SourceBookCabin},
	}

	var allQuotes []entity.FlightQuote
	totalErrors := 0
	authFailed := false
	datesProcessed := 0

	for batchStart := 0; batchStart < totalDates; batchStart += dateBatchSize {
		batchEnd := batchStart + dateBatchSize
		if batchEnd > totalDates {
			batchEnd = totalDates
		}
		batch := dates[batchStart:batchEnd]

		results := make(chan dateResult, len(batch))
		for _, d := range batch {
			go func(d time.Time) {
				results <- s.scrapeDate(ctx, eligible, params, runID, route, d)
			}(d)
		}

		// Collect in completion order; downstream grouping is
		// order-independent.
		for range batch {
			res := <-results
			allQuotes = append(allQuotes, res.quotes...)
			totalErrors += res.errors
			if res.authFailed {
				authFailed = true
			}
			for _, q := range res.quotes {
				st, ok := stats[q.Source]
				if !ok {
					continue
				}
				if q.Status == entity.QuoteSuccess {
					st.TotalFlights++
				} else {
					st.Errors++
				}
			}

			datesProcessed++
			if params.Progress != nil {
				s.reportProgress(params.Progress, route, datesProcessed, totalDates, len(allQuotes))
			}
		}

		// Politeness delay before the next batch
		if batchEnd < totalDates {
			time.Sleep(s.batchDelay)
		}
	}

	fillSourceDates(stats, allQuotes)
	MarkLowestFares(allQuotes)

	if err := s.quoteRepo.BulkInsert(ctx, allQuotes); err != nil {
		s.metrics.ErrorsCount.WithLabelValues("insert_quotes").Inc()
		return nil, fmt.Errorf("insert quotes: %w", err)
	}
	if err := s.runRepo.Complete(ctx, runID, len(allQuotes), totalErrors); err != nil {
		s.metrics.ErrorsCount.WithLabelValues("complete_run").Inc()
		return nil, fmt.Errorf("complete run: %w", err)
	}

	if err := s.aggregator.ComputeDailySummaries(ctx, runID, route, scrapeDate); err != nil {
		s.metrics.ErrorsCount.WithLabelValues("aggregate").Inc()
		return nil, err
	}

	if err := s.emitRunNotifications(ctx, route, len(allQuotes), totalErrors, totalDates*len(eligible), authFailed); err != nil {
		return nil, err
	}

	s.metrics.QuotesCollected.Add(float64(len(allQuotes)))
	s.metrics.RunDuration.Observe(time.Since(started).Seconds())
	log.Info("Scrape run completed",
		"total_records", len(allQuotes),
		"total_errors", totalErrors,
		"duration", time.Since(started).String(),
	)

	result := &RunResult{
		RunID:        runID,
		Route:        route,
		StartDate:    params.StartDate.Format(dateLayout),
		EndDate:      params.EndDate.Format(dateLayout),
		RunType:      params.RunType,
		TotalRecords: len(allQuotes),
		TotalErrors:  totalErrors,
		Stats: []SourceStats{
			*stats[entity.SourceGaruda],
			*stats[entity.SourceCitilink],
			*stats[entity.SourceBookCabin],
		},
	}
	return result, nil
}

// scrapeDate runs every eligible adapter concurrently for one travel
// date. A failed (date, source) pair after retries yields exactly one
// FAILED quote so the failure stays visible downstream.
func (s *ScrapeService) scrapeDate(ctx context.Context, scrapers []scraper.Scraper, params RunParams, runID, route string, date time.Time) dateResult {
	dateStr := date.Format(dateLayout)

	var res dateResult
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, sc := range scrapers {
		wg.Add(1)
		go func(sc scraper.Scraper) {
			defer wg.Done()

			var flights []scraper.Flight
			err := s.retry.Do(func() error {
				var ferr error
				flights, ferr = sc.Fetch(ctx, params.Origin, params.Destination, dateStr)
				return ferr
			})

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				s.logger.Warn("Scrape failed",
					"source", sc.Source(), "date", dateStr, "error", err)
				s.metrics.ScrapeAttempts.WithLabelValues(sc.Source(), "failed").Inc()
				res.errors++
				if sc.Source() == entity.SourceCitilink && scraper.IsAuth(err) {
					res.authFailed = true
				}
				res.quotes = append(res.quotes, failedQuote(runID, route, sc, date, err))
				return
			}

			s.metrics.ScrapeAttempts.WithLabelValues(sc.Source(), "success").Inc()
			for _, f := range flights {
				res.quotes = append(res.quotes, normalizeFlight(runID, route, sc, date, f))
			}
		}(sc)
	}

	wg.Wait()
	return res
}

// normalizeFlight converts one parsed flight into the canonical quote
// record shape.
func normalizeFlight(runID, route string, sc scraper.Scraper, requested time.Time, f scraper.Flight) entity.FlightQuote {
	travelDate, err := time.Parse(dateLayout, f.TravelDate)
	if err != nil {
		travelDate = requested
	}

	departTime := f.DepartTime
	if departTime == "" {
		departTime = "-"
	}
	arriveTime := f.ArriveTime
	if arriveTime == "" {
		arriveTime = "-"
	}

	return entity.FlightQuote{
		RunID:        runID,
		Route:        route,
		Airline:      f.Airline,
		Source:       sc.Source(),
		TravelDate:   travelDate,
		FlightNumber: f.FlightNumber,
		DepartTime:   departTime,
		ArriveTime:   arriveTime,
		Fare:         f.Fare,
		Currency:     "IDR",
		SourcePage:   sc.SourcePage(),
		FareLabel:    f.FareLabel,
		Status:       entity.QuoteSuccess,
	}
}

// failedQuote is the single FAILED record produced for a (date, source)
// pair whose call did not recover within the retry budget.
func failedQuote(runID, route string, sc scraper.Scraper, date time.Time, err error) entity.FlightQuote {
	return entity.FlightQuote{
		RunID:        runID,
		Route:        route,
		Airline:      "-",
		Source:       sc.Source(),
		TravelDate:   date,
		FlightNumber: "-",
		DepartTime:   "-",
		ArriveTime:   "-",
		Currency:     "IDR",
		SourcePage:   sc.SourcePage(),
		Status:       entity.QuoteFailed,
		ErrorReason:  err.Error(),
	}
}

// fillSourceDates counts, per source, the distinct travel dates that
// produced at least one successful quote.
func fillSourceDates(stats map[string]*SourceStats, quotes []entity.FlightQuote) {
	seen := make(map[string]map[string]bool, len(stats))
	for src := range stats {
		seen[src] = make(map[string]bool)
	}
	for _, q := range quotes {
		if q.Status != entity.QuoteSuccess {
			continue
		}
		if dates, ok := seen[q.Source]; ok {
			dates[q.TravelDate.Format(dateLayout)] = true
		}
	}
	for src, st := range stats {
		st.TotalDates = len(seen[src])
	}
}

func (s *ScrapeService) reportProgress(ref *ProgressRef, route string, datesProcessed, totalDates, totalRecords int) {
	overall := float64(ref.RouteIndex*totalDates+datesProcessed) /
		float64(ref.TotalRoutes*totalDates) * 100

	s.tracker.Set(entity.JobProgress{
		JobID:          ref.JobID,
		Status:         entity.JobRunning,
		Progress:       math.Round(overall*10) / 10,
		CurrentRoute:   route,
		RouteIndex:     ref.RouteIndex + 1,
		TotalRoutes:    ref.TotalRoutes,
		DatesProcessed: datesProcessed,
		TotalDates:     totalDates,
		TotalRecords:   totalRecords,
	})
}

// emitRunNotifications records the run-level outcome: success vs
// partial success, a credential-expired alert when the credentialed
// adapter saw an authentication failure, and a high-error-rate alert.
func (s *ScrapeService) emitRunNotifications(ctx context.Context, route string, totalRecords, totalErrors, totalAttempts int, authFailed bool) error {
	var outcome entity.Notification
	if totalErrors == 0 {
		outcome = entity.Notification{
			Type:    entity.NotifSuccess,
			Title:   fmt.Sprintf("Scraping Completed: %s", route),
			Message: fmt.Sprintf("Collected %d flight records for route %s.", totalRecords, route),
			Route:   route,
		}
	} else {
		outcome = entity.Notification{
			Type:    entity.NotifWarning,
			Title:   fmt.Sprintf("Scraping Completed (Partial): %s", route),
			Message: fmt.Sprintf("Finished with %d errors. Collected %d flight records.", totalErrors, totalRecords),
			Route:   route,
		}
	}
	if err := s.notifRepo.Insert(ctx, &outcome); err != nil {
		return fmt.Errorf("insert run notification: %w", err)
	}

	if authFailed {
		notif := entity.Notification{
			Type:    entity.NotifWarning,
			Title:   "Citilink Token Expired",
			Message: "The Citilink bearer token was rejected. Update the token in settings.",
		}
		if err := s.notifRepo.Insert(ctx, &notif); err != nil {
			return fmt.Errorf("insert credential notification: %w", err)
		}
	}

	if totalAttempts > 0 && float64(totalErrors)/float64(totalAttempts) > errorRateAlertThreshold {
		rate := float64(totalErrors) / float64(totalAttempts) * 100
		notif := entity.Notification{
			Type:  entity.NotifSystem,
			Title: fmt.Sprintf("High Error Rate: %s", route),
			Message: fmt.Sprintf("Error rate %.0f%% (%d/%d). Check connectivity or scraper configuration.",
				rate, totalErrors, totalAttempts),
			Route: route,
		}
		if err := s.notifRepo.Insert(ctx, &notif); err != nil {
			return fmt.Errorf("insert error-rate notification: %w", err)
		}
	}

	return nil
}

// enumerateDates expands the inclusive range into ordered calendar days.
func enumerateDates(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := dateOnly(start); !d.After(dateOnly(end)); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
