package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"aerofare-service/pkg/logger"
)

// Per-request timeout applied by every adapter.
const requestTimeout = 15 * time.Second

// Placeholder substituted for absent optional fields (arrival time,
// departure time) instead of failing the whole batch.
const timePlaceholder = "-"

// Flight is the canonical parsed shape every adapter produces,
// regardless of the upstream payload structure.
type Flight struct {
	Route        string
	Airline      string
	FlightNumber string
	TravelDate   string // YYYY-MM-DD
	DepartTime   string // HH:MM
	ArriveTime   string // HH:MM, "-" when unknown
	Fare         float64
	FareLabel    string // fare family label, empty when the source has none
}

// Scraper fetches raw pricing data from one external API and parses it
// into canonical flights. A "no availability" signal from the upstream
// yields an empty slice and a nil error, not a failure.
type Scraper interface {
	Source() string
	SourcePage() string
	Fetch(ctx context.Context, origin, destination, travelDate string) ([]Flight, error)
}

// ErrKind classifies a FetchError for retry and alerting decisions.
type ErrKind string

const (
	// KindTransient covers timeouts, connection errors and unexpected
	// upstream statuses. Eligible for one retry.
	KindTransient ErrKind = "transient"
	// KindAuth means the upstream rejected the credential. Never retried.
	KindAuth ErrKind = "auth"
	// KindParse means the response body did not match the expected
	// shape. Never retried.
	KindParse ErrKind = "parse"
)

// FetchError is the typed failure of one adapter call.
type FetchError struct {
	Source     string
	Kind       ErrKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s failure (status %d): %v", e.Source, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s failure: %v", e.Source, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a FetchError eligible for retry.
func IsTransient(err error) bool {
	fe, ok := err.(*FetchError)
	return ok && fe.Kind == KindTransient
}

// IsAuth reports whether err is a credential-rejection FetchError.
func IsAuth(err error) bool {
	fe, ok := err.(*FetchError)
	return ok && fe.Kind == KindAuth
}

// statusError classifies a non-2xx upstream response. 401/403 mean the
// credential was rejected; everything else is treated as transient.
func statusError(source string, status int) *FetchError {
	kind := KindTransient
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		kind = KindAuth
	}
	return &FetchError{
		Source:     source,
		Kind:       kind,
		StatusCode: status,
		Err:        fmt.Errorf("unexpected status %d", status),
	}
}

func transientError(source string, err error) *FetchError {
	return &FetchError{Source: source, Kind: KindTransient, Err: err}
}

func parseFailure(source string, err error) *FetchError {
	return &FetchError{Source: source, Kind: KindParse, Err: err}
}

// Provider yields the adapters eligible for one run.
type Provider interface {
	Eligible(credential string) []Scraper
}

// SourceSet is the default Provider over the three production adapters.
type SourceSet struct {
	garuda    Scraper
	bookcabin Scraper
	logger    logger.Logger
}

// NewSourceSet creates the default adapter set
func NewSourceSet(log logger.Logger) *SourceSet {
	return &SourceSet{
		garuda:    NewGarudaScraper(log),
		bookcabin: NewBookCabinScraper(log),
		logger:    log,
	}
}

// Eligible returns the adapters that can run with the supplied
// credential. Citilink requires a bearer token and is skipped entirely
// when none is available; the caller must not count the skip as a
// failure.
func (s *SourceSet) Eligible(credential string) []Scraper {
	scrapers := []Scraper{s.garuda, s.bookcabin}
	if credential != "" {
		scrapers = append(scrapers, NewCitilinkScraper(credential, s.logger))
	}
	return scrapers
}

// clipTime extracts "HH:MM" from an ISO datetime such as
// "2026-02-15T19:30:00.000+07:00", falling back to the placeholder.
func clipTime(iso string) string {
	if len(iso) >= 16 {
		return iso[11:16]
	}
	return timePlaceholder
}

// clipDate extracts "YYYY-MM-DD" from an ISO datetime.
func clipDate(iso string) string {
	if len(iso) >= 10 {
		return iso[:10]
	}
	return timePlaceholder
}
