package entity

import "time"

// Scrape outcome per (date, source) attempt
const (
	QuoteSuccess = "SUCCESS"
	QuoteFailed  = "FAILED"
)

// Fixed adapter identifiers
const (
	SourceGaruda    = "garuda_api"
	SourceCitilink  = "citilink_api"
	SourceBookCabin = "bookcabin_api"
)

// FlightQuote is one fare observation for one flight on one travel date
// from one source. A FAILED quote records a collection failure for the
// (travel date, source) pair instead of parsed fare data.
type FlightQuote struct {
	ID           uint
	RunID        string
	Route        string // "BTH-CGK"
	Airline      string
	Source       string // garuda_api / citilink_api / bookcabin_api
	TravelDate   time.Time
	FlightNumber string
	DepartTime   string // "17:40", "-" when unknown
	ArriveTime   string
	Fare         float64
	Currency     string
	SourcePage   string // upstream endpoint URL
	FareLabel    string // fare family label, may be empty
	Status       string // SUCCESS / FAILED
	ErrorReason  string // set iff Status == FAILED
	IsLowestFare bool
	CreatedAt    time.Time
}
