package entity

import "time"

// DailySummary is the derived per (route, airline, travel date,
// observation date) aggregate over a completed run's successful quotes.
// PriceChangeDOD is nil when no strictly earlier summary exists for the
// same (route, airline, travel date).
type DailySummary struct {
	ID              uint
	Route           string
	Airline         string
	TravelDate      time.Time
	ScrapeDate      time.Time
	MinPrice        float64
	AvgPrice        float64
	MaxPrice        float64
	PriceChangeDOD  *float64
	Volatility      float64 // sample stddev, 0 with a single observation
	CheapestAirline string  // cheapest airline for the travel date across the run
	CheapestRoute   string
}
