package entity

import "time"

// Run kinds
const (
	RunManual    = "MANUAL"
	RunScheduled = "SCHEDULED"
)

// Run lifecycle states
const (
	RunRunning   = "RUNNING"
	RunCompleted = "COMPLETED"
)

// ScrapeRun is the metadata for one orchestrator invocation over one
// route and date range. ScrapeDate is the observation date (the day the
// collection executed), distinct from the travel dates being priced.
type ScrapeRun struct {
	ID           uint
	RunID        string // UUID
	RunType      string // MANUAL / SCHEDULED
	ScrapedAt    time.Time
	ScrapeDate   time.Time
	Route        string
	Status       string // RUNNING / COMPLETED
	TotalRecords int
	TotalErrors  int
}
