package repository

import (
	"context"
	"time"

	"aerofare-service/internal/domain/entity"
)

// SummaryRepository defines the interface for daily summary persistence
type SummaryRepository interface {
	Insert(ctx context.Context, summary *entity.DailySummary) error
	// FindPrior returns the most recent summary for (route, airline,
	// travelDate) observed strictly before the given date, or nil when
	// none exists.
	FindPrior(ctx context.Context, route, airline string, travelDate, before time.Time) (*entity.DailySummary, error)
}
