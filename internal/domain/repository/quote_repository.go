package repository

import (
	"context"

	"aerofare-service/internal/domain/entity"
)

// QuoteRepository defines the interface for flight quote persistence
type QuoteRepository interface {
	BulkInsert(ctx context.Context, quotes []entity.FlightQuote) error
	FindSuccessfulByRun(ctx context.Context, runID string) ([]entity.FlightQuote, error)
}
