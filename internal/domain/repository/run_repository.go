package repository

import (
	"context"

	"aerofare-service/internal/domain/entity"
)

// RunRepository defines the interface for scrape run persistence
type RunRepository interface {
	Create(ctx context.Context, run *entity.ScrapeRun) error
	Complete(ctx context.Context, runID string, totalRecords, totalErrors int) error
}
