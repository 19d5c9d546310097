package repository

import (
	"context"
	"time"

	"aerofare-service/internal/domain/entity"
	"aerofare-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormRunRepository implements the RunRepository interface
type GormRunRepository struct {
	db *gorm.DB
}

// NewGormRunRepository creates a new GORM run repository
func NewGormRunRepository(db *gorm.DB) repository.RunRepository {
	return &GormRunRepository{
		db: db,
	}
}

// ScrapeRuns GORM model for database mapping
type ScrapeRuns struct {
	ID           uint      `gorm:"primaryKey"`
	RunID        string    `gorm:"column:run_id;size:50;uniqueIndex"`
	RunType      string    `gorm:"column:run_type;size:10;default:MANUAL"`
	ScrapedAt    time.Time `gorm:"column:scraped_at;autoCreateTime"`
	ScrapeDate   time.Time `gorm:"column:scrape_date;index"`
	Route        string    `gorm:"column:route;size:10"`
	Status       string    `gorm:"column:status;size:10;default:RUNNING"`
	TotalRecords int       `gorm:"column:total_records;default:0"`
	TotalErrors  int       `gorm:"column:total_errors;default:0"`
}

// TableName overrides the default table name
func (ScrapeRuns) TableName() string {
	return "scrape_runs"
}

// Create inserts a new run in RUNNING state
func (r *GormRunRepository) Create(ctx context.Context, run *entity.ScrapeRun) error {
	model := ScrapeRuns{
		RunID:        run.RunID,
		RunType:      run.RunType,
		ScrapeDate:   run.ScrapeDate,
		Route:        run.Route,
		Status:       run.Status,
		TotalRecords: run.TotalRecords,
		TotalErrors:  run.TotalErrors,
	}

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		return result.Error
	}

	run.ID = model.ID
	run.ScrapedAt = model.ScrapedAt
	return nil
}

// Complete marks a run COMPLETED with its final counts
func (r *GormRunRepository) Complete(ctx context.Context, runID string, totalRecords, totalErrors int) error {
	return r.db.WithContext(ctx).Model(&ScrapeRuns{}).
		Where("run_id = ?", runID).
		Updates(map[string]interface{}{
			"status":        entity.RunCompleted,
			"total_records": totalRecords,
			"total_errors":  totalErrors,
		}).Error
}
