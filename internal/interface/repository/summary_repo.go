package repository

import (
	"context"
	"errors"
	"time"

	"aerofare-service/internal/domain/entity"
	"aerofare-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormSummaryRepository implements the SummaryRepository interface
type GormSummaryRepository struct {
	db *gorm.DB
}

// NewGormSummaryRepository creates a new GORM summary repository
func NewGormSummaryRepository(db *gorm.DB) repository.SummaryRepository {
	return &GormSummaryRepository{
		db: db,
	}
}

// FareDailySummaries GORM model for database mapping
type FareDailySummaries struct {
	ID              uint      `gorm:"primaryKey"`
	Route           string    `gorm:"column:route;size:10;index:idx_fare_summary_route_date"`
	Airline         string    `gorm:"column:airline;size:50"`
	TravelDate      time.Time `gorm:"column:travel_date;index:idx_fare_summary_route_date"`
	ScrapeDate      time.Time `gorm:"column:scrape_date;index"`
	MinPrice        float64   `gorm:"column:daily_min_price"`
	AvgPrice        float64   `gorm:"column:daily_avg_price"`
	MaxPrice        float64   `gorm:"column:daily_max_price"`
	PriceChangeDOD  *float64  `gorm:"column:price_change_dod"`
	Volatility      float64   `gorm:"column:volatility"`
	CheapestAirline string    `gorm:"column:cheapest_airline_per_day;size:50"`
	CheapestRoute   string    `gorm:"column:cheapest_route_per_day;size:10"`
}

// TableName overrides the default table name
func (FareDailySummaries) TableName() string {
	return "fare_daily_summaries"
}

// Insert persists one daily summary row
func (r *GormSummaryRepository) Insert(ctx context.Context, summary *entity.DailySummary) error {
	model := FareDailySummaries{
		Route:           summary.Route,
		Airline:         summary.Airline,
		TravelDate:      summary.TravelDate,
		ScrapeDate:      summary.ScrapeDate,
		MinPrice:        summary.MinPrice,
		AvgPrice:        summary.AvgPrice,
		MaxPrice:        summary.MaxPrice,
		PriceChangeDOD:  summary.PriceChangeDOD,
		Volatility:      summary.Volatility,
		CheapestAirline: summary.CheapestAirline,
		CheapestRoute:   summary.CheapestRoute,
	}

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		return result.Error
	}
	summary.ID = model.ID
	return nil
}

// FindPrior returns the most recent summary observed strictly before
// the given date, or nil when none exists
func (r *GormSummaryRepository) FindPrior(ctx context.Context, route, airline string, travelDate, before time.Time) (*entity.DailySummary, error) {
	var model FareDailySummaries
	result := r.db.WithContext(ctx).
		Where("route = ? AND airline = ? AND travel_date = ? AND scrape_date < ?",
			route, airline, travelDate, before).
		Order("scrape_date DESC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return &entity.DailySummary{
		ID:              model.ID,
		Route:           model.Route,
		Airline:         model.Airline,
		TravelDate:      model.TravelDate,
		ScrapeDate:      model.ScrapeDate,
		MinPrice:        model.MinPrice,
		AvgPrice:        model.AvgPrice,
		MaxPrice:        model.MaxPrice,
		PriceChangeDOD:  model.PriceChangeDOD,
		Volatility:      model.Volatility,
		CheapestAirline: model.CheapestAirline,
		CheapestRoute:   model.CheapestRoute,
	}, nil
}
