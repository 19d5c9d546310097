package repository

import (
	"context"
	"time"

	"aerofare-service/internal/domain/entity"
	"aerofare-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormQuoteRepository implements the QuoteRepository interface
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GORM quote repository
func NewGormQuoteRepository(db *gorm.DB) repository.QuoteRepository {
	return &GormQuoteRepository{
		db: db,
	}
}

// FlightFares GORM model for database mapping
type FlightFares struct {
	ID           uint      `gorm:"primaryKey"`
	RunID        string    `gorm:"column:run_id;size:50;index"`
	Route        string    `gorm:"column:route;size:10;index:idx_flight_fares_route_date"`
	Airline      string    `gorm:"column:airline;size:50;index"`
	Source       string    `gorm:"column:source;size:30"`
	TravelDate   time.Time `gorm:"column:travel_date;index:idx_flight_fares_route_date"`
	FlightNumber string    `gorm:"column:flight_number;size:10"`
	DepartTime   string    `gorm:"column:depart_time;size:5"`
	ArriveTime   string    `gorm:"column:arrive_time;size:5"`
	Fare         float64   `gorm:"column:basic_fare"`
	Currency     string    `gorm:"column:currency;size:3;default:IDR"`
	SourcePage   string    `gorm:"column:scrape_source_page;size:100"`
	FareLabel    string    `gorm:"column:raw_price_label;size:50"`
	Status       string    `gorm:"column:status_scrape;size:10;default:SUCCESS"`
	ErrorReason  string    `gorm:"column:error_reason;type:text"`
	IsLowestFare bool      `gorm:"column:is_lowest_fare;default:false"`
	CreatedAt    time.Time
}

// TableName overrides the default table name
func (FlightFares) TableName() string {
	return "flight_fares"
}

// BulkInsert persists all quotes of a run in batches
func (r *GormQuoteRepository) BulkInsert(ctx context.Context, quotes []entity.FlightQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	models := make([]FlightFares, 0, len(quotes))
	for _, q := range quotes {
		models = append(models, FlightFares{
			RunID:        q.RunID,
			Route:        q.Route,
			Airline:      q.Airline,
			Source:       q.Source,
			TravelDate:   q.TravelDate,
			FlightNumber: q.FlightNumber,
			DepartTime:   q.DepartTime,
			ArriveTime:   q.ArriveTime,
			Fare:         q.Fare,
			Currency:     q.Currency,
			SourcePage:   q.SourcePage,
			FareLabel:    q.FareLabel,
			Status:       q.Status,
			ErrorReason:  q.ErrorReason,
			IsLowestFare: q.IsLowestFare,
		})
	}

	return r.db.WithContext(ctx).CreateInBatches(models, 200).Error
}

// FindSuccessfulByRun returns the SUCCESS quotes of one run
func (r *GormQuoteRepository) FindSuccessfulByRun(ctx context.Context, runID string) ([]entity.FlightQuote, error) {
	var models []FlightFares
	result := r.db.WithContext(ctx).
		Where("run_id = ? AND status_scrape = ?", runID, entity.QuoteSuccess).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	quotes := make([]entity.FlightQuote, 0, len(models))
	for _, m := range models {
		quotes = append(quotes, entity.FlightQuote{
			ID:           m.ID,
			RunID:        m.RunID,
			Route:        m.Route,
			Airline:      m.Airline,
			Source:       m.Source,
			TravelDate:   m.TravelDate,
			FlightNumber: m.FlightNumber,
			DepartTime:   m.DepartTime,
			ArriveTime:   m.ArriveTime,
			Fare:         m.Fare,
			Currency:     m.Currency,
			SourcePage:   m.SourcePage,
			FareLabel:    m.FareLabel,
			Status:       m.Status,
			ErrorReason:  m.ErrorReason,
			IsLowestFare: m.IsLowestFare,
			CreatedAt:    m.CreatedAt,
		})
	}
	return quotes, nil
}
