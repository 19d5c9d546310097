package persistence

import (
	"aerofare-service/internal/interface/repository"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewPostgresDB opens a PostgreSQL connection and migrates the schema
func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&repository.ScrapeRuns{},
		&repository.FlightFares{},
		&repository.FareDailySummaries{},
		&repository.Notifications{},
		&repository.AppSettings{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
