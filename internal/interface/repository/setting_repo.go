package repository

import (
	"context"
	"errors"
	"time"

	"aerofare-service/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingRepository implements the SettingRepository interface
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GORM setting repository
func NewGormSettingRepository(db *gorm.DB) repository.SettingRepository {
	return &GormSettingRepository{
		db: db,
	}
}

// AppSettings GORM model for database mapping
type AppSettings struct {
	Key       string    `gorm:"column:key;primaryKey;size:100"`
	Value     string    `gorm:"column:value;type:text"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName overrides the default table name
func (AppSettings) TableName() string {
	return "app_settings"
}

// Get returns the stored value for key, or the empty string when unset
func (r *GormSettingRepository) Get(ctx context.Context, key string) (string, error) {
	var model AppSettings
	result := r.db.WithContext(ctx).Where("key = ?", key).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", result.Error
	}
	return model.Value, nil
}

// Put creates or updates a setting
func (r *GormSettingRepository) Put(ctx context.Context, key, value string) error {
	model := AppSettings{Key: key, Value: value, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&model).Error
}
