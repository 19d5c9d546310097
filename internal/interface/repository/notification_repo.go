package repository

import (
	"context"
	"time"

	"aerofare-service/internal/domain/entity"
	"aerofare-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormNotificationRepository implements the NotificationRepository interface
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM notification repository
func NewGormNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &GormNotificationRepository{
		db: db,
	}
}

// Notifications GORM model for database mapping
type Notifications struct {
	ID          uint      `gorm:"primaryKey"`
	Type        string    `gorm:"column:type;size:20"`
	Title       string    `gorm:"column:title;size:200"`
	Message     string    `gorm:"column:message;type:text"`
	Route       string    `gorm:"column:route;size:10"`
	PriceChange float64   `gorm:"column:price_change"`
	Read        bool      `gorm:"column:read;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
}

// TableName overrides the default table name
func (Notifications) TableName() string {
	return "notifications"
}

// Insert persists one notification
func (r *GormNotificationRepository) Insert(ctx context.Context, notif *entity.Notification) error {
	model := Notifications{
		Type:        notif.Type,
		Title:       notif.Title,
		Message:     notif.Message,
		Route:       notif.Route,
		PriceChange: notif.PriceChange,
	}

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		return result.Error
	}
	notif.ID = model.ID
	notif.CreatedAt = model.CreatedAt
	return nil
}

// List returns the most recent notifications
func (r *GormNotificationRepository) List(ctx context.Context, limit int) ([]entity.Notification, error) {
	var models []Notifications
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	notifs := make([]entity.Notification, 0, len(models))
	for _, m := range models {
		notifs = append(notifs, entity.Notification{
			ID:          m.ID,
			Type:        m.Type,
			Title:       m.Title,
			Message:     m.Message,
			Route:       m.Route,
			PriceChange: m.PriceChange,
			Read:        m.Read,
			CreatedAt:   m.CreatedAt,
		})
	}
	return notifs, nil
}

// MarkRead marks one notification as read
func (r *GormNotificationRepository) MarkRead(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&Notifications{}).
		Where("id = ?", id).
		Update("read", true).Error
}

// MarkAllRead marks every unread notification as read
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context) error {
	return r.db.WithContext(ctx).Model(&Notifications{}).
		Where("read = ?", false).
		Update("read", true).Error
}
