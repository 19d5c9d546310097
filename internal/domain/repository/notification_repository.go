package repository

import (
	"context"

	"aerofare-service/internal/domain/entity"
)

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	Insert(ctx context.Context, notif *entity.Notification) error
	List(ctx context.Context, limit int) ([]entity.Notification, error)
	MarkRead(ctx context.Context, id uint) error
	MarkAllRead(ctx context.Context) error
}
