package entity

import "time"

// Notification types
const (
	NotifSuccess    = "success"
	NotifWarning    = "warning"
	NotifPriceAlert = "price_alert"
	NotifSystem     = "system"
)

// Notification is a run-level or analytics-level event surfaced to users.
type Notification struct {
	ID          uint
	Type        string
	Title       string
	Message     string
	Route       string
	PriceChange float64
	Read        bool
	CreatedAt   time.Time
}
