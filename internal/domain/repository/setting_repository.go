package repository

import "context"

// SettingRepository defines the interface for persisted key-value
// application settings. Get returns the empty string when the key is
// unset; callers apply their own defaults.
type SettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
}
