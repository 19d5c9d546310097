package entity

import "time"

// Setting keys used by the scheduler and the credentialed adapter.
const (
	SettingScheduleTime  = "schedule_time"
	SettingEndDate       = "end_date"
	SettingCitilinkToken = "citilink_token"
)

// AppSetting is a key-value configuration entry that persists across
// restarts.
type AppSetting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
