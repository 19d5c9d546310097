package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"aerofare-service/internal/domain/entity"
	"aerofare-service/internal/domain/repository"
	"aerofare-service/pkg/logger"
)

// SettingsService reads and validates the persisted key-value
// application settings, applying fixed defaults when a key is unset.
type SettingsService struct {
	repo                repository.SettingRepository
	defaultScheduleTime string
	defaultEndDate      string
	defaultToken        string
	logger              logger.Logger
}

// NewSettingsService creates a settings service with the given defaults
func NewSettingsService(repo repository.SettingRepository, defaultScheduleTime, defaultEndDate, defaultToken string, log logger.Logger) *SettingsService {
	return &SettingsService{
		repo:                repo,
		defaultScheduleTime: defaultScheduleTime,
		defaultEndDate:      defaultEndDate,
		defaultToken:        defaultToken,
		logger:              log,
	}
}

// ScheduleTime returns the configured daily schedule as (hour, minute)
func (s *SettingsService) ScheduleTime(ctx context.Context) (int, int, error) {
	value, err := s.repo.Get(ctx, entity.SettingScheduleTime)
	if err != nil {
		return 0, 0, fmt.Errorf("read schedule time: %w", err)
	}
	if value == "" {
		value = s.defaultScheduleTime
	}

	hour, minute, err := parseScheduleTime(value)
	if err != nil {
		s.logger.Warn("Invalid schedule_time setting, using default", "value", value)
		return parseScheduleTime(s.defaultScheduleTime)
	}
	return hour, minute, nil
}

// HorizonEndDate returns the configured horizon end date
func (s *SettingsService) HorizonEndDate(ctx context.Context) (time.Time, error) {
	value, err := s.repo.Get(ctx, entity.SettingEndDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("read end date: %w", err)
	}
	if value == "" {
		value = s.defaultEndDate
	}

	endDate, err := time.Parse(dateLayout, value)
	if err != nil {
		s.logger.Warn("Invalid end_date setting, using default", "value", value)
		return time.Parse(dateLayout, s.defaultEndDate)
	}
	return endDate, nil
}

// Credential returns the stored Citilink bearer token, which may be empty
func (s *SettingsService) Credential(ctx context.Context) (string, error) {
	value, err := s.repo.Get(ctx, entity.SettingCitilinkToken)
	if err != nil {
		return "", fmt.Errorf("read credential: %w", err)
	}
	if value == "" {
		value = s.defaultToken
	}
	return value, nil
}

// Get returns the raw stored value for a key
func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	return s.repo.Get(ctx, key)
}

// Put validates and stores a setting
func (s *SettingsService) Put(ctx context.Context, key, value string) error {
	switch key {
	case entity.SettingScheduleTime:
		if _, _, err := parseScheduleTime(value); err != nil {
			return fmt.Errorf("invalid schedule time %q: %w", value, err)
		}
	case entity.SettingEndDate:
		if _, err := time.Parse(dateLayout, value); err != nil {
			return fmt.Errorf("invalid end date %q: %w", value, err)
		}
	}
	return s.repo.Put(ctx, key, value)
}

// parseScheduleTime parses "HH:MM" into hour and minute.
func parseScheduleTime(value string) (int, int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour %q", parts[0])
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute %q", parts[1])
	}
	return hour, minute, nil
}
