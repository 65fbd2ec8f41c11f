package app

import (
	"context"
	"time"

	"weighttracker/internal/domain"
	"weighttracker/internal/logger"
)

// SettingsUpdate carries the fields a user may change. Nil fields are kept.
type SettingsUpdate struct {
	NotificationsEnabled *bool   `json:"notificationsEnabled"`
	RemindersEnabled     *bool   `json:"remindersEnabled"`
	ReminderTime         *string `json:"reminderTime"`
}

// SettingsService manages notification preferences.
type SettingsService struct {
	store      domain.SettingsStore
	dispatcher domain.Dispatcher
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(store domain.SettingsStore, dispatcher domain.Dispatcher) *SettingsService {
	return &SettingsService{store: store, dispatcher: dispatcher}
}

// Get returns the user's settings.
func (s *SettingsService) Get(ctx context.Context, userID int64) (domain.Settings, error) {
	st, err := s.store.GetSettings(ctx, userID)
	return st, storeErr("get settings", err)
}

// Update applies u. Switching notifications on raises a welcome notification.
func (s *SettingsService) Update(ctx context.Context, userID int64, u SettingsUpdate) (domain.Settings, error) {
	st, err := s.store.GetSettings(ctx, userID)
	if err != nil {
		return st, storeErr("get settings", err)
	}
	wasEnabled := st.NotificationsEnabled

	if u.ReminderTime != nil {
		if _, err := time.Parse("15:04", *u.ReminderTime); err != nil {
			return st, domain.Invalid("reminderTime", "must be HH:MM")
		}
		if *u.ReminderTime != st.ReminderTime {
			// A new time may fall later today.
			st.LastReminderDay = ""
		}
		st.ReminderTime = *u.ReminderTime
	}
	if u.NotificationsEnabled != nil {
		st.NotificationsEnabled = *u.NotificationsEnabled
	}
	if u.RemindersEnabled != nil {
		st.RemindersEnabled = *u.RemindersEnabled
	}

	if err := s.store.SaveSettings(ctx, userID, st); err != nil {
		return st, storeErr("save settings", err)
	}

	if !wasEnabled && st.NotificationsEnabled {
		if err := s.dispatcher.Raise(ctx, domain.Event{Kind: domain.EventWelcome, UserID: userID}); err != nil {
			logger.Warn("welcome notification failed", "user", userID, "err", err)
		}
	}
	return st, nil
}
