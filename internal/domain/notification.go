package domain

import (
	"context"
	"time"
)

// NotificationHistoryLimit caps the per-user notification history.
const NotificationHistoryLimit = 20

// DefaultReminderTime is used until the user picks one.
const DefaultReminderTime = "09:00"

// Notification is one delivered message kept in the user's history.
type Notification struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	Kind      EventKind `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationStore keeps a bounded, newest-first history per user.
type NotificationStore interface {
	AddNotification(ctx context.Context, n Notification, keep int) error
	ListNotifications(ctx context.Context, userID int64, limit int) ([]Notification, error)
}

// Settings are the per-user notification preferences.
type Settings struct {
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	RemindersEnabled     bool   `json:"remindersEnabled"`
	ReminderTime         string `json:"reminderTime"`
	// LastReminderDay is the local day (YYYY-MM-DD) of the last reminder sent.
	LastReminderDay string `json:"lastReminderDay,omitempty"`
}

// DefaultSettings returns the preferences of a user who never changed them.
func DefaultSettings() Settings {
	return Settings{
		NotificationsEnabled: true,
		RemindersEnabled:     false,
		ReminderTime:         DefaultReminderTime,
	}
}

// SettingsStore persists per-user settings as (userID, key) values.
// GetSettings returns DefaultSettings for a user with nothing stored.
type SettingsStore interface {
	GetSettings(ctx context.Context, userID int64) (Settings, error)
	SaveSettings(ctx context.Context, userID int64, s Settings) error
}
