package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"weighttracker/internal/domain"
	"weighttracker/internal/logger"
)

var reminderMessages = []string{
	"Time to log your weight! Keep up the great work!",
	"Don't forget to track your progress today!",
	"Your daily weight check-in is waiting!",
	"Stay consistent - log your weight now!",
	"Track your progress and stay motivated!",
}

// ReminderMessage picks the reminder text for day, rotating daily.
func ReminderMessage(day time.Time) string {
	return reminderMessages[day.YearDay()%len(reminderMessages)]
}

// Compose renders the title and message shown for ev at now.
func Compose(ev domain.Event, now time.Time) (title, message string) {
	switch ev.Kind {
	case domain.EventGoalAchieved:
		return "Goal achieved!",
			fmt.Sprintf("Congratulations! You've reached your goal weight of %s kg!", domain.FormatWeight(ev.GoalWeight))
	case domain.EventMilestone:
		return fmt.Sprintf("%d kg lost!", ev.Milestone),
			fmt.Sprintf("You've lost %d kg! From %s kg to %s kg. Keep going!",
				ev.Milestone, domain.FormatWeight(ev.StartingWeight), domain.FormatWeight(ev.CurrentWeight))
	case domain.EventEncouragement:
		return "Keep it up!",
			fmt.Sprintf("You've logged %d entries. Consistency is what gets you there!", ev.EntryCount)
	case domain.EventWelcome:
		return "Welcome to WeightTracker!",
			"Push notifications are now enabled. We'll help keep you motivated!"
	default:
		return "Daily Weight Reminder", ReminderMessage(now)
	}
}

// NotificationService is the Dispatcher used by the app. It honors the
// user's notification switch and records delivered notifications.
type NotificationService struct {
	settings domain.SettingsStore
	history  domain.NotificationStore
	now      func() time.Time
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(settings domain.SettingsStore, history domain.NotificationStore) *NotificationService {
	return &NotificationService{settings: settings, history: history, now: time.Now}
}

var _ domain.Dispatcher = (*NotificationService)(nil)

// Raise records ev in the user's history unless notifications are off.
func (s *NotificationService) Raise(ctx context.Context, ev domain.Event) error {
	st, err := s.settings.GetSettings(ctx, ev.UserID)
	if err != nil {
		return storeErr("get settings", err)
	}
	if !st.NotificationsEnabled {
		logger.Debug("notifications disabled, skipping", "user", ev.UserID, "kind", ev.Kind)
		return nil
	}
	return s.deliver(ctx, ev)
}

func (s *NotificationService) deliver(ctx context.Context, ev domain.Event) error {
	now := s.now()
	title, message := Compose(ev, now)
	n := domain.Notification{
		ID:        uuid.NewString(),
		UserID:    ev.UserID,
		Kind:      ev.Kind,
		Title:     title,
		Message:   message,
		CreatedAt: now.UTC(),
	}
	if err := s.history.AddNotification(ctx, n, domain.NotificationHistoryLimit); err != nil {
		return storeErr("add notification", err)
	}
	logger.Info("notification sent", "user", ev.UserID, "kind", ev.Kind, "title", title)
	return nil
}

// History returns the user's most recent notifications, newest first.
func (s *NotificationService) History(ctx context.Context, userID int64) ([]domain.Notification, error) {
	list, err := s.history.ListNotifications(ctx, userID, domain.NotificationHistoryLimit)
	return list, storeErr("list notifications", err)
}

// WithClock replaces the time source, for tests.
func (s *NotificationService) WithClock(now func() time.Time) *NotificationService {
	s.now = now
	return s
}
