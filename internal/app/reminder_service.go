package app

import (
	"context"
	"fmt"
	"time"

	"weighttracker/internal/domain"
	"weighttracker/internal/logger"
)

// NextReminder returns the next time at the "HH:MM" clock time in now's
// location: today if it has not passed yet, tomorrow otherwise.
func NextReminder(now time.Time, at string) (time.Time, error) {
	clock, err := time.Parse("15:04", at)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse reminder time %q: %w", at, err)
	}
	next := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next, nil
}

// ReminderDue reports whether a reminder should go out at now: reminders
// are on, today's reminder time has passed and none was sent today.
func ReminderDue(st domain.Settings, now time.Time) bool {
	if !st.NotificationsEnabled || !st.RemindersEnabled {
		return false
	}
	today := now.Format(domain.DateLayout)
	if st.LastReminderDay == today {
		return false
	}
	clock, err := time.Parse("15:04", st.ReminderTime)
	if err != nil {
		return false
	}
	due := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
	return !now.Before(due)
}

// ReminderService sends the daily weigh-in reminder.
type ReminderService struct {
	users      domain.UserRepository
	settings   domain.SettingsStore
	dispatcher domain.Dispatcher
	interval   time.Duration
	now        func() time.Time
}

// NewReminderService creates a ReminderService that checks every interval.
func NewReminderService(users domain.UserRepository, settings domain.SettingsStore, dispatcher domain.Dispatcher, interval time.Duration) *ReminderService {
	return &ReminderService{
		users:      users,
		settings:   settings,
		dispatcher: dispatcher,
		interval:   interval,
		now:        time.Now,
	}
}

// Run checks for due reminders until ctx is cancelled.
func (s *ReminderService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				logger.Error("reminder sweep failed", "err", err)
			}
		}
	}
}

// RunOnce sends every due reminder and returns how many were raised.
// The day is recorded before dispatch so a user gets at most one per day.
func (s *ReminderService) RunOnce(ctx context.Context) (int, error) {
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return 0, storeErr("list users", err)
	}
	now := s.now()
	sent := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		st, err := s.settings.GetSettings(ctx, id)
		if err != nil {
			logger.Warn("reminder settings unavailable", "user", id, "err", err)
			continue
		}
		if !ReminderDue(st, now) {
			continue
		}
		st.LastReminderDay = now.Format(domain.DateLayout)
		if err := s.settings.SaveSettings(ctx, id, st); err != nil {
			logger.Warn("reminder day not saved", "user", id, "err", err)
			continue
		}
		if err := s.dispatcher.Raise(ctx, domain.Event{Kind: domain.EventReminder, UserID: id}); err != nil {
			logger.Warn("reminder dispatch failed", "user", id, "err", err)
			continue
		}
		sent++
	}
	if sent > 0 {
		logger.Info("reminders sent", "count", sent)
	}
	return sent, nil
}

// WithClock replaces the time source, for tests.
func (s *ReminderService) WithClock(now func() time.Time) *ReminderService {
	s.now = now
	return s
}
