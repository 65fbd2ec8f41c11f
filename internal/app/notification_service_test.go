package app_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"weighttracker/internal/adapter/memory"
	"weighttracker/internal/app"
	"weighttracker/internal/domain"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		ev    domain.Event
		title string
		msg   string
	}{
		{domain.Event{Kind: domain.EventGoalAchieved, GoalWeight: 70}, "Goal achieved!", "goal weight of 70.0 kg"},
		{domain.Event{Kind: domain.EventMilestone, Milestone: 10, StartingWeight: 100, CurrentWeight: 89.5}, "10 kg lost!", "From 100.0 kg to 89.5 kg"},
		{domain.Event{Kind: domain.EventEncouragement, EntryCount: 30}, "Keep it up!", "30 entries"},
		{domain.Event{Kind: domain.EventWelcome}, "Welcome to WeightTracker!", "now enabled"},
		{domain.Event{Kind: domain.EventReminder}, "Daily Weight Reminder", ""},
	}
	for _, tc := range tests {
		t.Run(string(tc.ev.Kind), func(t *testing.T) {
			title, msg := app.Compose(tc.ev, fixedNow)
			if title != tc.title {
				t.Errorf("expected title %q, got %q", tc.title, title)
			}
			if !strings.Contains(msg, tc.msg) {
				t.Errorf("expected message to contain %q, got %q", tc.msg, msg)
			}
		})
	}
}

func TestReminderMessageRotates(t *testing.T) {
	a := app.ReminderMessage(fixedNow)
	b := app.ReminderMessage(fixedNow.AddDate(0, 0, 1))
	if a == b {
		t.Errorf("expected different messages on consecutive days, got %q", a)
	}
}

func TestNotificationService_Raise(t *testing.T) {
	db := memory.New()
	ctx := context.Background()
	svc := app.NewNotificationService(db, db).WithClock(clock)

	if err := svc.Raise(ctx, domain.Event{Kind: domain.EventMilestone, UserID: 1, Milestone: 5}); err != nil {
		t.Fatalf("Raise: %v", err)
	}
	list, err := svc.History(ctx, 1)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(list))
	}
	n := list[0]
	if n.ID == "" || n.Kind != domain.EventMilestone || !n.CreatedAt.Equal(fixedNow.UTC()) {
		t.Errorf("unexpected notification %+v", n)
	}

	// Disabled notifications are neither delivered nor recorded.
	off := domain.DefaultSettings()
	off.NotificationsEnabled = false
	_ = db.SaveSettings(ctx, 1, off)
	if err := svc.Raise(ctx, domain.Event{Kind: domain.EventGoalAchieved, UserID: 1, GoalWeight: 70}); err != nil {
		t.Fatalf("Raise: %v", err)
	}
	if list, _ := svc.History(ctx, 1); len(list) != 1 {
		t.Errorf("expected history unchanged, got %d", len(list))
	}
}

func TestNotificationService_HistoryCapped(t *testing.T) {
	db := memory.New()
	ctx := context.Background()
	tick := fixedNow
	svc := app.NewNotificationService(db, db).WithClock(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	})

	for i := 0; i < 25; i++ {
		_ = svc.Raise(ctx, domain.Event{Kind: domain.EventEncouragement, UserID: 1, EntryCount: (i + 1) * 10})
	}
	list, _ := svc.History(ctx, 1)
	if len(list) != domain.NotificationHistoryLimit {
		t.Fatalf("expected %d notifications, got %d", domain.NotificationHistoryLimit, len(list))
	}
	if !strings.Contains(list[0].Message, "250 entries") {
		t.Errorf("expected newest first, got %q", list[0].Message)
	}
}
