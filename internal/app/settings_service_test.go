package app_test

import (
	"context"
	"testing"

	"weighttracker/internal/adapter/memory"
	"weighttracker/internal/app"
	"weighttracker/internal/domain"
)

func boolPtr(b bool) *bool        { return &b }
func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestSettingsService_Update(t *testing.T) {
	db := memory.New()
	d := &recordingDispatcher{}
	svc := app.NewSettingsService(db, d)
	ctx := context.Background()

	st, err := svc.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !st.NotificationsEnabled || st.RemindersEnabled || st.ReminderTime != "09:00" {
		t.Errorf("unexpected defaults %+v", st)
	}

	st, err = svc.Update(ctx, 1, app.SettingsUpdate{RemindersEnabled: boolPtr(true), ReminderTime: strPtr("07:30")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !st.RemindersEnabled || st.ReminderTime != "07:30" {
		t.Errorf("expected update applied, got %+v", st)
	}
	if len(d.kinds()) != 0 {
		t.Errorf("expected no welcome while already enabled, got %v", d.kinds())
	}

	_, _ = svc.Update(ctx, 1, app.SettingsUpdate{NotificationsEnabled: boolPtr(false)})
	_, _ = svc.Update(ctx, 1, app.SettingsUpdate{NotificationsEnabled: boolPtr(true)})
	if got := d.kinds(); len(got) != 1 || got[0] != domain.EventWelcome {
		t.Errorf("expected welcome on enable, got %v", got)
	}
}

func TestSettingsService_RejectsBadTime(t *testing.T) {
	svc := app.NewSettingsService(memory.New(), &recordingDispatcher{})
	if _, err := svc.Update(context.Background(), 1, app.SettingsUpdate{ReminderTime: strPtr("9am")}); !domain.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}
