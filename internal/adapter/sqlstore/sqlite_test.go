package sqlstore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weighttracker/internal/domain"
)

func openSQLite(t *testing.T) *DB {
	t.Helper()
	db, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLite_EntryLifecycle(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	u, err := db.Create(ctx, "alice", "hash")
	require.NoError(t, err)
	starting, goal := 100.0, 80.0
	require.NoError(t, db.UpdateProfile(ctx, u.ID, domain.ProfilePatch{StartingWeight: &starting, GoalWeight: &goal}))

	id1, err := db.AddEntry(ctx, domain.WeightEntry{UserID: u.ID, Weight: 95, Date: "2024-03-02", Time: "08:00:00"})
	require.NoError(t, err)
	_, err = db.AddEntry(ctx, domain.WeightEntry{UserID: u.ID, Weight: 97, Date: "2024-03-01", Time: "08:00:00", Notes: "late log"})
	require.NoError(t, err)

	p, err := db.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Profile{UserID: u.ID, StartingWeight: 100, CurrentWeight: 95, GoalWeight: 80}, p)

	recent, err := db.ListRecentEntries(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, id1, recent[0].ID)

	require.NoError(t, db.DeleteEntry(ctx, u.ID, id1))
	p, _ = db.GetProfile(ctx, u.ID)
	assert.Equal(t, 97.0, p.CurrentWeight)

	n, err := db.EntryCount(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.ErrorIs(t, db.UpdateEntry(ctx, u.ID, id1, 90, "2024-03-03", "08:00:00"), domain.ErrNotFound)
	_, err = db.AddEntry(ctx, domain.WeightEntry{UserID: 999, Weight: 80, Date: "2024-03-01", Time: "08:00:00"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSQLite_MarkerClaimIsExclusive(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	u, err := db.Create(ctx, "bob", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	claims := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := db.Set(ctx, u.ID, "milestone_5")
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				claims++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, claims)

	set, err := db.IsSet(ctx, u.ID, "milestone_5")
	require.NoError(t, err)
	assert.True(t, set)
}

func TestSQLite_SettingsAndNotifications(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	u, err := db.Create(ctx, "carol", "")
	require.NoError(t, err)

	s, err := db.GetSettings(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), s)

	s.NotificationsEnabled = false
	s.LastReminderDay = "2024-03-15"
	require.NoError(t, db.SaveSettings(ctx, u.ID, s))
	got, err := db.GetSettings(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	base := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 23; i++ {
		require.NoError(t, db.AddNotification(ctx, domain.Notification{
			ID:        fmt.Sprintf("n-%02d", i),
			UserID:    u.ID,
			Kind:      domain.EventReminder,
			Title:     "Daily Weight Reminder",
			Message:   "log it",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}, domain.NotificationHistoryLimit))
	}
	list, err := db.ListNotifications(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, list, domain.NotificationHistoryLimit)
	assert.Equal(t, "n-22", list[0].ID)
	assert.True(t, list[0].CreatedAt.Equal(base.Add(22*time.Minute)))
}

func TestSQLite_DeleteUserCascades(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	u, err := db.Create(ctx, "dave", "hash")
	require.NoError(t, err)
	sessions := NewSessionRepo(db)

	_, err = db.AddEntry(ctx, domain.WeightEntry{UserID: u.ID, Weight: 80, Date: "2024-03-01", Time: "08:00:00"})
	require.NoError(t, err)
	_, err = db.Set(ctx, u.ID, "milestone_5")
	require.NoError(t, err)
	require.NoError(t, sessions.Create(ctx, u.ID, "tok", "ua", "127.0.0.1", time.Now().Add(time.Hour)))

	require.NoError(t, db.Delete(ctx, u.ID))
	assert.ErrorIs(t, db.Delete(ctx, u.ID), domain.ErrNotFound)

	n, _ := db.EntryCount(ctx, u.ID)
	assert.Zero(t, n)
	set, _ := db.IsSet(ctx, u.ID, "milestone_5")
	assert.False(t, set)
	s, err := sessions.GetByToken(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, s)
	gone, err := db.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSQLite_Sessions(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	u, err := db.Create(ctx, "erin", "hash")
	require.NoError(t, err)
	sessions := NewSessionRepo(db)

	require.NoError(t, sessions.Create(ctx, u.ID, "live", "ua", "10.0.0.1", time.Now().Add(time.Hour)))
	require.NoError(t, sessions.Create(ctx, u.ID, "stale", "ua", "10.0.0.1", time.Now().Add(-time.Hour)))
	require.NoError(t, sessions.DeleteExpired(ctx))

	live, err := sessions.GetByToken(ctx, "live")
	require.NoError(t, err)
	require.NotNil(t, live)
	assert.Equal(t, "10.0.0.1", live.IP)
	stale, err := sessions.GetByToken(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, stale)
}
