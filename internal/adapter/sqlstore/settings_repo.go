package sqlstore

import (
	"context"
	"database/sql"
	"strconv"

	"weighttracker/internal/domain"
)

var _ domain.SettingsStore = (*DB)(nil)

// Setting names in user_settings.
const (
	settingNotificationsEnabled = "notifications_enabled"
	settingRemindersEnabled     = "reminders_enabled"
	settingReminderTime         = "reminder_time"
	settingLastReminderDay      = "last_reminder_day"
)

// GetSettings returns the user's settings, with defaults for unset names.
func (d *DB) GetSettings(ctx context.Context, userID int64) (domain.Settings, error) {
	s := domain.DefaultSettings()
	rows, err := d.sql.QueryContext(ctx, d.q("SELECT name, value FROM user_settings WHERE user_id = ?"), userID)
	if err != nil {
		return s, err
	}
	defer rows.Close()
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return s, err
		}
		switch name {
		case settingNotificationsEnabled:
			s.NotificationsEnabled, _ = strconv.ParseBool(value)
		case settingRemindersEnabled:
			s.RemindersEnabled, _ = strconv.ParseBool(value)
		case settingReminderTime:
			s.ReminderTime = value
		case settingLastReminderDay:
			s.LastReminderDay = value
		}
	}
	return s, rows.Err()
}

// SaveSettings upserts every setting in one transaction.
func (d *DB) SaveSettings(ctx context.Context, userID int64, s domain.Settings) error {
	values := [][2]string{
		{settingNotificationsEnabled, strconv.FormatBool(s.NotificationsEnabled)},
		{settingRemindersEnabled, strconv.FormatBool(s.RemindersEnabled)},
		{settingReminderTime, s.ReminderTime},
		{settingLastReminderDay, s.LastReminderDay},
	}
	return d.inTx(ctx, func(tx *sql.Tx) error {
		for _, kv := range values {
			if _, err := tx.ExecContext(ctx,
				d.q("INSERT INTO user_settings (user_id, name, value) VALUES (?, ?, ?) ON CONFLICT (user_id, name) DO UPDATE SET value = excluded.value"),
				userID, kv[0], kv[1]); err != nil {
				return err
			}
		}
		return nil
	})
}
