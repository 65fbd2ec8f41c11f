package sqlstore

import (
	"context"
	"database/sql"

	"weighttracker/internal/domain"
)

var _ domain.NotificationStore = (*DB)(nil)

// AddNotification stores n and trims the user's history to keep items.
func (d *DB) AddNotification(ctx context.Context, n domain.Notification, keep int) error {
	return d.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			d.q("INSERT INTO notifications (id, user_id, kind, title, message, created_at) VALUES (?, ?, ?, ?, ?, ?)"),
			n.ID, n.UserID, string(n.Kind), n.Title, n.Message, n.CreatedAt.UTC()); err != nil {
			return err
		}
		if keep <= 0 {
			return nil
		}
		_, err := tx.ExecContext(ctx,
			d.q(`DELETE FROM notifications WHERE user_id = ? AND seq NOT IN (
				SELECT seq FROM notifications WHERE user_id = ? ORDER BY seq DESC LIMIT ?
			)`), n.UserID, n.UserID, keep)
		return err
	})
}

// ListNotifications returns the user's history, newest first.
func (d *DB) ListNotifications(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = domain.NotificationHistoryLimit
	}
	rows, err := d.sql.QueryContext(ctx,
		d.q("SELECT id, user_id, kind, title, message, created_at FROM notifications WHERE user_id = ? ORDER BY seq DESC LIMIT ?"),
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Notification, 0, limit)
	for rows.Next() {
		var n domain.Notification
		var kind string
		if err := rows.Scan(&n.ID, &n.UserID, &kind, &n.Title, &n.Message, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Kind = domain.EventKind(kind)
		out = append(out, n)
	}
	return out, rows.Err()
}
