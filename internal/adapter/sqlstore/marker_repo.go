package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"weighttracker/internal/domain"
)

var _ domain.MarkerStore = (*DB)(nil)

// IsSet reports whether the marker exists.
func (d *DB) IsSet(ctx context.Context, userID int64, key string) (bool, error) {
	var one int
	err := d.sql.QueryRowContext(ctx,
		d.q("SELECT 1 FROM achievement_markers WHERE user_id = ? AND marker_key = ?"), userID, key,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Set creates the marker and reports whether this call created it. The
// primary key makes concurrent claims race safely.
func (d *DB) Set(ctx context.Context, userID int64, key string) (bool, error) {
	res, err := d.sql.ExecContext(ctx,
		d.q("INSERT INTO achievement_markers (user_id, marker_key, created_at) VALUES (?, ?, ?) ON CONFLICT (user_id, marker_key) DO NOTHING"),
		userID, key, time.Now().UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
