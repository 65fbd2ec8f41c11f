package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"weighttracker/internal/domain"
)

var _ domain.EntryStore = (*DB)(nil)

const entryColumns = "id, user_id, weight, entry_date, entry_time, notes"

// GetProfile returns the weight fields of a user.
func (d *DB) GetProfile(ctx context.Context, userID int64) (domain.Profile, error) {
	p := domain.Profile{UserID: userID}
	err := d.sql.QueryRowContext(ctx,
		d.q("SELECT starting_weight, current_weight, goal_weight FROM users WHERE id = ?"), userID,
	).Scan(&p.StartingWeight, &p.CurrentWeight, &p.GoalWeight)
	if errors.Is(err, sql.ErrNoRows) {
		return p, domain.ErrNotFound
	}
	return p, err
}

// SetCurrentWeight overwrites the current weight of a user.
func (d *DB) SetCurrentWeight(ctx context.Context, userID int64, value float64) error {
	return d.UpdateProfile(ctx, userID, domain.ProfilePatch{CurrentWeight: &value})
}

// UpdateProfile writes the set fields of patch in a single UPDATE. An empty
// patch only checks that the user exists.
func (d *DB) UpdateProfile(ctx context.Context, userID int64, patch domain.ProfilePatch) error {
	var sets []string
	var args []any
	for _, f := range []struct {
		column string
		v      *float64
	}{
		{"starting_weight", patch.StartingWeight},
		{"current_weight", patch.CurrentWeight},
		{"goal_weight", patch.GoalWeight},
	} {
		if f.v != nil {
			sets = append(sets, f.column+" = ?")
			args = append(args, *f.v)
		}
	}

	return d.inTx(ctx, func(tx *sql.Tx) error {
		if len(sets) == 0 {
			return d.lockUser(ctx, tx, userID)
		}
		res, err := tx.ExecContext(ctx, d.q("UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?"), append(args, userID)...)
		if err != nil {
			return err
		}
		return expectOne(res)
	})
}

// AddEntry inserts an entry and refreshes the user's current weight in the
// same transaction.
func (d *DB) AddEntry(ctx context.Context, e domain.WeightEntry) (int64, error) {
	var id int64
	err := d.inTx(ctx, func(tx *sql.Tx) error {
		if err := d.lockUser(ctx, tx, e.UserID); err != nil {
			return err
		}
		if err := tx.QueryRowContext(ctx,
			d.q("INSERT INTO weight_entries (user_id, weight, entry_date, entry_time, notes) VALUES (?, ?, ?, ?, ?) RETURNING id"),
			e.UserID, e.Weight, e.Date, e.Time, e.Notes,
		).Scan(&id); err != nil {
			return err
		}
		return d.refreshCurrent(ctx, tx, e.UserID)
	})
	return id, err
}

// UpdateEntry replaces weight, date and time of an entry.
func (d *DB) UpdateEntry(ctx context.Context, userID, id int64, weight float64, date, clock string) error {
	return d.inTx(ctx, func(tx *sql.Tx) error {
		if err := d.lockUser(ctx, tx, userID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			d.q("UPDATE weight_entries SET weight = ?, entry_date = ?, entry_time = ? WHERE id = ? AND user_id = ?"),
			weight, date, clock, id, userID)
		if err != nil {
			return err
		}
		if err := expectOne(res); err != nil {
			return err
		}
		return d.refreshCurrent(ctx, tx, userID)
	})
}

// DeleteEntry removes an entry.
func (d *DB) DeleteEntry(ctx context.Context, userID, id int64) error {
	return d.inTx(ctx, func(tx *sql.Tx) error {
		if err := d.lockUser(ctx, tx, userID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, d.q("DELETE FROM weight_entries WHERE id = ? AND user_id = ?"), id, userID)
		if err != nil {
			return err
		}
		if err := expectOne(res); err != nil {
			return err
		}
		return d.refreshCurrent(ctx, tx, userID)
	})
}

// lockUser serializes entry writes per user and reports unknown users.
func (d *DB) lockUser(ctx context.Context, tx *sql.Tx, userID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx, d.q("SELECT id FROM users WHERE id = ?"+d.forUpdate()), userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// refreshCurrent copies the most recent entry's weight into the profile.
// With no entries left the current weight is kept.
func (d *DB) refreshCurrent(ctx context.Context, tx *sql.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx, d.q(`UPDATE users SET current_weight = (
		SELECT weight FROM weight_entries WHERE user_id = ?
		ORDER BY entry_date DESC, entry_time DESC, id DESC LIMIT 1
	) WHERE id = ? AND EXISTS (SELECT 1 FROM weight_entries WHERE user_id = ?)`), userID, userID, userID)
	return err
}

// GetEntry returns one entry, or nil if it does not exist.
func (d *DB) GetEntry(ctx context.Context, userID, id int64) (*domain.WeightEntry, error) {
	row := d.sql.QueryRowContext(ctx,
		d.q("SELECT "+entryColumns+" FROM weight_entries WHERE id = ? AND user_id = ?"), id, userID)
	return scanEntry(row)
}

// MostRecentEntry returns the entry with the latest (date, time).
func (d *DB) MostRecentEntry(ctx context.Context, userID int64) (*domain.WeightEntry, error) {
	row := d.sql.QueryRowContext(ctx,
		d.q("SELECT "+entryColumns+" FROM weight_entries WHERE user_id = ? ORDER BY entry_date DESC, entry_time DESC, id DESC LIMIT 1"),
		userID)
	return scanEntry(row)
}

// ListRecentEntries lists entries newest first by (date, time).
func (d *DB) ListRecentEntries(ctx context.Context, userID int64, limit int) ([]domain.WeightEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		d.q("SELECT "+entryColumns+" FROM weight_entries WHERE user_id = ? ORDER BY entry_date DESC, entry_time DESC, id DESC LIMIT ?"),
		userID, limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// ListEntriesBetween lists entries with fromDate <= date <= toDate, oldest first.
func (d *DB) ListEntriesBetween(ctx context.Context, userID int64, fromDate, toDate string) ([]domain.WeightEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		d.q("SELECT "+entryColumns+" FROM weight_entries WHERE user_id = ? AND entry_date >= ? AND entry_date <= ? ORDER BY entry_date, entry_time, id"),
		userID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// EntryCount returns how many entries a user has.
func (d *DB) EntryCount(ctx context.Context, userID int64) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, d.q("SELECT COUNT(*) FROM weight_entries WHERE user_id = ?"), userID).Scan(&n)
	return n, err
}

func scanEntry(row *sql.Row) (*domain.WeightEntry, error) {
	var e domain.WeightEntry
	if err := row.Scan(&e.ID, &e.UserID, &e.Weight, &e.Date, &e.Time, &e.Notes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]domain.WeightEntry, error) {
	defer rows.Close()
	out := make([]domain.WeightEntry, 0)
	for rows.Next() {
		var e domain.WeightEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Weight, &e.Date, &e.Time, &e.Notes); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// expectOne maps a zero-row mutation to ErrNotFound.
func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
