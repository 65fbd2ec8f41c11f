package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"weighttracker/internal/domain"
)

var (
	_ domain.UserRepository    = (*DB)(nil)
	_ domain.SessionRepository = (*SessionRepo)(nil)
)

// GetByUsername retrieves a user by username.
func (d *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return d.getUser(ctx, "username = ?", username)
}

// GetByID retrieves a user by ID.
func (d *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return d.getUser(ctx, "id = ?", id)
}

func (d *DB) getUser(ctx context.Context, where string, arg any) (*domain.User, error) {
	var u domain.User
	err := d.sql.QueryRowContext(ctx,
		d.q("SELECT id, username, password_hash, created_at FROM users WHERE "+where), arg,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create creates a new user with an empty weight profile.
func (d *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	var u domain.User
	err := d.sql.QueryRowContext(ctx,
		d.q("INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?) RETURNING id, username, password_hash, created_at"),
		username, passwordHash, time.Now().UTC(),
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Count returns the total number of users.
func (d *DB) Count(ctx context.Context) (int, error) {
	var count int
	err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// ListIDs returns every user ID in creation order.
func (d *DB) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT id FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete removes a user and all data owned by it.
func (d *DB) Delete(ctx context.Context, id int64) error {
	owned := []string{
		"DELETE FROM sessions WHERE user_id = ?",
		"DELETE FROM notifications WHERE user_id = ?",
		"DELETE FROM user_settings WHERE user_id = ?",
		"DELETE FROM achievement_markers WHERE user_id = ?",
		"DELETE FROM weight_entries WHERE user_id = ?",
	}
	return d.inTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range owned {
			if _, err := tx.ExecContext(ctx, d.q(stmt), id); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, d.q("DELETE FROM users WHERE id = ?"), id)
		if err != nil {
			return err
		}
		return expectOne(res)
	})
}

// SessionRepo implements session repository operations on DB.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	_, err := r.db.sql.ExecContext(ctx,
		r.db.q("INSERT INTO sessions (token, user_id, user_agent, ip, expires_at, created_at) VALUES (?, ?, ?, ?, ?, ?)"),
		token, userID, userAgent, ip, expiresAt.UTC(), time.Now().UTC(),
	)
	return err
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.sql.QueryRowContext(ctx,
		r.db.q("SELECT token, user_id, user_agent, ip, expires_at, created_at FROM sessions WHERE token = ?"),
		token,
	).Scan(&s.Token, &s.UserID, &s.UserAgent, &s.IP, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.sql.ExecContext(ctx, r.db.q("DELETE FROM sessions WHERE token = ?"), token)
	return err
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.sql.ExecContext(ctx, r.db.q("DELETE FROM sessions WHERE expires_at < ?"), time.Now().UTC())
	return err
}
