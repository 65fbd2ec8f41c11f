// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"weighttracker/internal/domain"
)

// DB implements an in-memory database storage. A single mutex serializes
// every operation, which gives each port method the atomicity the SQL store
// gets from transactions.
type DB struct {
	mu            sync.Mutex
	users         []*domain.User
	profiles      map[int64]*domain.Profile
	entries       []domain.WeightEntry
	markers       map[int64]map[string]time.Time
	settings      map[int64]domain.Settings
	notifications map[int64][]domain.Notification
	sessions      map[string]*domain.Session

	entryIDCounter int64
	userIDCounter  int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		profiles:      make(map[int64]*domain.Profile),
		markers:       make(map[int64]map[string]time.Time),
		settings:      make(map[int64]domain.Settings),
		notifications: make(map[int64][]domain.Notification),
		sessions:      make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var (
	_ domain.EntryStore        = (*DB)(nil)
	_ domain.MarkerStore       = (*DB)(nil)
	_ domain.SettingsStore     = (*DB)(nil)
	_ domain.NotificationStore = (*DB)(nil)
	_ domain.UserRepository    = (*DB)(nil)
	_ domain.SessionRepository = (*SessionRepo)(nil)
)

// --- EntryStore ---

// GetProfile returns the weight fields of a user.
func (db *DB) GetProfile(_ context.Context, userID int64) (domain.Profile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.profiles[userID]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	return *p, nil
}

// SetCurrentWeight overwrites the current weight of a user.
func (db *DB) SetCurrentWeight(_ context.Context, userID int64, value float64) error {
	return db.updateProfile(userID, func(p *domain.Profile) { p.CurrentWeight = value })
}

// UpdateProfile applies the set fields of patch under one lock.
func (db *DB) UpdateProfile(_ context.Context, userID int64, patch domain.ProfilePatch) error {
	return db.updateProfile(userID, func(p *domain.Profile) {
		if patch.StartingWeight != nil {
			p.StartingWeight = *patch.StartingWeight
		}
		if patch.CurrentWeight != nil {
			p.CurrentWeight = *patch.CurrentWeight
		}
		if patch.GoalWeight != nil {
			p.GoalWeight = *patch.GoalWeight
		}
	})
}

func (db *DB) updateProfile(userID int64, fn func(*domain.Profile)) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.profiles[userID]
	if !ok {
		return domain.ErrNotFound
	}
	fn(p)
	return nil
}

// AddEntry stores a weight entry and refreshes the user's current weight.
func (db *DB) AddEntry(_ context.Context, e domain.WeightEntry) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.profiles[e.UserID]; !ok {
		return 0, domain.ErrNotFound
	}
	db.entryIDCounter++
	e.ID = db.entryIDCounter
	db.entries = append(db.entries, e)
	db.refreshCurrentLocked(e.UserID)
	return e.ID, nil
}

// UpdateEntry replaces weight, date and time of an entry.
func (db *DB) UpdateEntry(_ context.Context, userID, id int64, weight float64, date, clock string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	for i := range db.entries {
		e := &db.entries[i]
		if e.ID == id && e.UserID == userID {
			e.Weight, e.Date, e.Time = weight, date, clock
			db.refreshCurrentLocked(userID)
			return nil
		}
	}
	return domain.ErrNotFound
}

// DeleteEntry removes an entry.
func (db *DB) DeleteEntry(_ context.Context, userID, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	for i, e := range db.entries {
		if e.ID == id && e.UserID == userID {
			db.entries = append(db.entries[:i], db.entries[i+1:]...)
			db.refreshCurrentLocked(userID)
			return nil
		}
	}
	return domain.ErrNotFound
}

// GetEntry returns one entry, or nil if it does not exist.
func (db *DB) GetEntry(_ context.Context, userID, id int64) (*domain.WeightEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, e := range db.entries {
		if e.ID == id && e.UserID == userID {
			return &e, nil
		}
	}
	return nil, nil
}

// MostRecentEntry returns the entry with the latest (date, time).
func (db *DB) MostRecentEntry(_ context.Context, userID int64) (*domain.WeightEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.mostRecentLocked(userID), nil
}

func (db *DB) mostRecentLocked(userID int64) *domain.WeightEntry {
	var latest *domain.WeightEntry
	for i := range db.entries {
		e := &db.entries[i]
		if e.UserID != userID {
			continue
		}
		if latest == nil || latest.Before(*e) {
			latest = e
		}
	}
	if latest == nil {
		return nil
	}
	ret := *latest
	return &ret
}

// refreshCurrentLocked copies the most recent entry's weight into the
// profile. With no entries left the current weight is kept.
func (db *DB) refreshCurrentLocked(userID int64) {
	latest := db.mostRecentLocked(userID)
	if latest == nil {
		return
	}
	if p, ok := db.profiles[userID]; ok {
		p.CurrentWeight = latest.Weight
	}
}

// ListRecentEntries lists entries newest first by (date, time).
func (db *DB) ListRecentEntries(_ context.Context, userID int64, limit int) ([]domain.WeightEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	result := db.userEntriesLocked(userID)
	sort.Slice(result, func(i, j int) bool { return result[j].Before(result[i]) })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ListEntriesBetween lists entries with fromDate <= date <= toDate, oldest first.
func (db *DB) ListEntriesBetween(_ context.Context, userID int64, fromDate, toDate string) ([]domain.WeightEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	result := make([]domain.WeightEntry, 0)
	for _, e := range db.userEntriesLocked(userID) {
		if e.Date >= fromDate && e.Date <= toDate {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Before(result[j]) })
	return result, nil
}

// EntryCount returns how many entries a user has.
func (db *DB) EntryCount(_ context.Context, userID int64) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.userEntriesLocked(userID)), nil
}

func (db *DB) userEntriesLocked(userID int64) []domain.WeightEntry {
	out := make([]domain.WeightEntry, 0)
	for _, e := range db.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

// --- MarkerStore ---

// IsSet reports whether the marker exists.
func (db *DB) IsSet(_ context.Context, userID int64, key string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, ok := db.markers[userID][key]
	return ok, nil
}

// Set creates the marker and reports whether this call created it.
func (db *DB) Set(_ context.Context, userID int64, key string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	m, ok := db.markers[userID]
	if !ok {
		m = make(map[string]time.Time)
		db.markers[userID] = m
	}
	if _, exists := m[key]; exists {
		return false, nil
	}
	m[key] = time.Now().UTC()
	return true, nil
}

// --- SettingsStore ---

// GetSettings returns the user's settings or the defaults.
func (db *DB) GetSettings(_ context.Context, userID int64) (domain.Settings, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if s, ok := db.settings[userID]; ok {
		return s, nil
	}
	return domain.DefaultSettings(), nil
}

// SaveSettings stores the user's settings.
func (db *DB) SaveSettings(_ context.Context, userID int64, s domain.Settings) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.settings[userID] = s
	return nil
}

// --- NotificationStore ---

// AddNotification prepends n to the user's history, keeping at most keep items.
func (db *DB) AddNotification(_ context.Context, n domain.Notification, keep int) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	list := append([]domain.Notification{n}, db.notifications[n.UserID]...)
	if keep > 0 && len(list) > keep {
		list = list[:keep]
	}
	db.notifications[n.UserID] = list
	return nil
}

// ListNotifications returns the user's history, newest first.
func (db *DB) ListNotifications(_ context.Context, userID int64, limit int) ([]domain.Notification, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	list := db.notifications[userID]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	out := make([]domain.Notification, len(list))
	copy(out, list)
	return out, nil
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, u := range db.users {
		if u.Username == username {
			ret := *u
			return &ret, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(_ context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, u := range db.users {
		if u.ID == id {
			ret := *u
			return &ret, nil
		}
	}
	return nil, nil
}

// Create creates a new user with an empty weight profile.
func (db *DB) Create(_ context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, u := range db.users {
		if u.Username == username {
			return nil, errors.New("user already exists")
		}
	}
	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	db.profiles[u.ID] = &domain.Profile{UserID: u.ID}
	ret := *u
	return &ret, nil
}

// Count returns the total number of users.
func (db *DB) Count(_ context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// ListIDs returns every user ID in creation order.
func (db *DB) ListIDs(_ context.Context) ([]int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	ids := make([]int64, 0, len(db.users))
	for _, u := range db.users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

// Delete removes a user and all data owned by it.
func (db *DB) Delete(_ context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	idx := -1
	for i, u := range db.users {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return domain.ErrNotFound
	}
	db.users = append(db.users[:idx], db.users[idx+1:]...)
	delete(db.profiles, id)
	delete(db.markers, id)
	delete(db.settings, id)
	delete(db.notifications, id)
	kept := db.entries[:0]
	for _, e := range db.entries {
		if e.UserID != id {
			kept = append(kept, e)
		}
	}
	db.entries = kept
	for token, s := range db.sessions {
		if s.UserID == id {
			delete(db.sessions, token)
		}
	}
	return nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(_ context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(_ context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if s, ok := r.db.sessions[token]; ok {
		ret := *s
		return &ret, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(_ context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(_ context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
