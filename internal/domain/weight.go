package domain

import (
	"context"
	"strconv"
)

// Weight bounds in kilograms. A stored 0 means "unset".
const (
	MinWeight = 20.0
	MaxWeight = 300.0
)

// Storage layouts for entry dates and times.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// WeightEntry represents a single weight measurement. Weight is in kg.
type WeightEntry struct {
	ID     int64   `json:"id"`
	UserID int64   `json:"userId"`
	Weight float64 `json:"weight"`
	Date   string  `json:"date"`
	Time   string  `json:"time"`
	Notes  string  `json:"notes"`
}

// Before reports whether e was taken before o, ordering by (Date, Time).
// Both layouts are fixed width so lexical order is chronological order.
func (e WeightEntry) Before(o WeightEntry) bool {
	if e.Date != o.Date {
		return e.Date < o.Date
	}
	if e.Time != o.Time {
		return e.Time < o.Time
	}
	return e.ID < o.ID
}

// Profile holds the per-user weight fields. Zero values mean unset.
type Profile struct {
	UserID         int64   `json:"userId"`
	StartingWeight float64 `json:"startingWeight"`
	CurrentWeight  float64 `json:"currentWeight"`
	GoalWeight     float64 `json:"goalWeight"`
}

// ProfilePatch carries direct edits to the weight fields. Nil fields are
// kept; 0 clears a field.
type ProfilePatch struct {
	StartingWeight *float64 `json:"startingWeight"`
	CurrentWeight  *float64 `json:"currentWeight"`
	GoalWeight     *float64 `json:"goalWeight"`
}

// EntryStore is the port for weight entries and per-user weight fields.
// Entry lookups return (nil, nil) when nothing matches; mutations of a
// missing entry return ErrNotFound.
type EntryStore interface {
	GetProfile(ctx context.Context, userID int64) (Profile, error)
	SetCurrentWeight(ctx context.Context, userID int64, value float64) error
	// UpdateProfile applies every set field of p at once, or none of them.
	UpdateProfile(ctx context.Context, userID int64, p ProfilePatch) error

	AddEntry(ctx context.Context, e WeightEntry) (int64, error)
	UpdateEntry(ctx context.Context, userID, id int64, weight float64, date, clock string) error
	DeleteEntry(ctx context.Context, userID, id int64) error
	GetEntry(ctx context.Context, userID, id int64) (*WeightEntry, error)
	MostRecentEntry(ctx context.Context, userID int64) (*WeightEntry, error)
	ListRecentEntries(ctx context.Context, userID int64, limit int) ([]WeightEntry, error)
	ListEntriesBetween(ctx context.Context, userID int64, fromDate, toDate string) ([]WeightEntry, error)
	EntryCount(ctx context.Context, userID int64) (int, error)
}

// FormatWeight renders a weight with one decimal place.
func FormatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
