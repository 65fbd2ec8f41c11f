package app

import (
	"context"
	"time"

	"weighttracker/internal/domain"
	"weighttracker/internal/logger"
)

// RecordStatus tells a caller whether an entry was written.
type RecordStatus string

const (
	// StatusRecorded means the entry was stored.
	StatusRecorded RecordStatus = "recorded"
	// StatusPendingConfirmation means the weight differs from the last entry
	// by more than the large-change threshold and nothing was stored. Resend
	// with Confirmed set to store it.
	StatusPendingConfirmation RecordStatus = "pending_confirmation"
)

// EntryInput is a weight entry as submitted by a user. Empty Date and Time
// default to now.
type EntryInput struct {
	Weight    float64 `json:"weight"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	Notes     string  `json:"notes"`
	Confirmed bool    `json:"confirmed"`
}

// RecordResult is the outcome of a weight write.
type RecordResult struct {
	Status     RecordStatus        `json:"status"`
	Entry      *domain.WeightEntry `json:"entry,omitempty"`
	LastWeight float64             `json:"lastWeight,omitempty"`
	Profile    domain.Profile      `json:"profile"`
	Progress   domain.Progress     `json:"progress"`
	Events     []domain.Event      `json:"events"`
}

// WeightService encapsulates weight-tracking use cases.
type WeightService struct {
	entries      domain.EntryStore
	achievements *AchievementService
	now          func() time.Time
}

// NewWeightService creates a WeightService backed by the given store.
func NewWeightService(entries domain.EntryStore, achievements *AchievementService) *WeightService {
	return &WeightService{entries: entries, achievements: achievements, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (s *WeightService) WithClock(now func() time.Time) *WeightService {
	s.now = now
	return s
}

// normalize validates in and returns its weight rounded to one decimal
// with the defaulted date and time.
func (s *WeightService) normalize(in EntryInput) (weight float64, date, clock string, err error) {
	weight = domain.RoundWeight(in.Weight)
	if err := domain.ValidateWeight("weight", weight); err != nil {
		return 0, "", "", err
	}
	now := s.now()
	date, clock = in.Date, in.Time
	if date == "" {
		date = now.Format(domain.DateLayout)
	}
	if clock == "" {
		clock = now.Format(domain.TimeLayout)
	}
	if date, err = domain.NormalizeDate(date, now); err != nil {
		return 0, "", "", err
	}
	if clock, err = domain.NormalizeTime(clock); err != nil {
		return 0, "", "", err
	}
	return weight, date, clock, nil
}

// RecordWeight validates and stores a new weight entry, refreshes the
// profile and runs achievement detection on the change.
func (s *WeightService) RecordWeight(ctx context.Context, userID int64, in EntryInput) (*RecordResult, error) {
	weight, date, clock, err := s.normalize(in)
	if err != nil {
		return nil, err
	}

	last, err := s.entries.MostRecentEntry(ctx, userID)
	if err != nil {
		logger.Warn("entry history unavailable, skipping large-change check", "user", userID, "err", err)
		last = nil
	}
	if last != nil && !in.Confirmed && domain.NeedsConfirmation(last.Weight, weight) {
		return &RecordResult{Status: StatusPendingConfirmation, LastWeight: last.Weight}, nil
	}

	before, err := s.entries.GetProfile(ctx, userID)
	if err != nil {
		return nil, storeErr("get profile", err)
	}

	entry := domain.WeightEntry{UserID: userID, Weight: weight, Date: date, Time: clock, Notes: in.Notes}
	entry.ID, err = s.entries.AddEntry(ctx, entry)
	if err != nil {
		return nil, storeErr("add entry", err)
	}

	count, err := s.entries.EntryCount(ctx, userID)
	if err != nil {
		logger.Warn("achievement check failed", "user", userID,
			"err", &domain.DetectionError{Check: "entry count", Err: err})
		count = 0
	}

	res := s.afterWrite(ctx, before, count)
	res.Entry = &entry
	return res, nil
}

// UpdateEntry replaces the weight, date and time of an entry.
func (s *WeightService) UpdateEntry(ctx context.Context, userID, id int64, in EntryInput) (*RecordResult, error) {
	weight, date, clock, err := s.normalize(in)
	if err != nil {
		return nil, err
	}
	before, err := s.entries.GetProfile(ctx, userID)
	if err != nil {
		return nil, storeErr("get profile", err)
	}
	if err := s.entries.UpdateEntry(ctx, userID, id, weight, date, clock); err != nil {
		return nil, storeErr("update entry", err)
	}
	res := s.afterWrite(ctx, before, 0)
	if e, err := s.entries.GetEntry(ctx, userID, id); err == nil {
		res.Entry = e
	}
	return res, nil
}

// DeleteEntry removes an entry.
func (s *WeightService) DeleteEntry(ctx context.Context, userID, id int64) (*RecordResult, error) {
	before, err := s.entries.GetProfile(ctx, userID)
	if err != nil {
		return nil, storeErr("get profile", err)
	}
	if err := s.entries.DeleteEntry(ctx, userID, id); err != nil {
		return nil, storeErr("delete entry", err)
	}
	return s.afterWrite(ctx, before, 0), nil
}

// afterWrite reloads the profile the store refreshed during the write and
// evaluates the transition from before. Failures here never undo the write.
func (s *WeightService) afterWrite(ctx context.Context, before domain.Profile, count int) *RecordResult {
	after, err := s.entries.GetProfile(ctx, before.UserID)
	if err != nil {
		logger.Warn("achievement check failed", "user", before.UserID,
			"err", &domain.DetectionError{Check: "profile", Err: err})
		return &RecordResult{
			Status:   StatusRecorded,
			Profile:  before,
			Progress: domain.ComputeProgress(before.StartingWeight, before.CurrentWeight, before.GoalWeight),
		}
	}

	events := s.achievements.EvaluateTransition(ctx, Transition{
		UserID:         after.UserID,
		PreviousWeight: before.CurrentWeight,
		NewWeight:      after.CurrentWeight,
		StartingWeight: after.StartingWeight,
		GoalWeight:     after.GoalWeight,
		EntryCount:     count,
	})
	return &RecordResult{
		Status:   StatusRecorded,
		Profile:  after,
		Progress: domain.ComputeProgress(after.StartingWeight, after.CurrentWeight, after.GoalWeight),
		Events:   events,
	}
}

// GetEntry returns one entry or ErrNotFound.
func (s *WeightService) GetEntry(ctx context.Context, userID, id int64) (*domain.WeightEntry, error) {
	e, err := s.entries.GetEntry(ctx, userID, id)
	if err != nil {
		return nil, storeErr("get entry", err)
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

// ListRecent returns the most recent entries up to limit, newest first.
func (s *WeightService) ListRecent(ctx context.Context, userID int64, limit int) ([]domain.WeightEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}
	list, err := s.entries.ListRecentEntries(ctx, userID, limit)
	return list, storeErr("list entries", err)
}
