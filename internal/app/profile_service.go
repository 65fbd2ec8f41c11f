package app

import (
	"context"

	"weighttracker/internal/domain"
)

// dashboardRecent is how many entries the dashboard shows.
const dashboardRecent = 5

// ProfileUpdate carries direct edits to the weight fields. Nil fields are
// kept; 0 clears a field.
type ProfileUpdate = domain.ProfilePatch

// Dashboard is the home screen summary.
type Dashboard struct {
	Profile  domain.Profile       `json:"profile"`
	Progress domain.Progress      `json:"progress"`
	Label    string               `json:"label"`
	Recent   []domain.WeightEntry `json:"recent"`
	Events   []domain.Event       `json:"events"`
}

// ProfileService manages the weight profile and its summary.
type ProfileService struct {
	entries      domain.EntryStore
	achievements *AchievementService
}

// NewProfileService creates a ProfileService.
func NewProfileService(entries domain.EntryStore, achievements *AchievementService) *ProfileService {
	return &ProfileService{entries: entries, achievements: achievements}
}

// Get returns the profile and its progress.
func (s *ProfileService) Get(ctx context.Context, userID int64) (domain.Profile, domain.Progress, error) {
	p, err := s.entries.GetProfile(ctx, userID)
	if err != nil {
		return p, domain.Progress{}, storeErr("get profile", err)
	}
	return p, domain.ComputeProgress(p.StartingWeight, p.CurrentWeight, p.GoalWeight), nil
}

// Update applies u and re-runs the passive achievement checks, since a new
// goal may already be met.
func (s *ProfileService) Update(ctx context.Context, userID int64, u ProfileUpdate) (*Dashboard, error) {
	var patch domain.ProfilePatch
	fields := []struct {
		name string
		in   *float64
		out  **float64
	}{
		{"startingWeight", u.StartingWeight, &patch.StartingWeight},
		{"currentWeight", u.CurrentWeight, &patch.CurrentWeight},
		{"goalWeight", u.GoalWeight, &patch.GoalWeight},
	}
	for _, f := range fields {
		if f.in == nil {
			continue
		}
		// Stored goals must match their one-decimal marker keys.
		v := domain.RoundWeight(*f.in)
		if err := domain.ValidateOptionalWeight(f.name, v); err != nil {
			return nil, err
		}
		*f.out = &v
	}
	if err := s.entries.UpdateProfile(ctx, userID, patch); err != nil {
		return nil, storeErr("update profile", err)
	}
	return s.Dashboard(ctx, userID)
}

// Dashboard returns the profile summary with recent entries and runs the
// passive achievement checks.
func (s *ProfileService) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	p, progress, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.entries.ListRecentEntries(ctx, userID, dashboardRecent)
	if err != nil {
		return nil, storeErr("list entries", err)
	}
	return &Dashboard{
		Profile:  p,
		Progress: progress,
		Label:    progress.Label(),
		Recent:   recent,
		Events:   s.achievements.EvaluateCurrent(ctx, p),
	}, nil
}
