package app

import (
	"context"

	"weighttracker/internal/domain"
	"weighttracker/internal/logger"
)

// Transition describes a profile before and after one entry mutation.
// EntryCount is only set for inserts; zero disables the encouragement check.
type Transition struct {
	UserID         int64
	PreviousWeight float64
	NewWeight      float64
	StartingWeight float64
	GoalWeight     float64
	EntryCount     int
}

// DetectTransition returns the candidate events for an entry mutation.
// Marker-guarded events are candidates only: they still have to be claimed.
func DetectTransition(t Transition) []domain.Event {
	var events []domain.Event

	if domain.GoalCrossed(t.GoalWeight, t.PreviousWeight, t.NewWeight) {
		events = append(events, goalEvent(t.UserID, t.GoalWeight, t.NewWeight))
	}

	prev := domain.MilestoneFor(t.StartingWeight, t.PreviousWeight)
	next := domain.MilestoneFor(t.StartingWeight, t.NewWeight)
	if next >= domain.MilestoneStep && next > prev {
		events = append(events, milestoneEvent(t.UserID, next, t.StartingWeight, t.NewWeight))
	}

	if domain.EncouragementDue(t.EntryCount) {
		events = append(events, domain.Event{
			Kind:          domain.EventEncouragement,
			UserID:        t.UserID,
			CurrentWeight: t.NewWeight,
			EntryCount:    t.EntryCount,
		})
	}
	return events
}

// DetectCurrent returns the candidate events for a profile at rest, as seen
// on dashboard load or after a direct profile edit.
func DetectCurrent(p domain.Profile) []domain.Event {
	var events []domain.Event
	if domain.GoalReached(p.GoalWeight, p.CurrentWeight) {
		events = append(events, goalEvent(p.UserID, p.GoalWeight, p.CurrentWeight))
	}
	if m := domain.MilestoneFor(p.StartingWeight, p.CurrentWeight); m >= domain.MilestoneStep {
		events = append(events, milestoneEvent(p.UserID, m, p.StartingWeight, p.CurrentWeight))
	}
	return events
}

func goalEvent(userID int64, goal, current float64) domain.Event {
	return domain.Event{
		Kind:          domain.EventGoalAchieved,
		UserID:        userID,
		MarkerKey:     domain.GoalMarkerKey(goal),
		GoalWeight:    goal,
		CurrentWeight: current,
	}
}

func milestoneEvent(userID int64, m int, starting, current float64) domain.Event {
	return domain.Event{
		Kind:           domain.EventMilestone,
		UserID:         userID,
		MarkerKey:      domain.MilestoneMarkerKey(m),
		Milestone:      m,
		StartingWeight: starting,
		CurrentWeight:  current,
	}
}

// AchievementService claims markers for candidate events and hands the
// winners to a dispatcher.
type AchievementService struct {
	markers    domain.MarkerStore
	dispatcher domain.Dispatcher
}

// NewAchievementService creates an AchievementService.
func NewAchievementService(markers domain.MarkerStore, dispatcher domain.Dispatcher) *AchievementService {
	return &AchievementService{markers: markers, dispatcher: dispatcher}
}

// EvaluateTransition runs the edge-triggered checks for an entry mutation
// and returns the events that were raised.
func (s *AchievementService) EvaluateTransition(ctx context.Context, t Transition) []domain.Event {
	return s.deliver(ctx, DetectTransition(t))
}

// EvaluateCurrent runs the passive checks for a profile and returns the
// events that were raised.
func (s *AchievementService) EvaluateCurrent(ctx context.Context, p domain.Profile) []domain.Event {
	return s.deliver(ctx, DetectCurrent(p))
}

// deliver claims each marker before raising its event. A marker that is
// already set means the event was raised before. Failures are logged and
// skipped so they never reach the write path.
func (s *AchievementService) deliver(ctx context.Context, candidates []domain.Event) []domain.Event {
	var raised []domain.Event
	for _, ev := range candidates {
		if ev.MarkerKey != "" {
			claimed, err := s.markers.Set(ctx, ev.UserID, ev.MarkerKey)
			if err != nil {
				logger.Warn("achievement check failed", "user", ev.UserID,
					"err", &domain.DetectionError{Check: string(ev.Kind), Err: err})
				continue
			}
			if !claimed {
				continue
			}
			if ev.Kind == domain.EventMilestone {
				s.claimLowerMilestones(ctx, ev.UserID, ev.Milestone)
			}
		}
		if err := s.dispatcher.Raise(ctx, ev); err != nil {
			logger.Warn("dispatch failed", "user", ev.UserID, "kind", ev.Kind, "err", err)
			continue
		}
		logger.Info("achievement raised", "user", ev.UserID, "kind", ev.Kind, "marker", ev.MarkerKey)
		raised = append(raised, ev)
	}
	return raised
}

// claimLowerMilestones marks milestones skipped by a multi-step jump so only
// the highest one is announced.
func (s *AchievementService) claimLowerMilestones(ctx context.Context, userID int64, m int) {
	for lower := domain.MilestoneStep; lower < m; lower += domain.MilestoneStep {
		if _, err := s.markers.Set(ctx, userID, domain.MilestoneMarkerKey(lower)); err != nil {
			logger.Warn("milestone marker failed", "user", userID, "milestone", lower, "err", err)
		}
	}
}
