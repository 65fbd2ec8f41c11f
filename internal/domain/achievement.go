package domain

import (
	"context"
	"math"
	"strconv"
)

// Thresholds for achievement detection, in kg and entries.
const (
	MilestoneStep         = 5
	EncouragementEvery    = 10
	LargeChangeKg         = 10.0
	goalMarkerPrefix      = "goal_achieved_"
	milestoneMarkerPrefix = "milestone_"
)

// EventKind identifies a notification-worthy event.
type EventKind string

const (
	EventGoalAchieved  EventKind = "goal_achieved"
	EventMilestone     EventKind = "milestone"
	EventEncouragement EventKind = "encouragement"
	EventReminder      EventKind = "reminder"
	EventWelcome       EventKind = "welcome"
)

// Event is a decided achievement or notice for one user. MarkerKey is set
// for events guarded by an at-most-once marker.
type Event struct {
	Kind           EventKind `json:"kind"`
	UserID         int64     `json:"userId"`
	MarkerKey      string    `json:"markerKey,omitempty"`
	GoalWeight     float64   `json:"goalWeight,omitempty"`
	Milestone      int       `json:"milestone,omitempty"`
	StartingWeight float64   `json:"startingWeight,omitempty"`
	CurrentWeight  float64   `json:"currentWeight,omitempty"`
	EntryCount     int       `json:"entryCount,omitempty"`
}

// GoalMarkerKey is the marker guarding the goal event for one goal value.
func GoalMarkerKey(goal float64) string {
	return goalMarkerPrefix + FormatWeight(goal)
}

// MilestoneMarkerKey is the marker guarding one milestone value.
func MilestoneMarkerKey(n int) string {
	return milestoneMarkerPrefix + strconv.Itoa(n)
}

// MilestoneFor returns the highest 5 kg multiple lost from starting to
// current, or 0 when nothing has been lost or either value is unset.
func MilestoneFor(starting, current float64) int {
	if starting <= 0 || current <= 0 || current >= starting {
		return 0
	}
	return int(math.Floor((starting-current)/MilestoneStep)) * MilestoneStep
}

// GoalCrossed reports whether moving from previous to next reached the goal
// for the first time in this transition.
func GoalCrossed(goal, previous, next float64) bool {
	return goal > 0 && next <= goal && previous > goal
}

// GoalReached reports whether current is at or below a set goal.
func GoalReached(goal, current float64) bool {
	return current > 0 && goal > 0 && current <= goal
}

// EncouragementDue reports whether count is a positive multiple of 10.
func EncouragementDue(count int) bool {
	return count > 0 && count%EncouragementEvery == 0
}

// NeedsConfirmation reports whether next differs from last by more than the
// large-change threshold.
func NeedsConfirmation(last, next float64) bool {
	return math.Abs(next-last) > LargeChangeKg
}

// MarkerStore is a namespaced (userID, key) flag store. Set is an atomic
// test-and-set: it reports true only for the call that created the marker.
type MarkerStore interface {
	IsSet(ctx context.Context, userID int64, key string) (bool, error)
	Set(ctx context.Context, userID int64, key string) (bool, error)
}

// Dispatcher delivers or records a decided event.
type Dispatcher interface {
	Raise(ctx context.Context, ev Event) error
}
