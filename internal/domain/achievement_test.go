package domain_test

import (
	"testing"

	"weighttracker/internal/domain"
)

func TestMarkerKeys(t *testing.T) {
	if got := domain.GoalMarkerKey(70); got != "goal_achieved_70.0" {
		t.Errorf("GoalMarkerKey(70) = %q", got)
	}
	if got := domain.GoalMarkerKey(72.5); got != "goal_achieved_72.5" {
		t.Errorf("GoalMarkerKey(72.5) = %q", got)
	}
	if got := domain.MilestoneMarkerKey(15); got != "milestone_15" {
		t.Errorf("MilestoneMarkerKey(15) = %q", got)
	}
}

func TestMilestoneFor(t *testing.T) {
	tests := []struct {
		starting, current float64
		want              int
	}{
		{100, 100, 0},
		{100, 96, 0},
		{100, 95, 5},
		{100, 94, 5},
		{100, 90.01, 5},
		{100, 90, 10},
		{100, 89, 10},
		{100, 120, 0},
		{0, 80, 0},
		{100, 0, 0},
	}
	for _, tc := range tests {
		if got := domain.MilestoneFor(tc.starting, tc.current); got != tc.want {
			t.Errorf("MilestoneFor(%v, %v) = %d; want %d", tc.starting, tc.current, got, tc.want)
		}
	}
}

func TestGoalCrossed(t *testing.T) {
	tests := []struct {
		name                 string
		goal, previous, next float64
		want                 bool
	}{
		{"crosses", 80, 81, 80, true},
		{"crosses below", 80, 85, 78, true},
		{"already below", 80, 79, 78, false},
		{"still above", 80, 85, 81, false},
		{"no goal", 0, 85, 78, false},
		{"no previous", 80, 0, 78, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := domain.GoalCrossed(tc.goal, tc.previous, tc.next); got != tc.want {
				t.Errorf("GoalCrossed = %v; want %v", got, tc.want)
			}
		})
	}
}

func TestEncouragementDue(t *testing.T) {
	for n := 0; n <= 45; n++ {
		want := n == 10 || n == 20 || n == 30 || n == 40
		if got := domain.EncouragementDue(n); got != want {
			t.Errorf("EncouragementDue(%d) = %v; want %v", n, got, want)
		}
	}
}

func TestNeedsConfirmation(t *testing.T) {
	tests := []struct {
		last, next float64
		want       bool
	}{
		{80, 90, false},
		{80, 70, false},
		{80, 90.1, true},
		{80, 69.9, true},
		{80, 80, false},
	}
	for _, tc := range tests {
		if got := domain.NeedsConfirmation(tc.last, tc.next); got != tc.want {
			t.Errorf("NeedsConfirmation(%v, %v) = %v; want %v", tc.last, tc.next, got, tc.want)
		}
	}
}
