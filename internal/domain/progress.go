package domain

import "strconv"

// ProgressState classifies how far a user is toward their goal.
type ProgressState string

const (
	ProgressUnset      ProgressState = "unset"
	ProgressAchieved   ProgressState = "achieved"
	ProgressNoBaseline ProgressState = "no_baseline"
	ProgressInProgress ProgressState = "in_progress"
)

// Progress is the display figure derived from a profile. Remaining is only
// meaningful when HasRemaining is set, Percent only when HasPercent is set.
type Progress struct {
	State        ProgressState `json:"state"`
	Remaining    float64       `json:"remaining"`
	Percent      int           `json:"percent"`
	HasRemaining bool          `json:"hasRemaining"`
	HasPercent   bool          `json:"hasPercent"`
}

// ComputeProgress turns starting, current and goal weight into a progress
// figure. Any argument may be 0, meaning unset.
func ComputeProgress(starting, current, goal float64) Progress {
	if goal <= 0 || current <= 0 {
		return Progress{State: ProgressUnset}
	}

	remaining := current - goal
	if remaining <= 0 {
		return Progress{
			State:        ProgressAchieved,
			Remaining:    0,
			Percent:      100,
			HasRemaining: true,
			HasPercent:   true,
		}
	}

	if starting <= 0 || starting <= goal {
		return Progress{State: ProgressNoBaseline, Remaining: remaining, HasRemaining: true}
	}

	// Truncate toward zero, then clamp: a current above starting is 0%.
	percent := int((starting - current) / (starting - goal) * 100)
	percent = max(0, min(100, percent))

	return Progress{
		State:        ProgressInProgress,
		Remaining:    remaining,
		Percent:      percent,
		HasRemaining: true,
		HasPercent:   true,
	}
}

// Label is a short human-readable summary of p.
func (p Progress) Label() string {
	switch p.State {
	case ProgressUnset:
		return "Set your weights"
	case ProgressNoBaseline:
		return "Set starting weight"
	default:
		return strconv.Itoa(p.Percent) + "% complete"
	}
}
