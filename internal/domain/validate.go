package domain

import (
	"math"
	"time"
)

// RoundWeight rounds w to the one decimal weights are stored and keyed
// with.
func RoundWeight(w float64) float64 {
	return math.Round(w*10) / 10
}

// ValidateWeight checks that w is a real measurement within bounds.
func ValidateWeight(field string, w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return Invalid(field, "must be a number")
	}
	if w < MinWeight || w > MaxWeight {
		return Invalid(field, "should be between %.0f-%.0f kg", MinWeight, MaxWeight)
	}
	return nil
}

// ValidateOptionalWeight accepts 0 (clear the value) or a bounded weight.
func ValidateOptionalWeight(field string, w float64) error {
	if w == 0 {
		return nil
	}
	return ValidateWeight(field, w)
}

// NormalizeDate parses a YYYY-MM-DD date and rejects days after today in loc.
func NormalizeDate(s string, now time.Time) (string, error) {
	d, err := time.ParseInLocation(DateLayout, s, now.Location())
	if err != nil {
		return "", Invalid("date", "must be YYYY-MM-DD")
	}
	today := now.Format(DateLayout)
	if d.Format(DateLayout) > today {
		return "", Invalid("date", "cannot be in the future")
	}
	return d.Format(DateLayout), nil
}

// NormalizeTime parses a 24-hour clock time. HH:MM is accepted and stored
// with zero seconds.
func NormalizeTime(s string) (string, error) {
	for _, layout := range []string{TimeLayout, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", Invalid("time", "must be HH:MM:SS")
}
