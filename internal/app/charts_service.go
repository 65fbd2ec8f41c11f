package app

import (
	"context"
	"time"

	"weighttracker/internal/domain"
)

// ChartsService encapsulates chart data retrieval use cases.
type ChartsService struct {
	entries domain.EntryStore
	now     func() time.Time
}

// NewChartsService creates a ChartsService backed by the given store.
func NewChartsService(entries domain.EntryStore) *ChartsService {
	return &ChartsService{entries: entries, now: time.Now}
}

// DayPoint is a single data point returned by GetDaily.
type DayPoint struct {
	Day    string       `json:"day"`
	Weight *WeightPoint `json:"weight"`
}

// WeightPoint is the optional weight value within a DayPoint.
type WeightPoint struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// GetDaily returns per-day chart data for the last days days, with the
// day's latest weight converted to the requested unit.
func (s *ChartsService) GetDaily(ctx context.Context, userID int64, days int, unit string) ([]DayPoint, error) {
	if !domain.ValidUnit(unit) {
		return nil, domain.Invalid("unit", "must be \"kg\" or \"lb\"")
	}
	if days < 1 {
		days = 1
	}
	if days > 366 {
		days = 366
	}

	today := s.now().In(time.Local)
	from := today.AddDate(0, 0, -(days - 1)).Format(domain.DateLayout)
	to := today.Format(domain.DateLayout)

	entries, err := s.entries.ListEntriesBetween(ctx, userID, from, to)
	if err != nil {
		return nil, storeErr("list entries", err)
	}
	// Entries arrive oldest first, so the last one per day wins.
	latest := make(map[string]float64, len(entries))
	for _, e := range entries {
		latest[e.Date] = e.Weight
	}

	points := make([]DayPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(domain.DateLayout)
		var wp *WeightPoint
		if kg, ok := latest[day]; ok {
			wp = &WeightPoint{Value: domain.ConvertWeight(kg, domain.UnitKg, unit), Unit: unit}
		}
		points = append(points, DayPoint{Day: day, Weight: wp})
	}
	return points, nil
}

// WithClock replaces the time source, for tests.
func (s *ChartsService) WithClock(now func() time.Time) *ChartsService {
	s.now = now
	return s
}
