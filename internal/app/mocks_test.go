package app_test

import (
	"context"
	"sync"

	"weighttracker/internal/domain"
)

// mockEntryStore fails or answers through its function fields; unset fields
// fall back to an empty profile and no entries.
type mockEntryStore struct {
	getProfileFn  func(ctx context.Context, userID int64) (domain.Profile, error)
	setCurrentFn  func(ctx context.Context, userID int64, v float64) error
	updateFn      func(ctx context.Context, userID int64, p domain.ProfilePatch) error
	addEntryFn    func(ctx context.Context, e domain.WeightEntry) (int64, error)
	updateEntryFn func(ctx context.Context, userID, id int64, w float64, date, clock string) error
	deleteEntryFn func(ctx context.Context, userID, id int64) error
	getEntryFn    func(ctx context.Context, userID, id int64) (*domain.WeightEntry, error)
	mostRecentFn  func(ctx context.Context, userID int64) (*domain.WeightEntry, error)
	listRecentFn  func(ctx context.Context, userID int64, limit int) ([]domain.WeightEntry, error)
	listBetweenFn func(ctx context.Context, userID int64, from, to string) ([]domain.WeightEntry, error)
	entryCountFn  func(ctx context.Context, userID int64) (int, error)
}

func (m *mockEntryStore) GetProfile(ctx context.Context, userID int64) (domain.Profile, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(ctx, userID)
	}
	return domain.Profile{UserID: userID}, nil
}

func (m *mockEntryStore) SetCurrentWeight(ctx context.Context, userID int64, v float64) error {
	if m.setCurrentFn != nil {
		return m.setCurrentFn(ctx, userID, v)
	}
	return nil
}

func (m *mockEntryStore) UpdateProfile(ctx context.Context, userID int64, p domain.ProfilePatch) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, p)
	}
	return nil
}

func (m *mockEntryStore) AddEntry(ctx context.Context, e domain.WeightEntry) (int64, error) {
	if m.addEntryFn != nil {
		return m.addEntryFn(ctx, e)
	}
	return 1, nil
}

func (m *mockEntryStore) UpdateEntry(ctx context.Context, userID, id int64, w float64, date, clock string) error {
	if m.updateEntryFn != nil {
		return m.updateEntryFn(ctx, userID, id, w, date, clock)
	}
	return nil
}

func (m *mockEntryStore) DeleteEntry(ctx context.Context, userID, id int64) error {
	if m.deleteEntryFn != nil {
		return m.deleteEntryFn(ctx, userID, id)
	}
	return nil
}

func (m *mockEntryStore) GetEntry(ctx context.Context, userID, id int64) (*domain.WeightEntry, error) {
	if m.getEntryFn != nil {
		return m.getEntryFn(ctx, userID, id)
	}
	return nil, nil
}

func (m *mockEntryStore) MostRecentEntry(ctx context.Context, userID int64) (*domain.WeightEntry, error) {
	if m.mostRecentFn != nil {
		return m.mostRecentFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockEntryStore) ListRecentEntries(ctx context.Context, userID int64, limit int) ([]domain.WeightEntry, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockEntryStore) ListEntriesBetween(ctx context.Context, userID int64, from, to string) ([]domain.WeightEntry, error) {
	if m.listBetweenFn != nil {
		return m.listBetweenFn(ctx, userID, from, to)
	}
	return nil, nil
}

func (m *mockEntryStore) EntryCount(ctx context.Context, userID int64) (int, error) {
	if m.entryCountFn != nil {
		return m.entryCountFn(ctx, userID)
	}
	return 0, nil
}

type mockMarkerStore struct {
	setFn func(ctx context.Context, userID int64, key string) (bool, error)
}

func (m *mockMarkerStore) IsSet(context.Context, int64, string) (bool, error) { return false, nil }

func (m *mockMarkerStore) Set(ctx context.Context, userID int64, key string) (bool, error) {
	if m.setFn != nil {
		return m.setFn(ctx, userID, key)
	}
	return true, nil
}

// recordingDispatcher collects raised events.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (d *recordingDispatcher) Raise(_ context.Context, ev domain.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.events = append(d.events, ev)
	return nil
}

func (d *recordingDispatcher) kinds() []domain.EventKind {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.EventKind, 0, len(d.events))
	for _, ev := range d.events {
		out = append(out, ev.Kind)
	}
	return out
}

func (d *recordingDispatcher) reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = nil
}
