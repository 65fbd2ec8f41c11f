package main

import (
	"context"
	"fmt"

	"weighttracker/internal/adapter/memory"
	"weighttracker/internal/adapter/sqlstore"
	"weighttracker/internal/config"
	"weighttracker/internal/domain"
)

// backend bundles the ports one storage engine provides.
type backend struct {
	entries       domain.EntryStore
	markers       domain.MarkerStore
	settings      domain.SettingsStore
	notifications domain.NotificationStore
	users         domain.UserRepository
	sessions      domain.SessionRepository
	close         func() error
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	var db *sqlstore.DB
	var err error

	switch cfg.Store {
	case config.StoreMemory:
		m := memory.New()
		return &backend{
			entries:       m,
			markers:       m,
			settings:      m,
			notifications: m,
			users:         m,
			sessions:      m.NewSessionRepo(),
			close:         func() error { return nil },
		}, nil
	case config.StorePostgres:
		db, err = sqlstore.OpenPostgres(ctx, cfg.DatabaseURL)
	default:
		db, err = sqlstore.OpenSQLite(ctx, cfg.DBPath)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}

	return &backend{
		entries:       db,
		markers:       db,
		settings:      db,
		notifications: db,
		users:         db,
		sessions:      sqlstore.NewSessionRepo(db),
		close:         db.Close,
	}, nil
}
