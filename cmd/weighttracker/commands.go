package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapthttp "weighttracker/internal/adapter/http"
	"weighttracker/internal/app"
	"weighttracker/internal/config"
	"weighttracker/internal/domain"
	"weighttracker/internal/logger"
)

const tokenTTL = 30 * 24 * time.Hour

// ServeCmd runs the HTTP API and the reminder worker until interrupted.
type ServeCmd struct{}

func (c *ServeCmd) Run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = be.close() }()

	notifications := app.NewNotificationService(be.settings, be.notifications)
	achievements := app.NewAchievementService(be.markers, notifications)
	authSvc := app.NewAuthService(be.users, be.sessions)

	svc := adapthttp.Services{
		Auth:          authSvc,
		Weight:        app.NewWeightService(be.entries, achievements),
		Profile:       app.NewProfileService(be.entries, achievements),
		Charts:        app.NewChartsService(be.entries),
		Notifications: notifications,
		Settings:      app.NewSettingsService(be.settings, notifications),
	}
	if cfg.JWTSecret != "" {
		svc.Tokens = app.NewTokenIssuer(cfg.JWTSecret, tokenTTL)
	} else {
		logger.Warn("JWT_SECRET not set, bearer tokens disabled")
	}

	opts := adapthttp.Options{
		WebDir:               cfg.WebDir,
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
		CORSAllowCredentials: cfg.CORSAllowCredentials,
		LoginRatePerMinute:   cfg.LoginRatePerMinute,
	}
	if cfg.OIDC.Enabled() {
		oidcCfg, err := adapthttp.NewOIDCConfig(ctx, cfg.OIDC.IssuerURL, cfg.OIDC.ClientID, cfg.OIDC.ClientSecret, cfg.OIDC.RedirectURL)
		if err != nil {
			return err
		}
		opts.OIDC = oidcCfg
		logger.Info("sso enabled", "issuer", cfg.OIDC.IssuerURL)
	}

	if err := authSvc.PurgeExpiredSessions(ctx); err != nil {
		logger.Warn("purge expired sessions", "err", err)
	}

	reminders := app.NewReminderService(be.users, be.settings, notifications, cfg.ReminderInterval)
	go reminders.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           adapthttp.New(svc, opts).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "store", cfg.Store)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// MigrateCmd applies pending migrations. Opening a SQL store migrates it.
type MigrateCmd struct{}

func (c *MigrateCmd) Run(cfg *config.Config) error {
	if cfg.Store == config.StoreMemory {
		return errors.New("memory store has no migrations")
	}
	be, err := openBackend(context.Background(), cfg)
	if err != nil {
		return err
	}
	return be.close()
}

// ProgressCmd prints the goal progress for a set of weights in kg.
type ProgressCmd struct {
	Starting float64 `help:"Starting weight in kg (0 if unknown)." default:"0"`
	Current  float64 `help:"Current weight in kg." required:""`
	Goal     float64 `help:"Goal weight in kg." required:""`
}

func (c *ProgressCmd) Run(_ *config.Config) error {
	p := domain.ComputeProgress(c.Starting, c.Current, c.Goal)
	fmt.Printf("state:     %s\n", p.State)
	if p.HasRemaining {
		fmt.Printf("remaining: %s kg\n", domain.FormatWeight(p.Remaining))
	}
	if p.HasPercent {
		fmt.Printf("percent:   %d%%\n", p.Percent)
	}
	fmt.Println(p.Label())
	return nil
}
