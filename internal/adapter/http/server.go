package adapthttp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/oauth2"

	"weighttracker/internal/app"
)

// Services are the application services the adapter drives.
type Services struct {
	Auth          *app.AuthService
	Tokens        *app.TokenIssuer // nil disables bearer tokens
	Weight        *app.WeightService
	Profile       *app.ProfileService
	Charts        *app.ChartsService
	Notifications *app.NotificationService
	Settings      *app.SettingsService
}

// Options tune the adapter.
type Options struct {
	WebDir               string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	LoginRatePerMinute   int
	OIDC                 *OIDCConfig // nil disables SSO
}

// OIDCConfig is a discovered SSO provider.
type OIDCConfig struct {
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// NewOIDCConfig discovers the issuer and builds the OAuth2 client.
func NewOIDCConfig(ctx context.Context, issuerURL, clientID, clientSecret, redirectURL string) (*OIDCConfig, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}
	return &OIDCConfig{
		Provider: provider,
		OAuth2Config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	svc          Services
	opts         Options
	loginLimiter *RateLimiter
}

// New creates a Server wired to the given application services.
func New(svc Services, opts Options) *Server {
	if opts.LoginRatePerMinute <= 0 {
		opts.LoginRatePerMinute = 10
	}
	return &Server{
		svc:          svc,
		opts:         opts,
		loginLimiter: NewRateLimiter(opts.LoginRatePerMinute),
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.loggingMiddleware)
	r.Use(withNoCache)

	if len(s.opts.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.opts.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: s.opts.CORSAllowCredentials,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		})
		r.Get("/config", s.handleConfig)

		r.Route("/auth", func(r chi.Router) {
			r.With(s.loginLimiter.Middleware).Post("/register", s.handleRegister)
			r.With(s.loginLimiter.Middleware).Post("/login", s.handleLogin)
			r.With(s.loginLimiter.Middleware).Post("/token", s.handleToken)
			r.Post("/logout", s.handleLogout)
			r.Get("/sso/login", s.handleSSOLogin)
			r.Get("/sso/callback", s.handleSSOCallback)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/me", s.handleMe)
			r.Delete("/me", s.handleDeleteAccount)

			r.Get("/dashboard", s.handleDashboard)
			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handleUpdateProfile)

			r.Get("/entries", s.handleListEntries)
			r.Post("/entries", s.handleRecordEntry)
			r.Get("/entries/{id}", s.handleGetEntry)
			r.Put("/entries/{id}", s.handleUpdateEntry)
			r.Delete("/entries/{id}", s.handleDeleteEntry)

			r.Get("/charts/daily", s.handleChartsDaily)

			r.Get("/notifications", s.handleNotifications)
			r.Get("/settings", s.handleGetSettings)
			r.Put("/settings", s.handleUpdateSettings)
		})
	})

	r.Handle("/*", spaFromDisk(s.opts.WebDir))
	return r
}
