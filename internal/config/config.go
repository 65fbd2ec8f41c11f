// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config is the process configuration.
type Config struct {
	Addr   string
	WebDir string

	Store       string
	DBPath      string
	DatabaseURL string

	JWTSecret string

	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	OIDC OIDC

	LogDir string
	Debug  bool

	ReminderInterval   time.Duration
	LoginRatePerMinute int
}

// OIDC holds single sign-on settings. SSO is enabled when IssuerURL is set.
type OIDC struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether SSO is configured.
func (o OIDC) Enabled() bool { return o.IssuerURL != "" && o.ClientID != "" }

// Load reads the configuration. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:                 getenv("ADDR", ":8080"),
		WebDir:               getenv("WEB_DIR", "web"),
		Store:                getenv("STORE", StoreSQLite),
		DBPath:               getenv("DB_PATH", "data/weighttracker.db"),
		DatabaseURL:          getenv("DATABASE_URL", ""),
		JWTSecret:            getenv("JWT_SECRET", ""),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		OIDC: OIDC{
			IssuerURL:    getenv("OIDC_ISSUER_URL", ""),
			ClientID:     getenv("OIDC_CLIENT_ID", ""),
			ClientSecret: getenv("OIDC_CLIENT_SECRET", ""),
			RedirectURL:  getenv("OIDC_REDIRECT_URL", ""),
		},
		LogDir: getenv("LOG_DIR", "logs"),
		Debug:  getenv("DEBUG", "false") == "true",
	}

	for _, o := range strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	interval, err := time.ParseDuration(getenv("REMINDER_INTERVAL", "1m"))
	if err != nil {
		return Config{}, errors.New("REMINDER_INTERVAL: " + err.Error())
	}
	cfg.ReminderInterval = interval

	rate, err := strconv.Atoi(getenv("LOGIN_RATE_PER_MINUTE", "10"))
	if err != nil || rate <= 0 {
		return Config{}, errors.New("LOGIN_RATE_PER_MINUTE must be a positive integer")
	}
	cfg.LoginRatePerMinute = rate

	switch cfg.Store {
	case StoreSQLite, StoreMemory:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required when STORE=postgres")
		}
	default:
		return Config{}, errors.New("STORE must be sqlite, postgres or memory")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
