package adapthttp

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"weighttracker/internal/app"
	"weighttracker/internal/domain"
	"weighttracker/internal/logger"
)

type contextKey string

const userContextKey contextKey = "user"

const sessionCookie = "session"

// authMiddleware accepts a bearer token or a session cookie.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.authenticate(r)
		switch {
		case err == nil:
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		case errors.Is(err, app.ErrSessionNotFound), errors.Is(err, app.ErrSessionExpired),
			errors.Is(err, app.ErrInvalidToken), errors.Is(err, app.ErrUserNotFound):
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		default:
			writeDomainError(w, err)
		}
	})
}

func (s *Server) authenticate(r *http.Request) (*domain.User, error) {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		if s.svc.Tokens == nil {
			return nil, app.ErrInvalidToken
		}
		id, err := s.svc.Tokens.Verify(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			return nil, err
		}
		return s.svc.Auth.UserByID(r.Context(), id)
	}

	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, app.ErrSessionNotFound
	}
	return s.svc.Auth.ValidateSession(r.Context(), cookie.Value, r.UserAgent())
}

func userFromContext(r *http.Request) *domain.User {
	u, _ := r.Context().Value(userContextKey).(*domain.User)
	return u
}

// loggingMiddleware logs one line per request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

func withNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
