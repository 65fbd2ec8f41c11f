package adapthttp

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"weighttracker/internal/app"
	"weighttracker/internal/domain"
	"weighttracker/internal/logger"
)

func TestLoggingMiddleware(t *testing.T) {
	s := &Server{}
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("OK"))
	})
	handler := s.loggingMiddleware(nextHandler)

	var buf bytes.Buffer
	original := logger.Logger
	logger.SetOutput(&buf)
	defer func() { logger.Logger = original }()

	req := httptest.NewRequest("GET", "/test-path", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status %d, got %d", http.StatusTeapot, w.Code)
	}

	logOutput := buf.String()
	if !strings.Contains(logOutput, "GET") || !strings.Contains(logOutput, "/test-path") || !strings.Contains(logOutput, "418") {
		t.Errorf("Log output missing expected fields. Got: %s", logOutput)
	}
}

func TestWriteDomainError(t *testing.T) {
	var buf bytes.Buffer
	original := logger.Logger
	logger.SetOutput(&buf)
	defer func() { logger.Logger = original }()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.Invalid("weight", "out of range"), http.StatusBadRequest},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("get entry: %w", domain.ErrNotFound), http.StatusNotFound},
		{"credentials", app.ErrInvalidCredentials, http.StatusUnauthorized},
		{"taken", app.ErrUsernameTaken, http.StatusConflict},
		{"store", &domain.StoreError{Op: "add entry", Err: errors.New("disk full")}, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeDomainError(w, tc.err)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}

	w := httptest.NewRecorder()
	writeDomainError(w, &domain.StoreError{Op: "add entry", Err: errors.New("disk full")})
	if strings.Contains(w.Body.String(), "disk full") {
		t.Fatalf("store detail leaked to client: %s", w.Body.String())
	}
	if !strings.Contains(buf.String(), "disk full") {
		t.Fatalf("store failure not logged: %s", buf.String())
	}
}
