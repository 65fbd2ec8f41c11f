package adapthttp

import (
	"net/http"

	"weighttracker/internal/app"
)

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	items, err := s.svc.Notifications.History(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	st, err := s.svc.Settings.Get(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	var u app.SettingsUpdate
	if err := parseJSON(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	st, err := s.svc.Settings.Update(r.Context(), user.ID, u)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
