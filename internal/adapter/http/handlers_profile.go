package adapthttp

import (
	"net/http"

	"weighttracker/internal/app"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	dash, err := s.svc.Profile.Dashboard(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	profile, progress, err := s.svc.Profile.Get(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"profile":  profile,
		"progress": progress,
		"label":    progress.Label(),
	})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	var u app.ProfileUpdate
	if err := parseJSON(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	dash, err := s.svc.Profile.Update(r.Context(), user.ID, u)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}
