package adapthttp

import (
	"net/http"

	"weighttracker/internal/app"
)

// handleRecordEntry stores a new entry. A large change against the last
// entry answers 409 with the pending result until resent with confirmed.
func (s *Server) handleRecordEntry(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	var in app.EntryInput
	if err := parseJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.svc.Weight.RecordWeight(r.Context(), user.ID, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if res.Status == app.StatusPendingConfirmation {
		writeJSON(w, http.StatusConflict, res)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	limit := intQuery(r, "limit", 50)

	items, err := s.svc.Weight.ListRecent(r.Context(), user.ID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	id, err := idParam(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	entry, err := s.svc.Weight.GetEntry(r.Context(), user.ID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entry": entry})
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	id, err := idParam(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var in app.EntryInput
	if err = parseJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.svc.Weight.UpdateEntry(r.Context(), user.ID, id, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	id, err := idParam(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	res, err := s.svc.Weight.DeleteEntry(r.Context(), user.ID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
