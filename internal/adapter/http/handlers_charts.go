package adapthttp

import (
	"net/http"
	"time"

	"weighttracker/internal/domain"
)

func (s *Server) handleChartsDaily(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	days := intQuery(r, "days", 90)
	unit := r.URL.Query().Get("unit")
	if unit == "" {
		unit = domain.UnitKg
	}

	points, err := s.svc.Charts.GetDaily(r.Context(), user.ID, days, unit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"days":  len(points),
		"unit":  unit,
		"today": localDayString(time.Now()),
		"items": points,
	})
}
