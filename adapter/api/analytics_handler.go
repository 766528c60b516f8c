package api

import (
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/tracker/internal/analytics/application/queries"
	"github.com/felixgeelhaar/tracker/pkg/observability"
)

type analyticsHandler struct {
	busy      BusyEmployeesQuerier
	important ImportantTasksQuerier
	logger    *slog.Logger
}

// BusyEmployees handles GET /api/analytics/busy-employees/
func (h *analyticsHandler) BusyEmployees(w http.ResponseWriter, r *http.Request) {
	busy, err := h.busy.Handle(r.Context(), queries.BusyEmployeesQuery{})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if p, ok := PrincipalFromContext(r.Context()); ok {
		h.logger.DebugContext(r.Context(), "busy employees served", observability.PrincipalKey, p.Name, "count", len(busy))
	}
	writeJSON(w, h.logger, http.StatusOK, busy)
}

// ImportantTasks handles GET /api/analytics/important-tasks/
func (h *analyticsHandler) ImportantTasks(w http.ResponseWriter, r *http.Request) {
	recs, err := h.important.Handle(r.Context(), queries.ImportantTasksQuery{})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, recs)
}
