package handlers

import (
	"net/http"

	"github.com/Recoupable-com/founder-dashboard-api/internal/db"
)

/* ScheduledActionHandlers handles recurring-prompt reporting */
type ScheduledActionHandlers struct {
	queries *db.Queries
}

/* NewScheduledActionHandlers creates new scheduled action handlers */
func NewScheduledActionHandlers(queries *db.Queries) *ScheduledActionHandlers {
	return &ScheduledActionHandlers{queries: queries}
}

/* ScheduledActionReport lists recurring prompts with headline counts */
type ScheduledActionReport struct {
	Total     int                  `json:"total"`
	Enabled   int                  `json:"enabled"`
	Disabled  int                  `json:"disabled"`
	ByAccount map[string]int       `json:"by_account"`
	Actions   []db.ScheduledAction `json:"actions"`
}

/* ListScheduledActions lists all cron-like recurring prompts */
func (h *ScheduledActionHandlers) ListScheduledActions(w http.ResponseWriter, r *http.Request) {
	actions, err := h.queries.ListScheduledActions(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, err, nil)
		return
	}

	report := ScheduledActionReport{
		ByAccount: make(map[string]int),
		Actions:   actions,
	}
	for _, a := range actions {
		report.Total++
		if a.Enabled {
			report.Enabled++
		} else {
			report.Disabled++
		}
		report.ByAccount[a.AccountID]++
	}

	WriteSuccess(w, report, http.StatusOK)
}
