package handlers

import (
	"net/http"
	"time"

	"github.com/Recoupable-com/founder-dashboard-api/internal/config"
	"github.com/Recoupable-com/founder-dashboard-api/internal/db"
	"github.com/Recoupable-com/founder-dashboard-api/internal/identity"
)

/* PMFHandlers handles PMF-survey readiness metrics */
type PMFHandlers struct {
	queries *db.Queries
	filter  *identity.Filter
	cfg     config.AnalyticsConfig
}

/* NewPMFHandlers creates new PMF handlers */
func NewPMFHandlers(queries *db.Queries, filter *identity.Filter, cfg config.AnalyticsConfig) *PMFHandlers {
	return &PMFHandlers{
		queries: queries,
		filter:  filter,
		cfg:     cfg,
	}
}

/* PMFCandidate is one account qualifying for a PMF survey */
type PMFCandidate struct {
	AccountID  string     `json:"account_id"`
	Identity   string     `json:"identity"`
	Messages   int        `json:"messages"`
	ActiveDays int        `json:"active_days"`
	LastActive *time.Time `json:"last_active,omitempty"`
}

/* PMFReadiness is the PMF-survey readiness response */
type PMFReadiness struct {
	WindowDays    int            `json:"window_days"`
	MinActiveDays int            `json:"min_active_days"`
	MinMessages   int            `json:"min_messages"`
	ActiveTotal   int            `json:"active_total"`
	ReadyTotal    int            `json:"ready_total"`
	ReadinessRate float64        `json:"readiness_rate"`
	Candidates    []PMFCandidate `json:"candidates"`
}

/* GetPMFReadiness derives survey readiness: accounts active on enough
 * distinct days with enough messages inside the lookback window qualify */
func (h *PMFHandlers) GetPMFReadiness(w http.ResponseWriter, r *http.Request) {
	since := time.Now().AddDate(0, 0, -h.cfg.PMFWindowDays)

	activities, err := h.queries.AccountActivitySince(r.Context(), since)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, err, nil)
		return
	}

	readiness := DerivePMFReadiness(activities, h.filter, h.cfg)
	WriteSuccess(w, readiness, http.StatusOK)
}

/* DerivePMFReadiness applies the readiness thresholds to aggregated account
 * activity, excluding test accounts */
func DerivePMFReadiness(activities []db.AccountActivity, filter *identity.Filter, cfg config.AnalyticsConfig) PMFReadiness {
	readiness := PMFReadiness{
		WindowDays:    cfg.PMFWindowDays,
		MinActiveDays: cfg.PMFMinActiveDays,
		MinMessages:   cfg.PMFMinMessages,
		Candidates:    []PMFCandidate{},
	}

	for _, a := range activities {
		if filter.IsTestAccount(a.AccountID, a.Email, a.Wallet) {
			continue
		}
		readiness.ActiveTotal++

		if a.ActiveDays < cfg.PMFMinActiveDays || a.Messages < cfg.PMFMinMessages {
			continue
		}
		readiness.ReadyTotal++
		readiness.Candidates = append(readiness.Candidates, PMFCandidate{
			AccountID:  a.AccountID,
			Identity:   identity.DisplayIdentity(a.Email, a.Wallet),
			Messages:   a.Messages,
			ActiveDays: a.ActiveDays,
			LastActive: a.LastActive,
		})
	}

	if readiness.ActiveTotal > 0 {
		readiness.ReadinessRate = float64(readiness.ReadyTotal) / float64(readiness.ActiveTotal)
	}

	return readiness
}
