package handlers

import (
	"net/http"
	"time"

	"github.com/Recoupable-com/founder-dashboard-api/internal/db"
	"github.com/Recoupable-com/founder-dashboard-api/internal/identity"
	"github.com/Recoupable-com/founder-dashboard-api/internal/validation"
)

/* ChurnHandlers handles churn metrics */
type ChurnHandlers struct {
	queries *db.Queries
	filter  *identity.Filter
}

/* NewChurnHandlers creates new churn handlers */
func NewChurnHandlers(queries *db.Queries, filter *identity.Filter) *ChurnHandlers {
	return &ChurnHandlers{
		queries: queries,
		filter:  filter,
	}
}

/* ChurnedAccount is one account that went silent */
type ChurnedAccount struct {
	AccountID  string     `json:"account_id"`
	Identity   string     `json:"identity"`
	Messages   int        `json:"messages"` // messages in the previous period
	LastActive *time.Time `json:"last_active,omitempty"`
}

/* ChurnReport compares the previous period against the current one */
type ChurnReport struct {
	Range          string           `json:"range"`
	PreviousActive int              `json:"previous_active"`
	CurrentActive  int              `json:"current_active"`
	Churned        int              `json:"churned"`
	Retained       int              `json:"retained"`
	ChurnRate      float64          `json:"churn_rate"`
	Accounts       []ChurnedAccount `json:"accounts"`
}

/* GetChurn reports accounts active in the previous period but silent in the
 * current one */
func (h *ChurnHandlers) GetChurn(w http.ResponseWriter, r *http.Request) {
	since, timeRange := validation.ParseTimeRange(r.URL.Query().Get("range"), "30d")
	now := time.Now()
	periodLen := now.Sub(since)

	previous, err := h.queries.ActiveAccounts(r.Context(), since.Add(-periodLen), since)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, err, nil)
		return
	}

	current, err := h.queries.ActiveAccounts(r.Context(), since, now)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, err, nil)
		return
	}

	report := DeriveChurn(previous, current, h.filter)
	report.Range = timeRange
	WriteSuccess(w, report, http.StatusOK)
}

/* DeriveChurn computes the churn set: previous-period accounts with no
 * current-period activity, test accounts excluded */
func DeriveChurn(previous, current []db.AccountActivity, filter *identity.Filter) ChurnReport {
	report := ChurnReport{Accounts: []ChurnedAccount{}}

	currentSet := make(map[string]struct{}, len(current))
	for _, a := range current {
		if filter.IsTestAccount(a.AccountID, a.Email, a.Wallet) {
			continue
		}
		currentSet[a.AccountID] = struct{}{}
	}
	report.CurrentActive = len(currentSet)

	for _, a := range previous {
		if filter.IsTestAccount(a.AccountID, a.Email, a.Wallet) {
			continue
		}
		report.PreviousActive++

		if _, stillActive := currentSet[a.AccountID]; stillActive {
			report.Retained++
			continue
		}
		report.Churned++
		report.Accounts = append(report.Accounts, ChurnedAccount{
			AccountID:  a.AccountID,
			Identity:   identity.DisplayIdentity(a.Email, a.Wallet),
			Messages:   a.Messages,
			LastActive: a.LastActive,
		})
	}

	if report.PreviousActive > 0 {
		report.ChurnRate = float64(report.Churned) / float64(report.PreviousActive)
	}

	return report
}
