package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Recoupable-com/founder-dashboard-api/internal/config"
	"github.com/Recoupable-com/founder-dashboard-api/internal/db"
	"github.com/Recoupable-com/founder-dashboard-api/internal/identity"
	"github.com/Recoupable-com/founder-dashboard-api/internal/metrics"
)

/* DashboardHandlers handles the one-call overview endpoint */
type DashboardHandlers struct {
	queries *db.Queries
	filter  *identity.Filter
	cfg     config.AnalyticsConfig
	metrics *metrics.Metrics
}

/* NewDashboardHandlers creates new dashboard handlers */
func NewDashboardHandlers(queries *db.Queries, filter *identity.Filter, cfg config.AnalyticsConfig) *DashboardHandlers {
	return &DashboardHandlers{
		queries: queries,
		filter:  filter,
		cfg:     cfg,
		metrics: metrics.GetGlobalMetrics(),
	}
}

/* DashboardOverview combines headline numbers for the landing page */
type DashboardOverview struct {
	Totals        TotalCounts            `json:"totals"`
	ActiveUsers   ActiveUserCounts       `json:"active_users"`
	TopAccounts   []LeaderboardEntry     `json:"top_accounts"`
	Errors        ErrorHeadline          `json:"errors"`
	PMF           PMFHeadline            `json:"pmf"`
	ServerMetrics map[string]interface{} `json:"server_metrics"`
	GeneratedAt   time.Time              `json:"generated_at"`
}

/* TotalCounts are whole-database totals */
type TotalCounts struct {
	Rooms    int `json:"rooms"`
	Messages int `json:"messages"`
	Accounts int `json:"accounts"`
}

/* ActiveUserCounts are the DAU/WAU/MAU headline numbers */
type ActiveUserCounts struct {
	Daily   int `json:"daily"`
	Weekly  int `json:"weekly"`
	Monthly int `json:"monthly"`
}

/* ErrorHeadline summarizes the last 24 hours of failures */
type ErrorHeadline struct {
	Last24h  int `json:"last_24h"`
	Clusters int `json:"clusters"`
}

/* PMFHeadline summarizes survey readiness */
type PMFHeadline struct {
	ReadyTotal    int     `json:"ready_total"`
	ActiveTotal   int     `json:"active_total"`
	ReadinessRate float64 `json:"readiness_rate"`
}

/* GetDashboard returns the combined overview. Individual sections degrade
 * independently: a failing query leaves its section zeroed rather than
 * failing the whole response. */
func (h *DashboardHandlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now()

	overview := DashboardOverview{
		TopAccounts:   []LeaderboardEntry{},
		ServerMetrics: h.metrics.GetStats(),
		GeneratedAt:   now.UTC(),
	}

	if rooms, messages, accounts, err := h.queries.CountTotals(ctx); err == nil {
		overview.Totals = TotalCounts{Rooms: rooms, Messages: messages, Accounts: accounts}
	}

	if daily, err := h.countActive(ctx, now.Add(-24*time.Hour), now); err == nil {
		overview.ActiveUsers.Daily = daily
	}
	if weekly, err := h.countActive(ctx, now.Add(-7*24*time.Hour), now); err == nil {
		overview.ActiveUsers.Weekly = weekly
	}
	if monthly, err := h.countActive(ctx, now.Add(-30*24*time.Hour), now); err == nil {
		overview.ActiveUsers.Monthly = monthly
	}

	if activities, err := h.queries.AccountActivitySince(ctx, now.Add(-7*24*time.Hour)); err == nil {
		rank := 0
		for _, a := range activities {
			if h.filter.IsTestAccount(a.AccountID, a.Email, a.Wallet) {
				continue
			}
			rank++
			overview.TopAccounts = append(overview.TopAccounts, LeaderboardEntry{
				Rank:       rank,
				AccountID:  a.AccountID,
				Identity:   identity.DisplayIdentity(a.Email, a.Wallet),
				Messages:   a.Messages,
				Rooms:      a.Rooms,
				ActiveDays: a.ActiveDays,
				LastActive: a.LastActive,
			})
			if rank >= 5 {
				break
			}
		}
	}

	if logs, err := h.queries.ListErrorLogs(ctx, now.Add(-24*time.Hour), "", 1000); err == nil {
		overview.Errors.Last24h = len(logs)
		overview.Errors.Clusters = len(ClusterOutliers(logs, h.cfg.ErrorClusterMinSize))
	}

	pmfSince := now.AddDate(0, 0, -h.cfg.PMFWindowDays)
	if activities, err := h.queries.AccountActivitySince(ctx, pmfSince); err == nil {
		readiness := DerivePMFReadiness(activities, h.filter, h.cfg)
		overview.PMF = PMFHeadline{
			ReadyTotal:    readiness.ReadyTotal,
			ActiveTotal:   readiness.ActiveTotal,
			ReadinessRate: readiness.ReadinessRate,
		}
	}

	WriteSuccess(w, overview, http.StatusOK)
}

func (h *DashboardHandlers) countActive(ctx context.Context, from, to time.Time) (int, error) {
	accounts, err := h.queries.ActiveAccounts(ctx, from, to)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, a := range accounts {
		if h.filter.IsTestAccount(a.AccountID, a.Email, a.Wallet) {
			continue
		}
		count++
	}
	return count, nil
}
