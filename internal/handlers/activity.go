package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Recoupable-com/founder-dashboard-api/internal/db"
	"github.com/Recoupable-com/founder-dashboard-api/internal/identity"
)

/* ActivityHandlers handles active-user metrics */
type ActivityHandlers struct {
	queries *db.Queries
	filter  *identity.Filter
}

/* NewActivityHandlers creates new activity handlers */
func NewActivityHandlers(queries *db.Queries, filter *identity.Filter) *ActivityHandlers {
	return &ActivityHandlers{
		queries: queries,
		filter:  filter,
	}
}

/* ActiveUserStats holds daily/weekly/monthly active user counts plus a
 * per-day series for charts */
type ActiveUserStats struct {
	Daily   int                `json:"daily_active_users"`
	Weekly  int                `json:"weekly_active_users"`
	Monthly int                `json:"monthly_active_users"`
	Series  []db.DailyActivity `json:"daily_series"`
}

/* GetActiveUsers returns DAU/WAU/MAU and the 30-day activity series */
func (h *ActivityHandlers) GetActiveUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now()

	stats := ActiveUserStats{Series: []db.DailyActivity{}}

	daily, err := h.countActive(ctx, now.Add(-24*time.Hour), now)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, err, nil)
		return
	}
	stats.Daily = daily

	if weekly, err := h.countActive(ctx, now.Add(-7*24*time.Hour), now); err == nil {
		stats.Weekly = weekly
	}
	if monthly, err := h.countActive(ctx, now.Add(-30*24*time.Hour), now); err == nil {
		stats.Monthly = monthly
	}

	if rows, err := h.queries.DailyAccountActivitySince(ctx, now.Add(-30*24*time.Hour)); err == nil {
		stats.Series = deriveDailySeries(rows, h.filter)
	}

	WriteSuccess(w, stats, http.StatusOK)
}

/* deriveDailySeries folds per-account rows into a per-day chart series,
 * excluding test accounts so the series agrees with the headline counts.
 * Rows arrive day-ascending and the fold preserves that order. */
func deriveDailySeries(rows []db.DailyAccountActivity, filter *identity.Filter) []db.DailyActivity {
	series := []db.DailyActivity{}
	index := make(map[time.Time]int)
	seen := make(map[time.Time]map[string]bool)

	for _, row := range rows {
		if filter.IsTestAccount(row.AccountID, row.Email, row.Wallet) {
			continue
		}

		i, ok := index[row.Day]
		if !ok {
			i = len(series)
			index[row.Day] = i
			seen[row.Day] = make(map[string]bool)
			series = append(series, db.DailyActivity{Day: row.Day})
		}

		series[i].Messages += row.Messages
		if !seen[row.Day][row.AccountID] {
			seen[row.Day][row.AccountID] = true
			series[i].ActiveUsers++
		}
	}

	return series
}

func (h *ActivityHandlers) countActive(ctx context.Context, from, to time.Time) (int, error) {
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
