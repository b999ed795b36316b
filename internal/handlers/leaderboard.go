package handlers

import (
	"net/http"
	"time"

	"github.com/Recoupable-com/founder-dashboard-api/internal/cache"
	"github.com/Recoupable-com/founder-dashboard-api/internal/db"
	"github.com/Recoupable-com/founder-dashboard-api/internal/identity"
	"github.com/Recoupable-com/founder-dashboard-api/internal/metrics"
	"github.com/Recoupable-com/founder-dashboard-api/internal/validation"
)

/* LeaderboardHandlers handles the usage leaderboard endpoint */
type LeaderboardHandlers struct {
	queries *db.Queries
	filter  *identity.Filter
	cache   *cache.Cache
}

/* NewLeaderboardHandlers creates new leaderboard handlers */
func NewLeaderboardHandlers(queries *db.Queries, filter *identity.Filter, ttl time.Duration) *LeaderboardHandlers {
	return &LeaderboardHandlers{
		queries: queries,
		filter:  filter,
		cache:   cache.New(ttl),
	}
}

/* LeaderboardEntry is one ranked account */
type LeaderboardEntry struct {
	Rank       int        `json:"rank"`
	AccountID  string     `json:"account_id"`
	Identity   string     `json:"identity"` // email when known, wallet otherwise
	Messages   int        `json:"messages"`
	Rooms      int        `json:"rooms"`
	ActiveDays int        `json:"active_days"`
	LastActive *time.Time `json:"last_active,omitempty"`
}

/* Leaderboard is the full leaderboard response */
type Leaderboard struct {
	Range     string             `json:"range"`
	Entries   []LeaderboardEntry `json:"entries"`
	Generated time.Time          `json:"generated_at"`
}

/* GetLeaderboard ranks accounts by message count over a time range */
func (h *LeaderboardHandlers) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	since, timeRange := validation.ParseTimeRange(r.URL.Query().Get("range"), "7d")
	limit := validation.ParseLimit(r.URL.Query().Get("limit"), 25, 100)

	key := cache.Key("leaderboard", map[string]string{
		"range": timeRange,
		"limit": r.URL.Query().Get("limit"),
	})
	if cached, ok := h.cache.Get(key); ok {
		metrics.GetGlobalMetrics().RecordCacheHit(true)
		metrics.RecordCacheLookup("leaderboard", true)
		WriteSuccess(w, cached, http.StatusOK)
		return
	}
	metrics.GetGlobalMetrics().RecordCacheHit(false)
	metrics.RecordCacheLookup("leaderboard", false)

	activities, err := h.queries.AccountActivitySince(r.Context(), since)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, err, nil)
		return
	}

	board := Leaderboard{
		Range:     timeRange,
		Entries:   []LeaderboardEntry{},
		Generated: time.Now().UTC(),
	}

	rank := 0
	for _, a := range activities {
		if h.filter.IsTestAccount(a.AccountID, a.Email, a.Wallet) {
			continue
		}
		rank++
		board.Entries = append(board.Entries, LeaderboardEntry{
			Rank:       rank,
			AccountID:  a.AccountID,
			Identity:   identity.DisplayIdentity(a.Email, a.Wallet),
			Messages:   a.Messages,
			Rooms:      a.Rooms,
			ActiveDays: a.ActiveDays,
			LastActive: a.LastActive,
		})
		if rank >= limit {
			break
		}
	}

	h.cache.Set(key, board)
	WriteSuccess(w, board, http.StatusOK)
}
