package handlers

import (
	"net/http"
	"time"

	"github.com/Recoupable-com/founder-dashboard-api/internal/cache"
	"github.com/Recoupable-com/founder-dashboard-api/internal/content"
	"github.com/Recoupable-com/founder-dashboard-api/internal/db"
	"github.com/Recoupable-com/founder-dashboard-api/internal/identity"
	"github.com/Recoupable-com/founder-dashboard-api/internal/match"
	"github.com/Recoupable-com/founder-dashboard-api/internal/metrics"
	"github.com/Recoupable-com/founder-dashboard-api/internal/validation"
)

/* usageFetchCap bounds how many messages one usage computation pulls */
const usageFetchCap = 10000

/* TemplateUsageHandlers handles the template-usage aggregation endpoint */
type TemplateUsageHandlers struct {
	queries   *db.Queries
	templates *TemplateHandlers
	filter    *identity.Filter
	cache     *cache.Cache
}

/* NewTemplateUsageHandlers creates new template usage handlers */
func NewTemplateUsageHandlers(queries *db.Queries, templates *TemplateHandlers, filter *identity.Filter, ttl time.Duration) *TemplateUsageHandlers {
	return &TemplateUsageHandlers{
		queries:   queries,
		templates: templates,
		filter:    filter,
		cache:     cache.New(ttl),
	}
}

/* TemplateUsageResponse wraps the usage report with request metadata */
type TemplateUsageResponse struct {
	Range     string            `json:"range"`
	Report    match.UsageReport `json:"report"`
	Generated time.Time         `json:"generated_at"`
}

/* GetTemplateUsage matches every user message in range against the template
 * library and returns the per-template aggregation. The result is TTL-cached
 * per parameter set: a hit never re-runs the queries. */
func (h *TemplateUsageHandlers) GetTemplateUsage(w http.ResponseWriter, r *http.Request) {
	since, timeRange := validation.ParseTimeRange(r.URL.Query().Get("range"), "30d")
	excludeTest := r.URL.Query().Get("exclude_test") != "false"

	key := cache.Key("template-usage", map[string]string{
		"range":        timeRange,
		"exclude_test": r.URL.Query().Get("exclude_test"),
	})
	if cached, ok := h.cache.Get(key); ok {
		metrics.GetGlobalMetrics().RecordCacheHit(true)
		metrics.RecordCacheLookup("template_usage", true)
		WriteSuccess(w, cached, http.StatusOK)
		return
	}
	metrics.GetGlobalMetrics().RecordCacheHit(false)
	metrics.RecordCacheLookup("template_usage", false)

	templates, err := h.templates.loadTemplates(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, err, nil)
		return
	}

	records, err := h.queries.ListMessagesSince(r.Context(), since, usageFetchCap)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, err, nil)
		return
	}

	messages := h.extractMessages(records, excludeTest)

	candidates := make([]match.Template, len(templates))
	for i, t := range templates {
		candidates[i] = match.Template{ID: t.ID, Title: t.Title, Prompt: t.Prompt}
	}

	report := match.AggregateUsage(messages, candidates)
	for kind, count := range report.KindCounts {
		metrics.RecordTemplateMatches(kind, count)
	}

	response := TemplateUsageResponse{
		Range:     timeRange,
		Report:    report,
		Generated: time.Now().UTC(),
	}

	h.cache.Set(key, response)
	WriteSuccess(w, response, http.StatusOK)
}

/* extractMessages turns raw message records into matcher input: text is
 * extracted defensively, assistant messages and empty texts are skipped, and
 * test accounts are dropped when exclusion is on */
func (h *TemplateUsageHandlers) extractMessages(records []db.MessageRecord, excludeTest bool) []match.Message {
	messages := make([]match.Message, 0, len(records))
	for _, rec := range records {
		if excludeTest && h.filter.IsTestAccount(rec.AccountID, rec.Email, rec.Wallet) {
			continue
		}

		role := content.ExtractRole(rec.Content)
		if role != "" && role != "user" {
			continue
		}

		text := content.ExtractText(rec.Content)
		if text == "" {
			continue
		}

		messages = append(messages, match.Message{
			Text:      text,
			RoomID:    rec.RoomID,
			AccountID: rec.AccountID,
			ArtistID:  rec.ArtistID,
			Timestamp: rec.UpdatedAt,
		})
	}
	return messages
}
