package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/Recoupable-com/founder-dashboard-api/internal/config"
	"github.com/Recoupable-com/founder-dashboard-api/internal/db"
	"github.com/Recoupable-com/founder-dashboard-api/internal/validation"
)

/* ErrorLogHandlers handles tool-invocation failure reporting */
type ErrorLogHandlers struct {
	queries *db.Queries
	cfg     config.AnalyticsConfig
}

/* NewErrorLogHandlers creates new error log handlers */
func NewErrorLogHandlers(queries *db.Queries, cfg config.AnalyticsConfig) *ErrorLogHandlers {
	return &ErrorLogHandlers{
		queries: queries,
		cfg:     cfg,
	}
}

/* ErrorCluster is a burst of failures inside one minute */
type ErrorCluster struct {
	Minute time.Time      `json:"minute"`
	Count  int            `json:"count"`
	Tools  map[string]int `json:"tools"`
	Sample string         `json:"sample"` // one representative error message
}

/* ErrorReport is the error listing plus detected outlier clusters */
type ErrorReport struct {
	Range    string         `json:"range"`
	Total    int            `json:"total"`
	ByTool   map[string]int `json:"by_tool"`
	Clusters []ErrorCluster `json:"clusters"`
	Errors   []db.ErrorLog  `json:"errors"`
}

/* ListErrors lists recent failures and flags per-minute outlier clusters */
func (h *ErrorLogHandlers) ListErrors(w http.ResponseWriter, r *http.Request) {
	since, timeRange := validation.ParseTimeRange(r.URL.Query().Get("range"), "1d")
	tool := r.URL.Query().Get("tool")
	limit := validation.ParseLimit(r.URL.Query().Get("limit"), 200, 1000)

	logs, err := h.queries.ListErrorLogs(r.Context(), since, tool, limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, err, nil)
		return
	}

	report := ErrorReport{
		Range:    timeRange,
		Total:    len(logs),
		ByTool:   make(map[string]int),
		Clusters: ClusterOutliers(logs, h.cfg.ErrorClusterMinSize),
		Errors:   logs,
	}
	for _, e := range logs {
		name := e.ToolName
		if name == "" {
			name = "unknown"
		}
		report.ByTool[name]++
	}

	WriteSuccess(w, report, http.StatusOK)
}

/* ClusterOutliers buckets failures into minutes and returns the buckets whose
 * count reaches minSize, largest first. Input order does not matter. */
func ClusterOutliers(logs []db.ErrorLog, minSize int) []ErrorCluster {
	if minSize < 1 {
		minSize = 1
	}

	buckets := make(map[time.Time]*ErrorCluster)
	for _, e := range logs {
		minute := e.CreatedAt.UTC().Truncate(time.Minute)
		c, ok := buckets[minute]
		if !ok {
			c = &ErrorCluster{
				Minute: minute,
				Tools:  make(map[string]int),
				Sample: e.ErrorMessage,
			}
			buckets[minute] = c
		}
		c.Count++
		name := e.ToolName
		if name == "" {
			name = "unknown"
		}
		c.Tools[name]++
	}

	clusters := []ErrorCluster{}
	for _, c := range buckets {
		if c.Count >= minSize {
			clusters = append(clusters, *c)
		}
	}

	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Count != clusters[j].Count {
			return clusters[i].Count > clusters[j].Count
		}
		return clusters[i].Minute.Before(clusters[j].Minute)
	})

	return clusters
}
