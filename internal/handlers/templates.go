package handlers

import (
	"context"
	"net/http"

	"github.com/Recoupable-com/founder-dashboard-api/internal/db"
	"github.com/Recoupable-com/founder-dashboard-api/internal/logging"
)

/* templateSource reads the agent-template library. The Supabase PostgREST
 * client and the SQL queries layer both satisfy it. */
type templateSource interface {
	ListAgentTemplates(ctx context.Context) ([]db.AgentTemplate, error)
}

/* TemplateHandlers handles agent template endpoints */
type TemplateHandlers struct {
	queries  *db.Queries
	supabase templateSource // nil when no Supabase credentials are configured
	logger   *logging.Logger
}

/* NewTemplateHandlers creates new template handlers */
func NewTemplateHandlers(queries *db.Queries, supabase templateSource, logger *logging.Logger) *TemplateHandlers {
	return &TemplateHandlers{
		queries:  queries,
		supabase: supabase,
		logger:   logger,
	}
}

/* loadTemplates reads the template library, preferring the Supabase REST
 * path and falling back to SQL when it fails */
func (h *TemplateHandlers) loadTemplates(ctx context.Context) ([]db.AgentTemplate, error) {
	if h.supabase != nil {
		templates, err := h.supabase.ListAgentTemplates(ctx)
		if err == nil {
			return templates, nil
		}
		h.logger.Warn("Supabase template fetch failed, falling back to SQL", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return h.queries.ListAgentTemplates(ctx)
}

/* ListTemplates lists the agent-template library */
func (h *TemplateHandlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.loadTemplates(r.Context())
	if err != nil {
		h.logger.Error("Failed to load templates", err, nil)
		WriteError(w, r, http.StatusInternalServerError, err, nil)
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"templates": templates,
		"total":     len(templates),
	}, http.StatusOK)
}
