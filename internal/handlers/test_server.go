package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/gorilla/mux"

	"github.com/Recoupable-com/founder-dashboard-api/internal/auth"
	"github.com/Recoupable-com/founder-dashboard-api/internal/config"
	"github.com/Recoupable-com/founder-dashboard-api/internal/db"
	"github.com/Recoupable-com/founder-dashboard-api/internal/identity"
	"github.com/Recoupable-com/founder-dashboard-api/internal/logging"
	"github.com/Recoupable-com/founder-dashboard-api/internal/middleware"
)

/* SetupTestServer creates a test HTTP server with all routes configured */
/* This is in the handlers package to avoid import cycles */
func SetupTestServer(queries *db.Queries) *httptest.Server {
	/* Set JWT secret for testing */
	os.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")

	logger := logging.NewLogger("error", "json", "stdout")
	filter := identity.NewFilter(identity.DefaultRules())
	analyticsCfg := config.AnalyticsConfig{
		PMFWindowDays:       30,
		PMFMinActiveDays:    2,
		PMFMinMessages:      10,
		ErrorClusterMinSize: 5,
	}

	router := mux.NewRouter()

	/* Apply middleware */
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	/* Health check (no auth) */
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
		})
	}).Methods("GET")

	/* Auth routes */
	authHandlers := NewAuthHandlers(queries)
	authRouter := router.PathPrefix("/api/v1/auth").Subrouter()
	authRouter.HandleFunc("/login", authHandlers.Login).Methods("POST")

	/* API routes (with auth) */
	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(auth.JWTMiddleware())
	apiRouter.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(10000, time.Minute)))

	/* Current user endpoint */
	apiRouter.HandleFunc("/auth/me", authHandlers.GetCurrentUser).Methods("GET")

	/* Conversation routes */
	conversationHandlers := NewConversationHandlers(queries, filter)
	apiRouter.HandleFunc("/conversations", conversationHandlers.ListConversations).Methods("GET")
	apiRouter.HandleFunc("/conversations/{id}/messages", conversationHandlers.GetConversationMessages).Methods("GET")

	/* Analytics routes */
	leaderboardHandlers := NewLeaderboardHandlers(queries, filter, time.Minute)
	activityHandlers := NewActivityHandlers(queries, filter)
	pmfHandlers := NewPMFHandlers(queries, filter, analyticsCfg)
	churnHandlers := NewChurnHandlers(queries, filter)
	errorLogHandlers := NewErrorLogHandlers(queries, analyticsCfg)
	apiRouter.HandleFunc("/leaderboard", leaderboardHandlers.GetLeaderboard).Methods("GET")
	apiRouter.HandleFunc("/active-users", activityHandlers.GetActiveUsers).Methods("GET")
	apiRouter.HandleFunc("/pmf", pmfHandlers.GetPMFReadiness).Methods("GET")
	apiRouter.HandleFunc("/churn", churnHandlers.GetChurn).Methods("GET")
	apiRouter.HandleFunc("/errors", errorLogHandlers.ListErrors).Methods("GET")

	/* Template routes */
	templateHandlers := NewTemplateHandlers(queries, nil, logger)
	templateUsageHandlers := NewTemplateUsageHandlers(queries, templateHandlers, filter, time.Minute)
	apiRouter.HandleFunc("/templates", templateHandlers.ListTemplates).Methods("GET")
	apiRouter.HandleFunc("/templates/usage", templateUsageHandlers.GetTemplateUsage).Methods("GET")

	/* Scheduled action routes */
	scheduledActionHandlers := NewScheduledActionHandlers(queries)
	apiRouter.HandleFunc("/scheduled-actions", scheduledActionHandlers.ListScheduledActions).Methods("GET")

	/* Dashboard overview */
	dashboardHandlers := NewDashboardHandlers(queries, filter, analyticsCfg)
	apiRouter.HandleFunc("/dashboard", dashboardHandlers.GetDashboard).Methods("GET")

	/* Metrics routes */
	metricsHandlers := NewMetricsHandlers()
	apiRouter.HandleFunc("/metrics", metricsHandlers.GetMetrics).Methods("GET")
	apiRouter.HandleFunc("/metrics/reset", metricsHandlers.ResetMetrics).Methods("POST")

	/* System metrics routes */
	systemMetricsHandlers := NewSystemMetricsHandlers(logger)
	apiRouter.HandleFunc("/system-metrics", systemMetricsHandlers.GetSystemMetrics).Methods("GET")
	apiRouter.HandleFunc("/system-metrics/ws", systemMetricsHandlers.SystemMetricsWebSocket).Methods("GET")

	return httptest.NewServer(router)
}
