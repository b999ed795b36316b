package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Recoupable-com/founder-dashboard-api/internal/auth"
	"github.com/Recoupable-com/founder-dashboard-api/internal/config"
	"github.com/Recoupable-com/founder-dashboard-api/internal/db"
	"github.com/Recoupable-com/founder-dashboard-api/internal/handlers"
	"github.com/Recoupable-com/founder-dashboard-api/internal/identity"
	"github.com/Recoupable-com/founder-dashboard-api/internal/initialization"
	"github.com/Recoupable-com/founder-dashboard-api/internal/logging"
	"github.com/Recoupable-com/founder-dashboard-api/internal/metrics"
	"github.com/Recoupable-com/founder-dashboard-api/internal/middleware"
	"github.com/Recoupable-com/founder-dashboard-api/internal/supabase"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	logger.Info("Starting founder dashboard API server", nil)

	if cfg.Auth.JWTSecret == "" {
		logger.Error("JWT_SECRET is required", fmt.Errorf("JWT_SECRET environment variable not set"), nil)
		os.Exit(1)
	}

	// Connect to database
	database, err := sql.Open("pgx", cfg.Database.DSN())
	if err != nil {
		logger.Error("Failed to open database", err, nil)
		os.Exit(1)
	}
	defer database.Close()

	// Configure connection pool
	database.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	database.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	database.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := database.PingContext(ctx); err != nil {
		logger.Error("Failed to ping database", err, nil)
		os.Exit(1)
	}

	logger.Info("Connected to database", map[string]interface{}{
		"host": cfg.Database.Host,
		"port": cfg.Database.Port,
		"name": cfg.Database.Name,
	})

	// Initialize components
	queries := db.NewQueries(database)

	// Test-account exclusion rules, merged from defaults and the optional file
	filter, err := identity.LoadFilter(cfg.Identity.RulesFile)
	if err != nil {
		logger.Error("Failed to load test-account rules", err, map[string]interface{}{
			"file": cfg.Identity.RulesFile,
		})
		os.Exit(1)
	}

	// Bootstrap application (schema for dashboard_users, admin account)
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	bootstrap := initialization.NewBootstrap(database, cfg, logger)
	if err := bootstrap.Run(initCtx); err != nil {
		logger.Error("Failed to bootstrap application", err, nil)
		os.Exit(1)
	}

	// Optional Supabase REST path for the template library
	var supaClient *supabase.Client
	if cfg.Supabase.URL != "" && cfg.Supabase.ServiceRoleKey != "" {
		supaClient, err = supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceRoleKey)
		if err != nil {
			logger.Warn("Failed to initialize Supabase client, templates read from SQL only", map[string]interface{}{
				"error": err.Error(),
			})
			supaClient = nil
		} else {
			logger.Info("Supabase client initialized", map[string]interface{}{
				"url": cfg.Supabase.URL,
			})
		}
	}

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(queries)
	conversationHandlers := handlers.NewConversationHandlers(queries, filter)
	leaderboardHandlers := handlers.NewLeaderboardHandlers(queries, filter, cfg.Cache.LeaderboardTTL)
	activityHandlers := handlers.NewActivityHandlers(queries, filter)
	pmfHandlers := handlers.NewPMFHandlers(queries, filter, cfg.Analytics)
	churnHandlers := handlers.NewChurnHandlers(queries, filter)
	errorLogHandlers := handlers.NewErrorLogHandlers(queries, cfg.Analytics)
	var templateHandlers *handlers.TemplateHandlers
	if supaClient != nil {
		templateHandlers = handlers.NewTemplateHandlers(queries, supaClient, logger)
	} else {
		templateHandlers = handlers.NewTemplateHandlers(queries, nil, logger)
	}
	templateUsageHandlers := handlers.NewTemplateUsageHandlers(queries, templateHandlers, filter, cfg.Cache.TemplateUsageTTL)
	scheduledActionHandlers := handlers.NewScheduledActionHandlers(queries)
	dashboardHandlers := handlers.NewDashboardHandlers(queries, filter, cfg.Analytics)
	metricsHandlers := handlers.NewMetricsHandlers()
	systemMetricsHandlers := handlers.NewSystemMetricsHandlers(logger)

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(1000, 1*time.Minute)

	// Setup router
	router := mux.NewRouter()

	// Apply middleware (order matters)
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RequestSizeMiddleware(1 << 20))

	// Health check (no auth)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		if err := database.PingContext(r.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    status,
			"service":   "founder-dashboard-api",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}).Methods("GET")

	// Prometheus scrape endpoint (no auth)
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// Auth routes (no auth required)
	authRouter := router.PathPrefix("/api/v1/auth").Subrouter()
	authRouter.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		authHandlers.Login(w, r)
	}).Methods("POST", "OPTIONS")

	// API routes (with auth and rate limiting)
	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(auth.JWTMiddleware())
	apiRouter.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Current user endpoint
	apiRouter.HandleFunc("/auth/me", authHandlers.GetCurrentUser).Methods("GET")

	// Conversation routes
	apiRouter.HandleFunc("/conversations", conversationHandlers.ListConversations).Methods("GET")
	apiRouter.HandleFunc("/conversations/{id}/messages", conversationHandlers.GetConversationMessages).Methods("GET")

	// Analytics routes
	apiRouter.HandleFunc("/leaderboard", leaderboardHandlers.GetLeaderboard).Methods("GET")
	apiRouter.HandleFunc("/active-users", activityHandlers.GetActiveUsers).Methods("GET")
	apiRouter.HandleFunc("/pmf", pmfHandlers.GetPMFReadiness).Methods("GET")
	apiRouter.HandleFunc("/churn", churnHandlers.GetChurn).Methods("GET")
	apiRouter.HandleFunc("/errors", errorLogHandlers.ListErrors).Methods("GET")

	// Template routes
	apiRouter.HandleFunc("/templates", templateHandlers.ListTemplates).Methods("GET")
	apiRouter.HandleFunc("/templates/usage", templateUsageHandlers.GetTemplateUsage).Methods("GET")

	// Scheduled action routes
	apiRouter.HandleFunc("/scheduled-actions", scheduledActionHandlers.ListScheduledActions).Methods("GET")

	// Dashboard overview
	apiRouter.HandleFunc("/dashboard", dashboardHandlers.GetDashboard).Methods("GET")

	// In-process metrics endpoints
	apiRouter.HandleFunc("/metrics", metricsHandlers.GetMetrics).Methods("GET")
	apiRouter.HandleFunc("/metrics/reset", metricsHandlers.ResetMetrics).Methods("POST")

	// System metrics endpoints
	apiRouter.HandleFunc("/system-metrics", systemMetricsHandlers.GetSystemMetrics).Methods("GET")
	apiRouter.HandleFunc("/system-metrics/ws", systemMetricsHandlers.SystemMetricsWebSocket).Methods("GET")

	// CORS handler wrapper
	//
	// Important: we wrap the router at the HTTP handler level (instead of router.Use),
	// so CORS headers and OPTIONS preflight responses work even when gorilla/mux would
	// otherwise return 404 for method-mismatches (e.g. OPTIONS on a GET-only route).
	corsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// WebSocket upgrades need direct access to the underlying connection
		// (Hijacker interface) so we bypass the CORS wrapper for them
		if r.Header.Get("Upgrade") == "websocket" {
			router.ServeHTTP(w, r)
			return
		}

		origin := r.Header.Get("Origin")
		allowed := false
		allowAll := false

		for _, allowedOrigin := range cfg.CORS.AllowedOrigins {
			if allowedOrigin == "*" {
				allowAll = true
				allowed = true
				break
			} else if allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			// If "*" is allowed, echo the actual origin (required when credentials are allowed)
			if allowAll && origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			} else if allowAll {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
		}

		// Only set credentials with a specific origin, never with "*"
		if allowed && (!allowAll || origin != "") {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		w.Header().Set("Access-Control-Allow-Methods", joinStrings(cfg.CORS.AllowedMethods, ", "))
		w.Header().Set("Access-Control-Allow-Headers", joinStrings(cfg.CORS.AllowedHeaders, ", "))

		// Preflight
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		router.ServeHTTP(w, r)
	})

	// Create HTTP server
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", map[string]interface{}{
			"address": addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", err, nil)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server", nil)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", err, nil)
	}

	logger.Info("Server stopped", nil)
}

func joinStrings(strs []string, sep string) string {
	if len(strs) == 0 {
		return ""
	}
	result := strs[0]
	for i := 1; i < len(strs); i++ {
		result += sep + strs[i]
	}
	return result
}
