package initialization

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Recoupable-com/founder-dashboard-api/internal/config"
	dbpkg "github.com/Recoupable-com/founder-dashboard-api/internal/db"
	"github.com/Recoupable-com/founder-dashboard-api/internal/logging"
)

// Bootstrap handles startup initialization: schema for the table this
// service owns, and the initial admin operator account.
type Bootstrap struct {
	db      *sql.DB
	queries *dbpkg.Queries
	config  *config.Config
	logger  *logging.Logger
}

// NewBootstrap creates a new bootstrap instance
func NewBootstrap(database *sql.DB, cfg *config.Config, logger *logging.Logger) *Bootstrap {
	return &Bootstrap{
		db:      database,
		queries: dbpkg.NewQueries(database),
		config:  cfg,
		logger:  logger.WithComponent("bootstrap"),
	}
}

// Run performs all initialization steps
func (b *Bootstrap) Run(ctx context.Context) error {
	b.logger.Info("Starting initialization", nil)

	retryConfig := DefaultRetryConfig()

	if err := Retry(ctx, b.logger, retryConfig, "schema initialization", b.ensureSchema); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	if err := Retry(ctx, b.logger, retryConfig, "admin user initialization", b.ensureAdminUser); err != nil {
		return fmt.Errorf("admin user initialization failed: %w", err)
	}

	b.logger.Info("Initialization completed successfully", nil)
	return nil
}

// ensureSchema creates the dashboard_users table if missing. All analytics
// tables (rooms, memories, accounts, ...) belong to the product database and
// are never created or altered here.
func (b *Bootstrap) ensureSchema(ctx context.Context) error {
	schemaCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := b.db.ExecContext(schemaCtx, `
		CREATE TABLE IF NOT EXISTS dashboard_users (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create dashboard_users table: %w", err)
	}
	return nil
}

// ensureAdminUser creates the configured admin account if it does not exist
func (b *Bootstrap) ensureAdminUser(ctx context.Context) error {
	username := b.config.Auth.AdminUsername
	password := b.config.Auth.AdminPassword

	if username == "" || password == "" {
		b.logger.Warn("Admin credentials not configured, skipping admin user creation", nil)
		return nil
	}

	userCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	existing, err := b.queries.GetDashboardUserByUsername(userCtx, username)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}
	if existing != nil {
		b.logger.Info("Admin user already exists", map[string]interface{}{
			"username": username,
		})
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user := &dbpkg.DashboardUser{
		Username:     username,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := b.queries.CreateDashboardUser(userCtx, user); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	b.logger.Info("Admin user created", map[string]interface{}{
		"username": username,
	})
	return nil
}
