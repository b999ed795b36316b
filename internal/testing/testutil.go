package testing

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/crypto/bcrypt"

	"github.com/Recoupable-com/founder-dashboard-api/internal/db"
)

/* TestDB holds test database connection */
type TestDB struct {
	DB      *sql.DB
	Queries *db.Queries
}

/* SetupTestDB connects to the test database and creates the schema.
 * Skips the calling test when no database is reachable, so the suite
 * stays runnable on machines without Postgres. */
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("TEST_DB_HOST", "localhost"),
		getEnv("TEST_DB_PORT", "5432"),
		getEnv("TEST_DB_USER", "dashboard"),
		getEnv("TEST_DB_PASSWORD", "dashboard"),
		getEnv("TEST_DB_NAME", "founder_dashboard_test"),
	)

	testDB, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("Skipping database test: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := testDB.PingContext(ctx); err != nil {
		testDB.Close()
		t.Skipf("Skipping database test, no test database reachable: %v", err)
	}

	if err := runMigrations(testDB); err != nil {
		testDB.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return &TestDB{
		DB:      testDB,
		Queries: db.NewQueries(testDB),
	}
}

/* CleanupTestDB truncates all tables and closes the connection */
func (tdb *TestDB) CleanupTestDB(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tables := []string{
		"memories",
		"rooms",
		"account_emails",
		"account_wallets",
		"accounts",
		"agent_templates",
		"scheduled_actions",
		"error_logs",
		"dashboard_users",
	}

	for _, table := range tables {
		_, err := tdb.DB.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			t.Logf("Warning: Failed to truncate %s: %v", table, err)
		}
	}

	tdb.DB.Close()
}

/* CreateTestAccount inserts an account with optional email and wallet rows */
func CreateTestAccount(ctx context.Context, conn *sql.DB, name, email, wallet string) (string, error) {
	id := uuid.New().String()
	if _, err := conn.ExecContext(ctx,
		`INSERT INTO accounts (id, name, created_at) VALUES ($1, $2, NOW())`, id, name); err != nil {
		return "", err
	}
	if email != "" {
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO account_emails (account_id, email) VALUES ($1, $2)`, id, email); err != nil {
			return "", err
		}
	}
	if wallet != "" {
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO account_wallets (account_id, wallet) VALUES ($1, $2)`, id, wallet); err != nil {
			return "", err
		}
	}
	return id, nil
}

/* CreateTestRoom inserts a room owned by an account */
func CreateTestRoom(ctx context.Context, conn *sql.DB, accountID, topic string, updatedAt time.Time) (string, error) {
	id := uuid.New().String()
	_, err := conn.ExecContext(ctx,
		`INSERT INTO rooms (id, account_id, topic, updated_at) VALUES ($1, $2, $3, $4)`,
		id, accountID, topic, updatedAt)
	return id, err
}

/* InsertTestMessage inserts a memory with {"role": ..., "text": ...} content */
func InsertTestMessage(ctx context.Context, conn *sql.DB, roomID, role, text string, at time.Time) (string, error) {
	id := uuid.New().String()
	content, err := json.Marshal(map[string]string{"role": role, "text": text})
	if err != nil {
		return "", err
	}
	_, err = conn.ExecContext(ctx,
		`INSERT INTO memories (id, room_id, content, updated_at) VALUES ($1, $2, $3, $4)`,
		id, roomID, content, at)
	return id, err
}

/* InsertTestTemplate inserts an agent template */
func InsertTestTemplate(ctx context.Context, conn *sql.DB, title, prompt string) (string, error) {
	id := uuid.New().String()
	_, err := conn.ExecContext(ctx,
		`INSERT INTO agent_templates (id, title, prompt, created_at) VALUES ($1, $2, $3, NOW())`,
		id, title, prompt)
	return id, err
}

/* InsertTestError inserts an error log row */
func InsertTestError(ctx context.Context, conn *sql.DB, email, tool, errType, message string, at time.Time) (string, error) {
	id := uuid.New().String()
	_, err := conn.ExecContext(ctx,
		`INSERT INTO error_logs (id, account_email, tool_name, error_type, error_message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, email, tool, errType, message, at)
	return id, err
}

/* CreateTestDashboardUser creates a dashboard operator account */
func CreateTestDashboardUser(ctx context.Context, queries *db.Queries, username, password string, isAdmin bool) (*db.DashboardUser, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &db.DashboardUser{
		Username:     username,
		PasswordHash: string(passwordHash),
		IsAdmin:      isAdmin,
	}

	if err := queries.CreateDashboardUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

/* runMigrations creates the schema the queries expect. In production the
 * analytics tables belong to the product database; here they are created
 * locally so aggregation queries can run against fixtures. */
func runMigrations(conn *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id UUID PRIMARY KEY,
			name TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS account_emails (
			account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			email TEXT NOT NULL,
			PRIMARY KEY (account_id, email)
		);`,
		`CREATE TABLE IF NOT EXISTS account_wallets (
			account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			wallet TEXT NOT NULL,
			PRIMARY KEY (account_id, wallet)
		);`,
		`CREATE TABLE IF NOT EXISTS rooms (
			id UUID PRIMARY KEY,
			account_id UUID NOT NULL,
			artist_id UUID,
			topic TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rooms_account_id ON rooms(account_id);`,
		`CREATE TABLE IF NOT EXISTS memories (
			id UUID PRIMARY KEY,
			room_id UUID NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
			content JSONB,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_memories_room_id ON memories(room_id);`,
		`CREATE INDEX IF NOT EXISTS idx_memories_updated_at ON memories(updated_at);`,
		`CREATE TABLE IF NOT EXISTS agent_templates (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			prompt TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS scheduled_actions (
			id UUID PRIMARY KEY,
			account_id UUID NOT NULL,
			artist_id UUID,
			title TEXT NOT NULL,
			prompt TEXT NOT NULL,
			schedule TEXT NOT NULL,
			enabled BOOLEAN NOT NULL DEFAULT TRUE,
			last_run TIMESTAMPTZ,
			next_run TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS error_logs (
			id UUID PRIMARY KEY,
			account_email TEXT,
			tool_name TEXT,
			error_type TEXT,
			error_message TEXT NOT NULL,
			last_message TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS dashboard_users (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, migration := range migrations {
		if _, err := conn.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
