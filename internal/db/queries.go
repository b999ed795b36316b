package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Queries provides database operations
type Queries struct {
	db *sql.DB
}

// NewQueries creates a new Queries instance
func NewQueries(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// GetDB returns the underlying database connection
func (q *Queries) GetDB() *sql.DB {
	return q.db
}

// Room operations

// RoomFilter narrows room listings
type RoomFilter struct {
	Search string // substring match on topic, email, or artist name
	Limit  int
	Offset int
}

// ListRooms lists rooms joined with identity and message counts,
// newest activity first
func (q *Queries) ListRooms(ctx context.Context, f RoomFilter) ([]RoomSummary, error) {
	query := `
		SELECT r.id, r.account_id, COALESCE(r.artist_id, ''), COALESCE(r.topic, ''), r.updated_at,
			COALESCE(ae.email, ''), COALESCE(aw.wallet, ''), COALESCE(art.name, ''),
			COALESCE(mc.message_count, 0), mc.last_message_at
		FROM rooms r
		LEFT JOIN account_emails ae ON ae.account_id = r.account_id
		LEFT JOIN account_wallets aw ON aw.account_id = r.account_id
		LEFT JOIN accounts art ON art.id = r.artist_id
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS message_count, MAX(m.updated_at) AS last_message_at
			FROM memories m WHERE m.room_id = r.id
		) mc ON true
		WHERE ($1 = '' OR r.topic ILIKE '%' || $1 || '%'
			OR ae.email ILIKE '%' || $1 || '%'
			OR art.name ILIKE '%' || $1 || '%')
		ORDER BY r.updated_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.db.QueryContext(ctx, query, f.Search, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []RoomSummary
	for rows.Next() {
		var s RoomSummary
		var lastMessageAt sql.NullTime
		if err := rows.Scan(
			&s.ID, &s.AccountID, &s.ArtistID, &s.Topic, &s.UpdatedAt,
			&s.AccountEmail, &s.AccountWallet, &s.ArtistName,
			&s.MessageCount, &lastMessageAt); err != nil {
			return nil, err
		}
		if lastMessageAt.Valid {
			s.LastMessageAt = &lastMessageAt.Time
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// CountRooms counts rooms matching a filter (for pagination totals)
func (q *Queries) CountRooms(ctx context.Context, f RoomFilter) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM rooms r
		LEFT JOIN account_emails ae ON ae.account_id = r.account_id
		LEFT JOIN accounts art ON art.id = r.artist_id
		WHERE ($1 = '' OR r.topic ILIKE '%' || $1 || '%'
			OR ae.email ILIKE '%' || $1 || '%'
			OR art.name ILIKE '%' || $1 || '%')
	`
	var count int
	err := q.db.QueryRowContext(ctx, query, f.Search).Scan(&count)
	return count, err
}

// GetRoom gets a single room with identity joins
func (q *Queries) GetRoom(ctx context.Context, id string) (*RoomSummary, error) {
	query := `
		SELECT r.id, r.account_id, COALESCE(r.artist_id, ''), COALESCE(r.topic, ''), r.updated_at,
			COALESCE(ae.email, ''), COALESCE(aw.wallet, ''), COALESCE(art.name, '')
		FROM rooms r
		LEFT JOIN account_emails ae ON ae.account_id = r.account_id
		LEFT JOIN account_wallets aw ON aw.account_id = r.account_id
		LEFT JOIN accounts art ON art.id = r.artist_id
		WHERE r.id = $1
	`
	var s RoomSummary
	err := q.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.AccountID, &s.ArtistID, &s.Topic, &s.UpdatedAt,
		&s.AccountEmail, &s.AccountWallet, &s.ArtistName)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListRoomMessages lists the messages of one room, oldest first
func (q *Queries) ListRoomMessages(ctx context.Context, roomID string, limit, offset int) ([]Memory, error) {
	query := `
		SELECT id, room_id, content, updated_at
		FROM memories
		WHERE room_id = $1
		ORDER BY updated_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.db.QueryContext(ctx, query, roomID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memories []Memory
	for rows.Next() {
		var m Memory
		if err := rows.Scan(&m.ID, &m.RoomID, &m.Content, &m.UpdatedAt); err != nil {
			return nil, err
		}
		memories = append(memories, m)
	}

	return memories, rows.Err()
}

// Activity aggregation

// AccountActivitySince aggregates per-account message counts, room counts,
// distinct active days, and last-active timestamps since a cutoff
func (q *Queries) AccountActivitySince(ctx context.Context, since time.Time) ([]AccountActivity, error) {
	query := `
		SELECT r.account_id,
			COALESCE(ae.email, ''), COALESCE(aw.wallet, ''),
			COUNT(m.id) AS messages,
			COUNT(DISTINCT r.id) AS rooms,
			COUNT(DISTINCT date_trunc('day', m.updated_at)) AS active_days,
			MAX(m.updated_at) AS last_active
		FROM memories m
		JOIN rooms r ON r.id = m.room_id
		LEFT JOIN account_emails ae ON ae.account_id = r.account_id
		LEFT JOIN account_wallets aw ON aw.account_id = r.account_id
		WHERE m.updated_at >= $1
		GROUP BY r.account_id, ae.email, aw.wallet
		ORDER BY messages DESC
	`
	rows, err := q.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []AccountActivity
	for rows.Next() {
		var a AccountActivity
		var lastActive sql.NullTime
		if err := rows.Scan(&a.AccountID, &a.Email, &a.Wallet,
			&a.Messages, &a.Rooms, &a.ActiveDays, &lastActive); err != nil {
			return nil, err
		}
		if lastActive.Valid {
			a.LastActive = &lastActive.Time
		}
		activities = append(activities, a)
	}

	return activities, rows.Err()
}

// DailyAccountActivitySince returns per-day, per-account message counts
// since a cutoff, with identity joins so test accounts can be filtered out
// before the chart series is derived
func (q *Queries) DailyAccountActivitySince(ctx context.Context, since time.Time) ([]DailyAccountActivity, error) {
	query := `
		SELECT date_trunc('day', m.updated_at) AS day,
			r.account_id,
			COALESCE(ae.email, ''), COALESCE(aw.wallet, ''),
			COUNT(m.id) AS messages
		FROM memories m
		JOIN rooms r ON r.id = m.room_id
		LEFT JOIN account_emails ae ON ae.account_id = r.account_id
		LEFT JOIN account_wallets aw ON aw.account_id = r.account_id
		WHERE m.updated_at >= $1
		GROUP BY day, r.account_id, ae.email, aw.wallet
		ORDER BY day ASC
	`
	rows, err := q.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activity []DailyAccountActivity
	for rows.Next() {
		var a DailyAccountActivity
		if err := rows.Scan(&a.Day, &a.AccountID, &a.Email, &a.Wallet, &a.Messages); err != nil {
			return nil, err
		}
		activity = append(activity, a)
	}

	return activity, rows.Err()
}

// ActiveAccounts returns accounts with at least one message in [from, to),
// with identity joins so test accounts can be filtered out
func (q *Queries) ActiveAccounts(ctx context.Context, from, to time.Time) ([]AccountActivity, error) {
	query := `
		SELECT r.account_id,
			COALESCE(ae.email, ''), COALESCE(aw.wallet, ''),
			COUNT(m.id) AS messages,
			MAX(m.updated_at) AS last_active
		FROM memories m
		JOIN rooms r ON r.id = m.room_id
		LEFT JOIN account_emails ae ON ae.account_id = r.account_id
		LEFT JOIN account_wallets aw ON aw.account_id = r.account_id
		WHERE m.updated_at >= $1 AND m.updated_at < $2
		GROUP BY r.account_id, ae.email, aw.wallet
	`
	rows, err := q.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []AccountActivity
	for rows.Next() {
		var a AccountActivity
		var lastActive sql.NullTime
		if err := rows.Scan(&a.AccountID, &a.Email, &a.Wallet, &a.Messages, &lastActive); err != nil {
			return nil, err
		}
		if lastActive.Valid {
			a.LastActive = &lastActive.Time
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

// Messages for template matching

// ListMessagesSince lists messages joined with room identity since a cutoff,
// oldest first so first-used aggregation is stable
func (q *Queries) ListMessagesSince(ctx context.Context, since time.Time, limit int) ([]MessageRecord, error) {
	query := `
		SELECT m.id, m.room_id, r.account_id, COALESCE(r.artist_id, ''),
			COALESCE(ae.email, ''), COALESCE(aw.wallet, ''), m.content, m.updated_at
		FROM memories m
		JOIN rooms r ON r.id = m.room_id
		LEFT JOIN account_emails ae ON ae.account_id = r.account_id
		LEFT JOIN account_wallets aw ON aw.account_id = r.account_id
		WHERE m.updated_at >= $1
		ORDER BY m.updated_at ASC
		LIMIT $2
	`
	rows, err := q.db.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []MessageRecord
	for rows.Next() {
		var rec MessageRecord
		if err := rows.Scan(&rec.MemoryID, &rec.RoomID, &rec.AccountID,
			&rec.ArtistID, &rec.Email, &rec.Wallet, &rec.Content, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Agent templates

// ListAgentTemplates lists the template library
func (q *Queries) ListAgentTemplates(ctx context.Context) ([]AgentTemplate, error) {
	query := `
		SELECT id, title, COALESCE(description, ''), prompt, created_at
		FROM agent_templates
		ORDER BY title ASC
	`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []AgentTemplate
	for rows.Next() {
		var t AgentTemplate
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Prompt, &t.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}

	return templates, rows.Err()
}

// Error logs

// ListErrorLogs lists tool-invocation failures since a cutoff, newest first.
// tool narrows to a single tool name when non-empty.
func (q *Queries) ListErrorLogs(ctx context.Context, since time.Time, tool string, limit int) ([]ErrorLog, error) {
	query := `
		SELECT id, COALESCE(account_email, ''), COALESCE(tool_name, ''),
			COALESCE(error_type, ''), error_message, COALESCE(last_message, ''), created_at
		FROM error_logs
		WHERE created_at >= $1 AND ($2 = '' OR tool_name = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := q.db.QueryContext(ctx, query, since, tool, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []ErrorLog
	for rows.Next() {
		var e ErrorLog
		if err := rows.Scan(&e.ID, &e.AccountEmail, &e.ToolName,
			&e.ErrorType, &e.ErrorMessage, &e.LastMessage, &e.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, e)
	}

	return logs, rows.Err()
}

// Scheduled actions

// ListScheduledActions lists all recurring prompts
func (q *Queries) ListScheduledActions(ctx context.Context) ([]ScheduledAction, error) {
	query := `
		SELECT id, account_id, COALESCE(artist_id, ''), title, prompt, schedule,
			enabled, last_run, next_run, created_at
		FROM scheduled_actions
		ORDER BY created_at DESC
	`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []ScheduledAction
	for rows.Next() {
		var a ScheduledAction
		var lastRun, nextRun sql.NullTime
		if err := rows.Scan(&a.ID, &a.AccountID, &a.ArtistID, &a.Title, &a.Prompt,
			&a.Schedule, &a.Enabled, &lastRun, &nextRun, &a.CreatedAt); err != nil {
			return nil, err
		}
		if lastRun.Valid {
			a.LastRun = &lastRun.Time
		}
		if nextRun.Valid {
			a.NextRun = &nextRun.Time
		}
		actions = append(actions, a)
	}

	return actions, rows.Err()
}

// Headline counts for the dashboard overview

// CountTotals returns total rooms, messages, and accounts
func (q *Queries) CountTotals(ctx context.Context) (rooms, messages, accounts int, err error) {
	err = q.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM rooms),
			(SELECT COUNT(*) FROM memories),
			(SELECT COUNT(*) FROM accounts)
	`).Scan(&rooms, &messages, &accounts)
	return rooms, messages, accounts, err
}

// Dashboard user operations (the only table this service owns)

// GetDashboardUserByUsername gets a dashboard user by username
func (q *Queries) GetDashboardUserByUsername(ctx context.Context, username string) (*DashboardUser, error) {
	var u DashboardUser
	query := `
		SELECT id, username, password_hash, is_admin, created_at, updated_at
		FROM dashboard_users
		WHERE username = $1
	`
	err := q.db.QueryRowContext(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateDashboardUser creates a dashboard user
func (q *Queries) CreateDashboardUser(ctx context.Context, user *DashboardUser) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	query := `
		INSERT INTO dashboard_users (id, username, password_hash, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.db.ExecContext(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.IsAdmin, user.CreatedAt, user.UpdatedAt)
	return err
}
