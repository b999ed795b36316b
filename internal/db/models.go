package db

import (
	"encoding/json"
	"time"
)

/* Room represents a conversation thread */
type Room struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	ArtistID  string    `json:"artist_id,omitempty"`
	Topic     string    `json:"topic,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

/* RoomSummary is a room joined with identity and message counts for listings */
type RoomSummary struct {
	Room
	AccountEmail  string     `json:"account_email,omitempty"`
	AccountWallet string     `json:"account_wallet,omitempty"`
	ArtistName    string     `json:"artist_name,omitempty"`
	MessageCount  int        `json:"message_count"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

/* Memory represents a single message within a room.
 * Content is raw JSONB: shape is inconsistent across writers (bare string,
 * {content}, {parts:[...]}), so extraction happens in internal/content. */
type Memory struct {
	ID        string          `json:"id"`
	RoomID    string          `json:"room_id"`
	Content   json.RawMessage `json:"content"`
	UpdatedAt time.Time       `json:"updated_at"`
}

/* Account represents an identity record */
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

/* AccountEmail maps an account to an email address */
type AccountEmail struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

/* AccountWallet maps an account to a wallet address */
type AccountWallet struct {
	AccountID string `json:"account_id"`
	Wallet    string `json:"wallet"`
}

/* AccountActivity is an aggregated activity row for one account */
type AccountActivity struct {
	AccountID  string     `json:"account_id"`
	Email      string     `json:"email,omitempty"`
	Wallet     string     `json:"wallet,omitempty"`
	Messages   int        `json:"messages"`
	Rooms      int        `json:"rooms"`
	ActiveDays int        `json:"active_days"`
	LastActive *time.Time `json:"last_active,omitempty"`
}

/* DailyActivity is one day of message/user counts for chart series */
type DailyActivity struct {
	Day         time.Time `json:"day"`
	Messages    int       `json:"messages"`
	ActiveUsers int       `json:"active_users"`
}

/* DailyAccountActivity is one account's message count on one day, the raw
 * unit the chart series is derived from after test-account filtering */
type DailyAccountActivity struct {
	Day       time.Time `json:"day"`
	AccountID string    `json:"account_id"`
	Email     string    `json:"email,omitempty"`
	Wallet    string    `json:"wallet,omitempty"`
	Messages  int       `json:"messages"`
}

/* ScheduledAction represents a cron-like recurring prompt */
type ScheduledAction struct {
	ID        string     `json:"id"`
	AccountID string     `json:"account_id"`
	ArtistID  string     `json:"artist_id,omitempty"`
	Title     string     `json:"title"`
	Prompt    string     `json:"prompt"`
	Schedule  string     `json:"schedule"`
	Enabled   bool       `json:"enabled"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	NextRun   *time.Time `json:"next_run,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

/* AgentTemplate represents a canned prompt from the template library */
type AgentTemplate struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Prompt      string    `json:"prompt"`
	CreatedAt   time.Time `json:"created_at"`
}

/* ErrorLog represents a tool-invocation failure */
type ErrorLog struct {
	ID           string    `json:"id"`
	AccountEmail string    `json:"account_email,omitempty"`
	ToolName     string    `json:"tool_name,omitempty"`
	ErrorType    string    `json:"error_type,omitempty"`
	ErrorMessage string    `json:"error_message"`
	LastMessage  string    `json:"last_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

/* MessageRecord is a message joined with room identity, the unit the
 * template-usage matcher consumes */
type MessageRecord struct {
	MemoryID  string          `json:"memory_id"`
	RoomID    string          `json:"room_id"`
	AccountID string          `json:"account_id"`
	ArtistID  string          `json:"artist_id,omitempty"`
	Email     string          `json:"email,omitempty"`
	Wallet    string          `json:"wallet,omitempty"`
	Content   json.RawMessage `json:"content"`
	UpdatedAt time.Time       `json:"updated_at"`
}

/* DashboardUser is the only table this service owns: dashboard operators */
type DashboardUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
