package supabase

import (
	"context"
	"fmt"

	postgrest "github.com/supabase-community/postgrest-go"
	supabase "github.com/supabase-community/supabase-go"

	"github.com/Recoupable-com/founder-dashboard-api/internal/db"
	"github.com/Recoupable-com/founder-dashboard-api/internal/validation"
)

// Client wraps the Supabase SDK for the read paths that go through PostgREST
// rather than straight SQL. The template library lives in Supabase, so when
// credentials are configured it is read from there; the SQL path stays as the
// fallback.
type Client struct {
	client *supabase.Client
}

// NewClient instantiates the Supabase client
func NewClient(url, serviceRoleKey string) (*Client, error) {
	if serviceRoleKey == "" {
		return nil, fmt.Errorf("supabase credentials missing: service role key not set")
	}
	if err := validation.ValidateURLRequired(url, "supabase url"); err != nil {
		return nil, err
	}

	client, err := supabase.NewClient(url, serviceRoleKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{client: client}, nil
}

// Ping verifies the connection with a one-row fetch against agent_templates
func (c *Client) Ping(ctx context.Context) error {
	_ = ctx
	if c == nil || c.client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	var probe []db.AgentTemplate
	_, err := c.client.From("agent_templates").Select("id", "", false).Limit(1, "").ExecuteTo(&probe)
	return err
}

// ListAgentTemplates reads the template library via PostgREST
func (c *Client) ListAgentTemplates(ctx context.Context) ([]db.AgentTemplate, error) {
	_ = ctx
	var result []db.AgentTemplate
	_, err := c.client.From("agent_templates").
		Select("*", "", false).
		Order("title", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&result)
	return result, err
}
