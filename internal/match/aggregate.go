package match

import (
	"sort"
	"time"
)

// Message is one extracted chat message fed into usage aggregation
type Message struct {
	Text      string
	RoomID    string
	AccountID string
	ArtistID  string
	Timestamp time.Time
}

// Template is one entry of the template library
type Template struct {
	ID     string
	Title  string
	Prompt string
}

// TemplateUsage aggregates matches against one template
type TemplateUsage struct {
	TemplateID    string     `json:"template_id"`
	Title         string     `json:"title"`
	Messages      int        `json:"messages"`
	UniqueUsers   int        `json:"unique_users"`
	UniqueArtists int        `json:"unique_artists"`
	FirstUsed     *time.Time `json:"first_used,omitempty"`
	LastUsed      *time.Time `json:"last_used,omitempty"`
	ExactMatches  int        `json:"exact_matches"`
}

// UsageReport is the full template-usage aggregation result
type UsageReport struct {
	Templates        []TemplateUsage `json:"templates"`
	TotalMessages    int             `json:"total_messages"`
	MatchedMessages  int             `json:"matched_messages"`
	MatchRate        float64         `json:"match_rate"`
	TemplatesMatched int             `json:"templates_matched"`
	KindCounts       map[string]int  `json:"kind_counts"`
}

type usageAccumulator struct {
	usage   TemplateUsage
	users   map[string]struct{}
	artists map[string]struct{}
}

// AggregateUsage matches every message against the template library and
// aggregates per-template usage. Messages with empty text are skipped and do
// not count toward the total. Every template appears in the report, matched
// or not, so the dashboard can show zero rows.
func AggregateUsage(messages []Message, templates []Template) UsageReport {
	candidates := make([]Candidate, len(templates))
	accs := make([]*usageAccumulator, len(templates))
	for i, t := range templates {
		candidates[i] = NewCandidate(t.ID, t.Title, t.Prompt)
		accs[i] = &usageAccumulator{
			usage:   TemplateUsage{TemplateID: t.ID, Title: t.Title},
			users:   make(map[string]struct{}),
			artists: make(map[string]struct{}),
		}
	}

	report := UsageReport{KindCounts: make(map[string]int)}
	for _, msg := range messages {
		if msg.Text == "" {
			continue
		}
		report.TotalMessages++

		idx, result := Best(msg.Text, candidates)
		if idx < 0 {
			report.KindCounts[KindNone.String()]++
			continue
		}
		report.KindCounts[result.Kind.String()]++
		report.MatchedMessages++

		acc := accs[idx]
		acc.usage.Messages++
		if result.Kind == KindExact {
			acc.usage.ExactMatches++
		}
		if msg.AccountID != "" {
			acc.users[msg.AccountID] = struct{}{}
		}
		if msg.ArtistID != "" {
			acc.artists[msg.ArtistID] = struct{}{}
		}

		ts := msg.Timestamp
		if acc.usage.FirstUsed == nil || ts.Before(*acc.usage.FirstUsed) {
			first := ts
			acc.usage.FirstUsed = &first
		}
		if acc.usage.LastUsed == nil || ts.After(*acc.usage.LastUsed) {
			last := ts
			acc.usage.LastUsed = &last
		}
	}

	report.Templates = make([]TemplateUsage, 0, len(accs))
	for _, acc := range accs {
		acc.usage.UniqueUsers = len(acc.users)
		acc.usage.UniqueArtists = len(acc.artists)
		if acc.usage.Messages > 0 {
			report.TemplatesMatched++
		}
		report.Templates = append(report.Templates, acc.usage)
	}

	/* Most-used first, ties by title for a stable order */
	sort.SliceStable(report.Templates, func(i, j int) bool {
		if report.Templates[i].Messages != report.Templates[j].Messages {
			return report.Templates[i].Messages > report.Templates[j].Messages
		}
		return report.Templates[i].Title < report.Templates[j].Title
	})

	if report.TotalMessages > 0 {
		report.MatchRate = float64(report.MatchedMessages) / float64(report.TotalMessages)
	}

	return report
}
