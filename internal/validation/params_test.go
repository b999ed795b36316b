package validation

import (
	"testing"
	"time"
)

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultRange string
		wantRange    string
		wantLookback time.Duration
	}{
		{
			name:         "explicit 1d",
			value:        "1d",
			defaultRange: "7d",
			wantRange:    "1d",
			wantLookback: 24 * time.Hour,
		},
		{
			name:         "explicit 90d",
			value:        "90d",
			defaultRange: "7d",
			wantRange:    "90d",
			wantLookback: 90 * 24 * time.Hour,
		},
		{
			name:         "empty falls back to default",
			value:        "",
			defaultRange: "30d",
			wantRange:    "30d",
			wantLookback: 30 * 24 * time.Hour,
		},
		{
			name:         "unknown falls back to default",
			value:        "365d",
			defaultRange: "30d",
			wantRange:    "30d",
			wantLookback: 30 * 24 * time.Hour,
		},
		{
			name:         "unknown value and unknown default",
			value:        "bogus",
			defaultRange: "also-bogus",
			wantRange:    "7d",
			wantLookback: 7 * 24 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := time.Now()
			since, resolved := ParseTimeRange(tt.value, tt.defaultRange)
			after := time.Now()

			if resolved != tt.wantRange {
				t.Errorf("resolved range = %q, want %q", resolved, tt.wantRange)
			}

			lo := before.Add(-tt.wantLookback)
			hi := after.Add(-tt.wantLookback)
			if since.Before(lo) || since.After(hi) {
				t.Errorf("since = %v, want within [%v, %v]", since, lo, hi)
			}
		})
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{"empty uses default", "", 20},
		{"valid value", "50", 50},
		{"above ceiling clamps", "500", 100},
		{"zero uses default", "0", 20},
		{"negative uses default", "-5", 20},
		{"non-numeric uses default", "abc", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLimit(tt.value, 20, 100); got != tt.expected {
				t.Errorf("ParseLimit(%q) = %d, want %d", tt.value, got, tt.expected)
			}
		})
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{"empty is first page", "", 1},
		{"valid page", "3", 3},
		{"zero is first page", "0", 1},
		{"negative is first page", "-1", 1},
		{"non-numeric is first page", "two", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePage(tt.value); got != tt.expected {
				t.Errorf("ParsePage(%q) = %d, want %d", tt.value, got, tt.expected)
			}
		})
	}
}
