package cache

import (
	"testing"
	"time"
)

func TestCacheGetSet(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache should miss")
	}

	c.Set("k", 42)

	v, ok := c.Get("k")
	if !ok {
		t.Fatal("Get should hit after Set")
	}
	if v.(int) != 42 {
		t.Errorf("Get = %v, want 42", v)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := New(20 * time.Millisecond)
	defer c.Close()

	c.Set("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry should be live immediately after Set")
	}

	time.Sleep(50 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("entry should have expired")
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	c.Set("k", "v")
	c.Invalidate("k")

	if _, ok := c.Get("k"); ok {
		t.Error("Get should miss after Invalidate")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestCacheOverwrite(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	c.Set("k", "old")
	c.Set("k", "new")

	v, _ := c.Get("k")
	if v != "new" {
		t.Errorf("Get = %v, want new", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		params   map[string]string
		expected string
	}{
		{
			name:     "no params",
			prefix:   "leaderboard",
			params:   nil,
			expected: "leaderboard",
		},
		{
			name:     "single param",
			prefix:   "usage",
			params:   map[string]string{"range": "7d"},
			expected: "usage|range=7d",
		},
		{
			name:     "params sorted by key",
			prefix:   "usage",
			params:   map[string]string{"range": "30d", "exclude_test": "true"},
			expected: "usage|exclude_test=true|range=30d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Key(tt.prefix, tt.params)
			if got != tt.expected {
				t.Errorf("Key = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestKeyDeterministic(t *testing.T) {
	a := Key("p", map[string]string{"a": "1", "b": "2", "c": "3"})
	for i := 0; i < 20; i++ {
		if b := Key("p", map[string]string{"c": "3", "a": "1", "b": "2"}); b != a {
			t.Fatalf("Key not deterministic: %q vs %q", a, b)
		}
	}
}
