package identity

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsTestEmail(t *testing.T) {
	f := NewFilter(DefaultRules())

	tests := []struct {
		name     string
		email    string
		expected bool
	}{
		{
			name:     "normal user email",
			email:    "sam@label.io",
			expected: false,
		},
		{
			name:     "test substring in local part",
			email:    "testuser@gmail.com",
			expected: true,
		},
		{
			name:     "plus-demo alias",
			email:    "sam+demo@label.io",
			expected: true,
		},
		{
			name:     "internal domain",
			email:    "sam@recoupable.com",
			expected: true,
		},
		{
			name:     "example domain",
			email:    "anyone@example.com",
			expected: true,
		},
		{
			name:     "substring rules ignore the domain part",
			email:    "sam@latest.io",
			expected: false,
		},
		{
			name:     "case insensitive",
			email:    "TestUser@Gmail.com",
			expected: true,
		},
		{
			name:     "empty email is not a test account",
			email:    "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.IsTestEmail(tt.email); got != tt.expected {
				t.Errorf("IsTestEmail(%q) = %v, want %v", tt.email, got, tt.expected)
			}
		})
	}
}

func TestIsTestAccount(t *testing.T) {
	f := NewFilter(Rules{
		Emails:     []string{"known@label.io"},
		Wallets:    []string{"0xDEADBEEF"},
		AccountIDs: []string{"acct-1"},
	})

	tests := []struct {
		name      string
		accountID string
		email     string
		wallet    string
		expected  bool
	}{
		{
			name:      "flagged account id",
			accountID: "acct-1",
			expected:  true,
		},
		{
			name:     "flagged exact email",
			email:    "known@label.io",
			expected: true,
		},
		{
			name:     "flagged wallet, case insensitive",
			wallet:   "0xdeadbeef",
			expected: true,
		},
		{
			name:      "clean identity",
			accountID: "acct-2",
			email:     "real@label.io",
			wallet:    "0xCAFE",
			expected:  false,
		},
		{
			name:     "email flags even when wallet is clean",
			email:    "known@label.io",
			wallet:   "0xCAFE",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.IsTestAccount(tt.accountID, tt.email, tt.wallet); got != tt.expected {
				t.Errorf("IsTestAccount(%q, %q, %q) = %v, want %v",
					tt.accountID, tt.email, tt.wallet, got, tt.expected)
			}
		})
	}
}

func TestLoadFilterMergesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	rules := `
emails:
  - extra@label.io
email_domains:
  - staging.dev
wallets:
  - "0xABC"
account_ids:
  - acct-extra
`
	if err := os.WriteFile(path, []byte(rules), 0o600); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	f, err := LoadFilter(path)
	if err != nil {
		t.Fatalf("LoadFilter: %v", err)
	}

	// File rules apply
	if !f.IsTestEmail("extra@label.io") {
		t.Error("exact email from file should flag")
	}
	if !f.IsTestEmail("anyone@staging.dev") {
		t.Error("domain from file should flag")
	}
	if !f.IsTestWallet("0xabc") {
		t.Error("wallet from file should flag")
	}
	if !f.IsTestAccount("acct-extra", "", "") {
		t.Error("account id from file should flag")
	}

	// Defaults still apply after the merge
	if !f.IsTestEmail("testuser@gmail.com") {
		t.Error("default substring rule should still flag")
	}
}

func TestLoadFilterMissingFile(t *testing.T) {
	if _, err := LoadFilter("/nonexistent/rules.yaml"); err == nil {
		t.Error("expected error for missing rules file")
	}
}

func TestLoadFilterEmptyPath(t *testing.T) {
	f, err := LoadFilter("")
	if err != nil {
		t.Fatalf("LoadFilter(\"\"): %v", err)
	}
	if !f.IsTestEmail("anyone@example.com") {
		t.Error("defaults should load with empty path")
	}
}

func TestDisplayIdentity(t *testing.T) {
	if got := DisplayIdentity("sam@label.io", "0xABC"); got != "sam@label.io" {
		t.Errorf("DisplayIdentity prefers email, got %q", got)
	}
	if got := DisplayIdentity("", "0xABC"); got != "0xABC" {
		t.Errorf("DisplayIdentity falls back to wallet, got %q", got)
	}
}
