package identity

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Recoupable-com/founder-dashboard-api/internal/validation"
)

/* Test-account exclusion used to be a scatter of substring checks copied into
 * each route; here it is one rule set shared by every endpoint. Built-in rules
 * cover the obvious internal/test identities; a YAML file can extend them
 * without a redeploy. */

// Rules holds the exclusion rule set
type Rules struct {
	Emails          []string `yaml:"emails"`           // exact email matches
	EmailSubstrings []string `yaml:"email_substrings"` // case-insensitive substring matches
	EmailDomains    []string `yaml:"email_domains"`    // matches the part after @
	Wallets         []string `yaml:"wallets"`          // exact wallet matches
	AccountIDs      []string `yaml:"account_ids"`      // exact account id matches
}

// Filter answers whether an account looks like a test account
type Filter struct {
	emails     map[string]struct{}
	substrings []string
	domains    map[string]struct{}
	wallets    map[string]struct{}
	accountIDs map[string]struct{}
}

// DefaultRules are the built-in exclusions
func DefaultRules() Rules {
	return Rules{
		EmailSubstrings: []string{"test", "+demo"},
		EmailDomains:    []string{"example.com", "recoupable.com"},
	}
}

// NewFilter builds a filter from a rule set
func NewFilter(rules Rules) *Filter {
	f := &Filter{
		emails:     make(map[string]struct{}),
		domains:    make(map[string]struct{}),
		wallets:    make(map[string]struct{}),
		accountIDs: make(map[string]struct{}),
	}
	for _, e := range rules.Emails {
		f.emails[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	for _, s := range rules.EmailSubstrings {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			f.substrings = append(f.substrings, s)
		}
	}
	for _, d := range rules.EmailDomains {
		f.domains[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
	}
	for _, w := range rules.Wallets {
		f.wallets[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	for _, id := range rules.AccountIDs {
		f.accountIDs[strings.TrimSpace(id)] = struct{}{}
	}
	return f
}

// LoadFilter builds a filter from the built-in rules plus an optional YAML
// rules file. An empty path loads only the defaults.
func LoadFilter(path string) (*Filter, error) {
	rules := DefaultRules()

	if path != "" {
		if err := validation.ValidateFilePath(path, "test-account rules file"); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read test-account rules: %w", err)
		}
		var extra Rules
		if err := yaml.Unmarshal(data, &extra); err != nil {
			return nil, fmt.Errorf("parse test-account rules: %w", err)
		}
		rules.Emails = append(rules.Emails, extra.Emails...)
		rules.EmailSubstrings = append(rules.EmailSubstrings, extra.EmailSubstrings...)
		rules.EmailDomains = append(rules.EmailDomains, extra.EmailDomains...)
		rules.Wallets = append(rules.Wallets, extra.Wallets...)
		rules.AccountIDs = append(rules.AccountIDs, extra.AccountIDs...)
	}

	return NewFilter(rules), nil
}

// IsTestEmail reports whether an email belongs to a test account
func (f *Filter) IsTestEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}

	if _, ok := f.emails[email]; ok {
		return true
	}

	if at := strings.LastIndex(email, "@"); at >= 0 {
		if _, ok := f.domains[email[at+1:]]; ok {
			return true
		}
	}

	local := email
	if at := strings.LastIndex(email, "@"); at >= 0 {
		local = email[:at]
	}
	for _, sub := range f.substrings {
		if strings.Contains(local, sub) {
			return true
		}
	}

	return false
}

// IsTestWallet reports whether a wallet belongs to a test account
func (f *Filter) IsTestWallet(wallet string) bool {
	wallet = strings.ToLower(strings.TrimSpace(wallet))
	if wallet == "" {
		return false
	}
	_, ok := f.wallets[wallet]
	return ok
}

// IsTestAccount applies all rules to one account identity. A user may be
// identified by email or wallet address; either marks the account.
func (f *Filter) IsTestAccount(accountID, email, wallet string) bool {
	if _, ok := f.accountIDs[accountID]; ok {
		return true
	}
	return f.IsTestEmail(email) || f.IsTestWallet(wallet)
}

// DisplayIdentity picks the identity string shown for an account: email when
// known, wallet otherwise
func DisplayIdentity(email, wallet string) string {
	if email != "" {
		return email
	}
	return wallet
}
