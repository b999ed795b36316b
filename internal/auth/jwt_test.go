package auth

import (
	"testing"
)

func TestGenerateTokenReadsSecretSetAfterImport(t *testing.T) {
	// The secret must be picked up even when it is set after package load,
	// the way test fixtures set it
	t.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")

	token, err := GenerateToken("user-1", "founder", true)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("Expected a non-empty token")
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("Expected user_id 'user-1', got %q", claims.UserID)
	}
	if claims.Username != "founder" {
		t.Errorf("Expected username 'founder', got %q", claims.Username)
	}
	if !claims.IsAdmin {
		t.Error("Expected is_admin to be true")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")

	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("Expected error for malformed token")
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		expected  string
		expectErr bool
	}{
		{"bearer prefix", "Bearer abc123", "abc123", false},
		{"lowercase bearer", "bearer abc123", "abc123", false},
		{"bare token", "abc123", "abc123", false},
		{"empty header", "", "", true},
		{"too many parts", "Bearer abc 123", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ExtractToken(tt.header)
			if tt.expectErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if token != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, token)
			}
		})
	}
}
