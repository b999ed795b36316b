package handlers

import (
	"context"
	"net/http"
	"testing"

	testutil "github.com/Recoupable-com/founder-dashboard-api/internal/testing"
)

func init() {
	// Wire the full router into the shared test client
	testutil.DefaultServerSetup = SetupTestServer
}

func TestAuthHandlers_Login(t *testing.T) {
	tdb := testutil.SetupTestDB(t)
	defer tdb.CleanupTestDB(t)

	client := testutil.NewTestClient(t, tdb.Queries)
	defer client.Server.Close()

	ctx := context.Background()

	if _, err := testutil.CreateTestDashboardUser(ctx, tdb.Queries, "founder", "password123", true); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	tests := []struct {
		name           string
		request        map[string]interface{}
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful login",
			request: map[string]interface{}{
				"username": "founder",
				"password": "password123",
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var authResp map[string]interface{}
				if err := testutil.ParseResponse(t, resp, &authResp); err != nil {
					t.Fatalf("Failed to parse response: %v", err)
				}
				if authResp["token"] == nil {
					t.Error("Expected token in response")
				}
				if authResp["username"] != "founder" {
					t.Errorf("Expected username founder, got %v", authResp["username"])
				}
				if authResp["is_admin"] != true {
					t.Error("Expected is_admin true")
				}
			},
		},
		{
			name: "wrong password",
			request: map[string]interface{}{
				"username": "founder",
				"password": "wrong",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown user",
			request: map[string]interface{}{
				"username": "nobody",
				"password": "password123",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "missing username",
			request: map[string]interface{}{
				"password": "password123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing password",
			request: map[string]interface{}{
				"username": "founder",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.Post("/api/v1/auth/login", tt.request)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, resp.StatusCode)
			}

			if tt.checkResponse != nil && resp.StatusCode == tt.expectedStatus {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandlers_GetCurrentUser(t *testing.T) {
	tdb := testutil.SetupTestDB(t)
	defer tdb.CleanupTestDB(t)

	client := testutil.NewTestClient(t, tdb.Queries)
	defer client.Server.Close()

	ctx := context.Background()

	// Unauthenticated request is rejected
	resp, err := client.Get("/api/v1/auth/me")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.StatusCode)
	}

	if err := client.AuthenticateAsAdmin(ctx, "admin", "password123"); err != nil {
		t.Fatalf("Failed to authenticate: %v", err)
	}

	resp, err = client.Get("/api/v1/auth/me")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	testutil.AssertStatus(t, resp, http.StatusOK)

	var me map[string]interface{}
	if err := testutil.ParseResponse(t, resp, &me); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if me["username"] != "admin" {
		t.Errorf("Expected username admin, got %v", me["username"])
	}
	if me["is_admin"] != true {
		t.Error("Expected is_admin true")
	}
}
