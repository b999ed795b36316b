package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/Recoupable-com/founder-dashboard-api/internal/db"
	testutil "github.com/Recoupable-com/founder-dashboard-api/internal/testing"
)

func TestListRoomsAndMessages(t *testing.T) {
	tdb := testutil.SetupTestDB(t)
	defer tdb.CleanupTestDB(t)

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	accountID, err := testutil.CreateTestAccount(ctx, tdb.DB, "Sam", "sam@label.io", "")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	roomID, err := testutil.CreateTestRoom(ctx, tdb.DB, accountID, "Release planning", now)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	if _, err := testutil.InsertTestMessage(ctx, tdb.DB, roomID, "user", "draft a release plan", now.Add(-time.Hour)); err != nil {
		t.Fatalf("insert message: %v", err)
	}
	if _, err := testutil.InsertTestMessage(ctx, tdb.DB, roomID, "assistant", "here is the plan", now); err != nil {
		t.Fatalf("insert message: %v", err)
	}

	rooms, err := tdb.Queries.ListRooms(ctx, db.RoomFilter{Limit: 10})
	if err != nil {
		t.Fatalf("ListRooms: %v", err)
	}
	if len(rooms) != 1 {
		t.Fatalf("len(rooms) = %d, want 1", len(rooms))
	}
	if rooms[0].MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2", rooms[0].MessageCount)
	}
	if rooms[0].AccountEmail != "sam@label.io" {
		t.Errorf("AccountEmail = %q, want sam@label.io", rooms[0].AccountEmail)
	}

	// Search narrows by topic
	filtered, err := tdb.Queries.ListRooms(ctx, db.RoomFilter{Search: "release", Limit: 10})
	if err != nil {
		t.Fatalf("ListRooms search: %v", err)
	}
	if len(filtered) != 1 {
		t.Errorf("search hit %d rooms, want 1", len(filtered))
	}
	none, err := tdb.Queries.ListRooms(ctx, db.RoomFilter{Search: "no-such-topic", Limit: 10})
	if err != nil {
		t.Fatalf("ListRooms search: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("search hit %d rooms, want 0", len(none))
	}

	// Messages come back oldest first
	messages, err := tdb.Queries.ListRoomMessages(ctx, roomID, 10, 0)
	if err != nil {
		t.Fatalf("ListRoomMessages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(messages))
	}
	if !messages[0].UpdatedAt.Before(messages[1].UpdatedAt) {
		t.Error("messages should be ordered oldest first")
	}
}

func TestAccountActivitySince(t *testing.T) {
	tdb := testutil.SetupTestDB(t)
	defer tdb.CleanupTestDB(t)

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	accountID, err := testutil.CreateTestAccount(ctx, tdb.DB, "Sam", "sam@label.io", "0xABC")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	roomID, err := testutil.CreateTestRoom(ctx, tdb.DB, accountID, "Chat", now)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	// Two messages on one day, one on another: two distinct active days
	for _, at := range []time.Time{
		now.Add(-48 * time.Hour),
		now.Add(-47 * time.Hour),
		now.Add(-1 * time.Hour),
	} {
		if _, err := testutil.InsertTestMessage(ctx, tdb.DB, roomID, "user", "hello", at); err != nil {
			t.Fatalf("insert message: %v", err)
		}
	}

	activities, err := tdb.Queries.AccountActivitySince(ctx, now.Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("AccountActivitySince: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("len(activities) = %d, want 1", len(activities))
	}

	a := activities[0]
	if a.AccountID != accountID {
		t.Errorf("AccountID = %q, want %q", a.AccountID, accountID)
	}
	if a.Messages != 3 {
		t.Errorf("Messages = %d, want 3", a.Messages)
	}
	if a.Rooms != 1 {
		t.Errorf("Rooms = %d, want 1", a.Rooms)
	}
	if a.ActiveDays != 2 {
		t.Errorf("ActiveDays = %d, want 2", a.ActiveDays)
	}
	if a.Email != "sam@label.io" {
		t.Errorf("Email = %q, want sam@label.io", a.Email)
	}
	if a.Wallet != "0xABC" {
		t.Errorf("Wallet = %q, want 0xABC", a.Wallet)
	}

	// A tighter cutoff drops the older day
	recent, err := tdb.Queries.AccountActivitySince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("AccountActivitySince: %v", err)
	}
	if len(recent) != 1 || recent[0].Messages != 1 {
		t.Errorf("recent activity = %+v, want one account with one message", recent)
	}
}

func TestActiveAccountsWindow(t *testing.T) {
	tdb := testutil.SetupTestDB(t)
	defer tdb.CleanupTestDB(t)

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	accountID, err := testutil.CreateTestAccount(ctx, tdb.DB, "Sam", "sam@label.io", "")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	roomID, err := testutil.CreateTestRoom(ctx, tdb.DB, accountID, "Chat", now)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if _, err := testutil.InsertTestMessage(ctx, tdb.DB, roomID, "user", "hi", now.Add(-10*24*time.Hour)); err != nil {
		t.Fatalf("insert message: %v", err)
	}

	// Window containing the message
	hits, err := tdb.Queries.ActiveAccounts(ctx, now.Add(-14*24*time.Hour), now.Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("ActiveAccounts: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("len(hits) = %d, want 1", len(hits))
	}

	// Window after the message
	misses, err := tdb.Queries.ActiveAccounts(ctx, now.Add(-7*24*time.Hour), now)
	if err != nil {
		t.Fatalf("ActiveAccounts: %v", err)
	}
	if len(misses) != 0 {
		t.Errorf("len(misses) = %d, want 0", len(misses))
	}
}

func TestDailyAccountActivitySince(t *testing.T) {
	tdb := testutil.SetupTestDB(t)
	defer tdb.CleanupTestDB(t)

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	accountID, err := testutil.CreateTestAccount(ctx, tdb.DB, "Sam", "sam@label.io", "0xABC")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	roomID, err := testutil.CreateTestRoom(ctx, tdb.DB, accountID, "Chat", now)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	// Two messages yesterday, one today, anchored to day boundaries so the
	// buckets are stable regardless of when the test runs
	today := now.Truncate(24 * time.Hour)
	yesterday := today.Add(-24 * time.Hour)
	for _, at := range []time.Time{
		yesterday.Add(3 * time.Hour),
		yesterday.Add(4 * time.Hour),
		today.Add(2 * time.Hour),
	} {
		if _, err := testutil.InsertTestMessage(ctx, tdb.DB, roomID, "user", "hi", at); err != nil {
			t.Fatalf("insert message: %v", err)
		}
	}

	rows, err := tdb.Queries.DailyAccountActivitySince(ctx, now.Add(-3*24*time.Hour))
	if err != nil {
		t.Fatalf("DailyAccountActivitySince: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2 day buckets", len(rows))
	}
	if !rows[0].Day.Before(rows[1].Day) {
		t.Errorf("rows not day-ascending: %v, %v", rows[0].Day, rows[1].Day)
	}
	if rows[0].Messages+rows[1].Messages != 3 {
		t.Errorf("total messages = %d, want 3", rows[0].Messages+rows[1].Messages)
	}
	for _, row := range rows {
		if row.AccountID != accountID {
			t.Errorf("AccountID = %q, want %q", row.AccountID, accountID)
		}
		if row.Email != "sam@label.io" {
			t.Errorf("Email = %q, want sam@label.io", row.Email)
		}
		if row.Wallet != "0xABC" {
			t.Errorf("Wallet = %q, want 0xABC", row.Wallet)
		}
	}
}

func TestListErrorLogs(t *testing.T) {
	tdb := testutil.SetupTestDB(t)
	defer tdb.CleanupTestDB(t)

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	for i, tool := range []string{"spotify_search", "send_email", "spotify_search"} {
		if _, err := testutil.InsertTestError(ctx, tdb.DB, "sam@label.io", tool, "timeout", "deadline exceeded", now.Add(-time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("insert error: %v", err)
		}
	}

	all, err := tdb.Queries.ListErrorLogs(ctx, now.Add(-time.Hour), "", 100)
	if err != nil {
		t.Fatalf("ListErrorLogs: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	// Newest first
	if all[0].CreatedAt.Before(all[1].CreatedAt) {
		t.Error("errors should be ordered newest first")
	}

	byTool, err := tdb.Queries.ListErrorLogs(ctx, now.Add(-time.Hour), "send_email", 100)
	if err != nil {
		t.Fatalf("ListErrorLogs tool filter: %v", err)
	}
	if len(byTool) != 1 {
		t.Errorf("len(byTool) = %d, want 1", len(byTool))
	}
}

func TestDashboardUserRoundTrip(t *testing.T) {
	tdb := testutil.SetupTestDB(t)
	defer tdb.CleanupTestDB(t)

	ctx := context.Background()

	created, err := testutil.CreateTestDashboardUser(ctx, tdb.Queries, "founder", "s3cret-pass", true)
	if err != nil {
		t.Fatalf("create dashboard user: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated user id")
	}

	fetched, err := tdb.Queries.GetDashboardUserByUsername(ctx, "founder")
	if err != nil {
		t.Fatalf("GetDashboardUserByUsername: %v", err)
	}
	if fetched.ID != created.ID {
		t.Errorf("ID = %q, want %q", fetched.ID, created.ID)
	}
	if !fetched.IsAdmin {
		t.Error("IsAdmin should survive the round trip")
	}

	if _, err := tdb.Queries.GetDashboardUserByUsername(ctx, "nobody"); err == nil {
		t.Error("expected error for unknown username")
	}
}
