package handlers

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Recoupable-com/founder-dashboard-api/internal/db"
)

/* syntheticRooms builds n summaries; every third one belongs to a test
 * account so filtering has something to drop */
func syntheticRooms(n int) []db.RoomSummary {
	rooms := make([]db.RoomSummary, n)
	for i := range rooms {
		email := fmt.Sprintf("founder%d@example.com", i)
		if i%3 == 0 {
			email = fmt.Sprintf("qa%d@testing.example.com", i)
		}
		rooms[i] = db.RoomSummary{AccountEmail: email}
		rooms[i].ID = fmt.Sprintf("room-%d", i)
	}
	return rooms
}

func TestCollectRoomsPagesPastFetchCap(t *testing.T) {
	/* More rooms than one batch holds, so totals must span batches */
	all := syntheticRooms(listFetchCap*2 + 203)

	fetchCalls := 0
	fetch := func(limit, offset int) ([]db.RoomSummary, error) {
		fetchCalls++
		if offset >= len(all) {
			return nil, nil
		}
		end := offset + limit
		if end > len(all) {
			end = len(all)
		}
		return all[offset:end], nil
	}

	keep := func(room db.RoomSummary) bool {
		return !strings.Contains(room.AccountEmail, "@testing.")
	}

	got, err := collectRooms(fetch, keep)
	if err != nil {
		t.Fatalf("collectRooms failed: %v", err)
	}

	wantKept := 0
	for _, room := range all {
		if keep(room) {
			wantKept++
		}
	}

	if len(got) != wantKept {
		t.Errorf("Expected %d rooms after filtering, got %d", wantKept, len(got))
	}
	if fetchCalls != 3 {
		t.Errorf("Expected 3 fetch batches, got %d", fetchCalls)
	}
	if got[0].ID != "room-1" {
		t.Errorf("Expected first kept room to be room-1, got %s", got[0].ID)
	}
}

func TestCollectRoomsSingleBatch(t *testing.T) {
	all := syntheticRooms(7)

	fetch := func(limit, offset int) ([]db.RoomSummary, error) {
		if offset > 0 {
			t.Error("Expected a single fetch for a small listing")
		}
		return all, nil
	}

	got, err := collectRooms(fetch, func(db.RoomSummary) bool { return true })
	if err != nil {
		t.Fatalf("collectRooms failed: %v", err)
	}
	if len(got) != 7 {
		t.Errorf("Expected 7 rooms, got %d", len(got))
	}
}

func TestCollectRoomsPropagatesFetchError(t *testing.T) {
	wantErr := errors.New("connection reset")
	fetch := func(limit, offset int) ([]db.RoomSummary, error) {
		return nil, wantErr
	}

	if _, err := collectRooms(fetch, func(db.RoomSummary) bool { return true }); !errors.Is(err, wantErr) {
		t.Errorf("Expected fetch error to propagate, got %v", err)
	}
}
