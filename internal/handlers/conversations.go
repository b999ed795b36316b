package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Recoupable-com/founder-dashboard-api/internal/content"
	"github.com/Recoupable-com/founder-dashboard-api/internal/db"
	"github.com/Recoupable-com/founder-dashboard-api/internal/identity"
	"github.com/Recoupable-com/founder-dashboard-api/internal/validation"
)

/* listFetchCap is the batch size for paging through the room listing */
const listFetchCap = 500

/* collectRooms pages through the listing in listFetchCap batches until the
 * source is exhausted, keeping rows that pass keep. Totals computed from the
 * result cover the whole listing, not just the first batch. */
func collectRooms(fetch func(limit, offset int) ([]db.RoomSummary, error), keep func(db.RoomSummary) bool) ([]db.RoomSummary, error) {
	var out []db.RoomSummary
	for offset := 0; ; offset += listFetchCap {
		batch, err := fetch(listFetchCap, offset)
		if err != nil {
			return nil, err
		}
		for _, room := range batch {
			if keep(room) {
				out = append(out, room)
			}
		}
		if len(batch) < listFetchCap {
			return out, nil
		}
	}
}

/* ConversationHandlers handles conversation listing endpoints */
type ConversationHandlers struct {
	queries *db.Queries
	filter  *identity.Filter
}

/* NewConversationHandlers creates new conversation handlers */
func NewConversationHandlers(queries *db.Queries, filter *identity.Filter) *ConversationHandlers {
	return &ConversationHandlers{
		queries: queries,
		filter:  filter,
	}
}

/* ConversationPage is one page of the conversation listing */
type ConversationPage struct {
	Conversations []db.RoomSummary `json:"conversations"`
	Page          int              `json:"page"`
	Limit         int              `json:"limit"`
	Total         int              `json:"total"`
	TotalPages    int              `json:"total_pages"`
}

/* ListConversations lists rooms with pagination, substring search, and
 * test-account exclusion */
func (h *ConversationHandlers) ListConversations(w http.ResponseWriter, r *http.Request) {
	page := validation.ParsePage(r.URL.Query().Get("page"))
	limit := validation.ParseLimit(r.URL.Query().Get("limit"), 20, 100)
	search := r.URL.Query().Get("search")
	excludeTest := r.URL.Query().Get("exclude_test") != "false"

	/* Page through the full listing and paginate in memory: test-account
	 * exclusion happens after identity joins, so SQL OFFSET alone would
	 * skew totals */
	filtered, err := collectRooms(
		func(limit, offset int) ([]db.RoomSummary, error) {
			return h.queries.ListRooms(r.Context(), db.RoomFilter{
				Search: search,
				Limit:  limit,
				Offset: offset,
			})
		},
		func(room db.RoomSummary) bool {
			return !excludeTest || !h.filter.IsTestAccount(room.AccountID, room.AccountEmail, room.AccountWallet)
		},
	)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, err, nil)
		return
	}

	total := len(filtered)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	WriteSuccess(w, ConversationPage{
		Conversations: filtered[start:end],
		Page:          page,
		Limit:         limit,
		Total:         total,
		TotalPages:    totalPages,
	}, http.StatusOK)
}

/* ConversationMessage is one extracted message of a room */
type ConversationMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role,omitempty"`
	Text      string `json:"text"`
	UpdatedAt string `json:"updated_at"`
}

/* GetConversationMessages returns the messages of one room with extracted
 * plain-text content */
func (h *ConversationHandlers) GetConversationMessages(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	roomID := vars["id"]

	if err := validation.ValidateUUID(roomID, "id"); err != nil {
		WriteError(w, r, http.StatusBadRequest, err, nil)
		return
	}

	limit := validation.ParseLimit(r.URL.Query().Get("limit"), 100, 500)
	page := validation.ParsePage(r.URL.Query().Get("page"))
	offset := (page - 1) * limit

	room, err := h.queries.GetRoom(r.Context(), roomID)
	if err != nil {
		WriteError(w, r, http.StatusNotFound, fmt.Errorf("conversation not found"), nil)
		return
	}

	memories, err := h.queries.ListRoomMessages(r.Context(), roomID, limit, offset)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, err, nil)
		return
	}

	messages := make([]ConversationMessage, 0, len(memories))
	for _, m := range memories {
		messages = append(messages, ConversationMessage{
			ID:        m.ID,
			Role:      content.ExtractRole(m.Content),
			Text:      content.ExtractText(m.Content),
			UpdatedAt: m.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	WriteSuccess(w, map[string]interface{}{
		"conversation": room,
		"messages":     messages,
		"page":         page,
		"limit":        limit,
	}, http.StatusOK)
}
