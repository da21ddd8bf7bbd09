package chats

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/fitlink/fitlink-backend/internal/auth"
	"github.com/fitlink/fitlink-backend/internal/common/database"
	"github.com/fitlink/fitlink-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// JoinEvent handles POST /events/{id}/join.
func (h *Handler) JoinEvent(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	eventoID, err := pathEventID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	chatID, err := h.service.JoinEvent(r.Context(), eventoID, principal.ID)
	if err != nil {
		respondChatError(w, err, "Failed to join event")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, JoinResult{OK: true, EventID: eventoID, ChatID: chatID})
}

// LeaveEvent handles POST /events/{id}/leave.
func (h *Handler) LeaveEvent(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	eventoID, err := pathEventID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	if err := h.service.LeaveEvent(r.Context(), eventoID, principal.ID); err != nil {
		respondChatError(w, err, "Failed to leave event")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// MatchEvent handles POST /chats/match.
func (h *Handler) MatchEvent(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var dto MatchEventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	chat, err := h.service.MatchEvent(r.Context(), dto.EventID, principal.ID)
	if err != nil {
		respondChatError(w, err, "Failed to match event")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, chat)
}

// ListMyChats handles GET /chats.
func (h *Handler) ListMyChats(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	chats, err := h.service.ListMyChats(r.Context(), principal.ID)
	if err != nil {
		respondChatError(w, err, "Failed to list chats")
		return
	}
	if chats == nil {
		chats = []*ChatSummary{}
	}

	utils.RespondWithJSON(w, http.StatusOK, chats)
}

// ListMessages handles GET /chats/{id}/messages?limit=&before=.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	chatID := mux.Vars(r)["id"]
	limit := queryLimit(r, 50, 200)

	var before *time.Time
	if raw := r.URL.Query().Get("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid 'before' timestamp")
			return
		}
		before = &t
	}

	messages, err := h.service.ListMessages(r.Context(), chatID, principal.ID, limit, before)
	if err != nil {
		respondChatError(w, err, "Failed to list messages")
		return
	}
	if messages == nil {
		messages = []*Message{}
	}

	utils.RespondWithJSON(w, http.StatusOK, messages)
}

// SendMessage handles POST /chats/{id}/messages.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	chatID := mux.Vars(r)["id"]

	var dto SendMessageDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	message, err := h.service.SendMessage(r.Context(), chatID, principal.ID, &dto)
	if err != nil {
		respondChatError(w, err, "Failed to send message")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, message)
}

func pathEventID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func queryLimit(r *http.Request, def, max int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

func respondChatError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrEventNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Event not found")
	case errors.Is(err, ErrEventNotJoinable):
		utils.RespondWithError(w, http.StatusConflict, "Event is cancelled or already started")
	case errors.Is(err, ErrChatNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Chat not found")
	case errors.Is(err, ErrNotChatMember):
		utils.RespondWithError(w, http.StatusForbidden, "You are not a member of this chat")
	case errors.Is(err, ErrOwnEvent):
		utils.RespondWithError(w, http.StatusBadRequest, "You cannot match with your own event")
	case errors.Is(err, database.ErrUnavailable):
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Data store unavailable")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
