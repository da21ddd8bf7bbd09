package events

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var dto CreateEventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.service.CreateEvent(r.Context(), principal.ID, &dto)
	if err != nil {
		respondServiceError(w, err, "Failed to create event")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, event)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	event, err := h.service.GetEvent(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to get event")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, event)
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	estado := r.URL.Query().Get("estado")
	limit := queryInt(r, "limit", 50, 200)

	events, err := h.service.ListEvents(r.Context(), estado, limit)
	if err != nil {
		respondServiceError(w, err, "Failed to list events")
		return
	}
	if events == nil {
		events = []*Event{}
	}

	utils.RespondWithJSON(w, http.StatusOK, events)
}

func (h *Handler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20, 100)

	events, err := h.service.ListUpcomingEvents(r.Context(), limit)
	if err != nil {
		respondServiceError(w, err, "Failed to list upcoming events")
		return
	}
	if events == nil {
		events = []*Event{}
	}

	utils.RespondWithJSON(w, http.StatusOK, events)
}

func (h *Handler) CancelEvent(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := eventID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	if err := h.service.CancelEvent(r.Context(), id, principal.ID); err != nil {
		if errors.Is(err, ErrNotEventOwner) {
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
			return
		}
		respondServiceError(w, err, "Failed to cancel event")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func eventID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func queryInt(r *http.Request, key string, def, max int) int {
	raw := r.URL.Query().Get(key)
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

func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrEventNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Event not found")
	case errors.Is(err, database.ErrUnavailable):
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Data store unavailable")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
