package notifications

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

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	notifications, err := h.service.ListNotifications(r.Context(), principal.ID, limit)
	if err != nil {
		respondNotificationError(w, err, "Failed to list notifications")
		return
	}
	if notifications == nil {
		notifications = []*Notification{}
	}

	utils.RespondWithJSON(w, http.StatusOK, notifications)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.service.MarkRead(r.Context(), id, principal.ID); err != nil {
		respondNotificationError(w, err, "Failed to mark notification as read")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	prefs, err := h.service.GetPreferences(r.Context(), principal.ID)
	if err != nil {
		respondNotificationError(w, err, "Failed to get preferences")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, prefs)
}

func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var dto UpdatePreferencesDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	prefs, err := h.service.UpdatePreferences(r.Context(), principal.ID, &dto)
	if err != nil {
		respondNotificationError(w, err, "Failed to update preferences")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, prefs)
}

func respondNotificationError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotificationNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Notification not found")
	case errors.Is(err, database.ErrUnavailable):
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Data store unavailable")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
