package suggestions

import (
	"errors"
	"net/http"

	"github.com/fitlink/fitlink-backend/internal/auth"
	"github.com/fitlink/fitlink-backend/internal/common/database"
	"github.com/fitlink/fitlink-backend/internal/common/utils"
	"github.com/fitlink/fitlink-backend/internal/profiles"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetEventSuggestions returns the priority-ordered event list.
// No matches is not an error; the client gets an empty array.
func (h *Handler) GetEventSuggestions(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := h.service.EventSuggestions(r.Context(), principal.ID)
	if err != nil {
		respondSuggestionError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

// GetUserSuggestions returns the priority-ordered user list
func (h *Handler) GetUserSuggestions(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := h.service.UserSuggestions(r.Context(), principal.ID)
	if err != nil {
		respondSuggestionError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

func respondSuggestionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profiles.ErrProfileNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "User profile not found")
	case errors.Is(err, database.ErrUnavailable):
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Data store unavailable")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute suggestions")
	}
}
