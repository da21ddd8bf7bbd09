package profiles

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fitlink/fitlink-backend/internal/auth"
	"github.com/fitlink/fitlink-backend/internal/common/database"
	"github.com/fitlink/fitlink-backend/internal/common/utils"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// GetMyProfile returns the authenticated user's profile
func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := h.repo.GetProfile(r.Context(), principal.ID)
	if err != nil {
		respondRepoError(w, err, "Failed to get profile")
		return
	}

	utils.RespondWithData(w, http.StatusOK, profile)
}

// UpdateMyProfile applies a partial update to the authenticated user's profile
func (h *Handler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var dto UpdateProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	for _, id := range dto.Intereses {
		if id <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "intereses must be positive category ids")
			return
		}
	}

	profile, err := h.repo.UpdateProfile(r.Context(), principal.ID, &dto)
	if err != nil {
		respondRepoError(w, err, "Failed to update profile")
		return
	}

	utils.RespondWithData(w, http.StatusOK, profile)
}

// ListUsers returns the user directory, excluding the caller
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	users, err := h.repo.ListProfiles(r.Context(), principal.ID)
	if err != nil {
		respondRepoError(w, err, "Failed to list users")
		return
	}
	if users == nil {
		users = []*Profile{}
	}

	utils.RespondWithJSON(w, http.StatusOK, users)
}

// GetCategorias lists the sport categories
func (h *Handler) GetCategorias(w http.ResponseWriter, r *http.Request) {
	categorias, err := h.repo.ListCategorias(r.Context())
	if err != nil {
		respondRepoError(w, err, "Failed to get categories")
		return
	}
	if categorias == nil {
		categorias = []*Categoria{}
	}

	utils.RespondWithData(w, http.StatusOK, categorias)
}

// GetNiveles lists the skill levels
func (h *Handler) GetNiveles(w http.ResponseWriter, r *http.Request) {
	niveles, err := h.repo.ListNiveles(r.Context())
	if err != nil {
		respondRepoError(w, err, "Failed to get skill levels")
		return
	}
	if niveles == nil {
		niveles = []*Nivel{}
	}

	utils.RespondWithData(w, http.StatusOK, niveles)
}

func respondRepoError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
	case errors.Is(err, database.ErrUnavailable):
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Data store unavailable")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
