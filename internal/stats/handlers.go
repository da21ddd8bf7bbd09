package stats

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/fitlink/fitlink-backend/internal/common/database"
	"github.com/fitlink/fitlink-backend/internal/common/utils"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.GetStats(r.Context(), time.Now().UTC())
	if err != nil {
		if errors.Is(err, database.ErrUnavailable) {
			utils.RespondWithError(w, http.StatusServiceUnavailable, "Data store unavailable")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, stats)
}

func RegisterRoutes(router *mux.Router, handler *Handler) {
	router.HandleFunc("/api/v1/stats", handler.GetStats).Methods("GET")
}
