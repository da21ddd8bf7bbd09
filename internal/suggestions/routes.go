package suggestions

import (
	"github.com/gorilla/mux"

	"github.com/fitlink/fitlink-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/events/suggestions", handler.GetEventSuggestions).Methods("GET")
	api.HandleFunc("/users/suggestions", handler.GetUserSuggestions).Methods("GET")
}
