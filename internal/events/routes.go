package events

import (
	"github.com/gorilla/mux"

	"github.com/fitlink/fitlink-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	// Browsing events needs no authentication
	public := router.PathPrefix("/api/v1/events").Subrouter()
	public.HandleFunc("", handler.ListEvents).Methods("GET")
	public.HandleFunc("/upcoming", handler.ListUpcoming).Methods("GET")
	public.HandleFunc("/{id:[0-9]+}", handler.GetEvent).Methods("GET")

	api := router.PathPrefix("/api/v1/events").Subrouter()
	api.Use(authMiddleware.Authenticate)
	api.HandleFunc("", handler.CreateEvent).Methods("POST")
	api.HandleFunc("/{id:[0-9]+}/cancel", handler.CancelEvent).Methods("POST")
}
