package notifications

import (
	"github.com/gorilla/mux"

	"github.com/fitlink/fitlink-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/notificaciones").Subrouter()
	api.Use(authMiddleware.Authenticate)
	api.HandleFunc("", handler.ListNotifications).Methods("GET")
	api.HandleFunc("/preferencias", handler.GetPreferences).Methods("GET")
	api.HandleFunc("/preferencias", handler.UpdatePreferences).Methods("PUT")
	api.HandleFunc("/{id:[0-9]+}/leer", handler.MarkRead).Methods("PUT")
}
