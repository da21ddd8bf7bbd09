package profiles

import (
	"github.com/gorilla/mux"

	"github.com/fitlink/fitlink-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/users").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/me", handler.GetMyProfile).Methods("GET")
	api.HandleFunc("/me", handler.UpdateMyProfile).Methods("PUT")
	api.HandleFunc("/categorias", handler.GetCategorias).Methods("GET")
	api.HandleFunc("/niveles", handler.GetNiveles).Methods("GET")
	api.HandleFunc("", handler.ListUsers).Methods("GET")
}
