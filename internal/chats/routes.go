package chats

import (
	"github.com/gorilla/mux"

	"github.com/fitlink/fitlink-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	events := router.PathPrefix("/api/v1/events").Subrouter()
	events.Use(authMiddleware.Authenticate)
	events.HandleFunc("/{id:[0-9]+}/join", handler.JoinEvent).Methods("POST")
	events.HandleFunc("/{id:[0-9]+}/leave", handler.LeaveEvent).Methods("POST")

	chats := router.PathPrefix("/api/v1/chats").Subrouter()
	chats.Use(authMiddleware.Authenticate)
	chats.HandleFunc("", handler.ListMyChats).Methods("GET")
	chats.HandleFunc("/match", handler.MatchEvent).Methods("POST")
	chats.HandleFunc("/{id}/messages", handler.ListMessages).Methods("GET")
	chats.HandleFunc("/{id}/messages", handler.SendMessage).Methods("POST")
}
