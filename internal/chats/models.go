package chats

import "time"

// Chat is a conversation: either the single group chat bound to an event
// (evento_id set, unique) or a direct 1:1 chat (evento_id null).
type Chat struct {
	ID        string    `json:"id" db:"id"`
	EventoID  *int64    `json:"evento_id,omitempty" db:"evento_id"`
	Titulo    *string   `json:"titulo,omitempty" db:"titulo"`
	IsGroup   bool      `json:"is_group" db:"is_group"`
	CreatedBy *string   `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ChatSummary is a chat as listed for one user, with last-message preview
type ChatSummary struct {
	ID          string     `json:"id" db:"id"`
	Titulo      *string    `json:"titulo,omitempty" db:"titulo"`
	IsGroup     bool       `json:"is_group" db:"is_group"`
	EventoID    *int64     `json:"evento_id,omitempty" db:"evento_id"`
	LastMessage *string    `json:"last_message,omitempty" db:"last_message"`
	LastTime    *time.Time `json:"last_time,omitempty" db:"last_time"`
}

// ParticipationActive is the only status a join produces; leaving deletes
// the event_participants row instead of flipping it.
const ParticipationActive = "active"

// ChatUser is the sender info attached to messages
type ChatUser struct {
	ID      string  `json:"id" db:"id"`
	Nombre  *string `json:"nombre,omitempty" db:"nombre"`
	FotoURL *string `json:"foto_url,omitempty" db:"foto_url"`
}

type Message struct {
	ID        int64     `json:"id" db:"id"`
	ChatID    string    `json:"chat_id" db:"chat_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Joined fields
	Sender *ChatUser `json:"user,omitempty"`
}

// SendMessageDTO is the body of POST /chats/{id}/messages
type SendMessageDTO struct {
	Content string `json:"content" validate:"required,min=1,max=4000"`
}

// MatchEventDTO is the body of POST /chats/match
type MatchEventDTO struct {
	EventID int64 `json:"event_id" validate:"required,gte=1"`
}

// JoinResult is the response of POST /events/{id}/join
type JoinResult struct {
	OK      bool   `json:"ok"`
	EventID int64  `json:"event_id"`
	ChatID  string `json:"chat_id"`
}
