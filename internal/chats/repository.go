package chats

import (
	"context"
	"errors"
	"time"
)

var (
	ErrChatNotFound     = errors.New("chat not found")
	ErrEventNotFound    = errors.New("event not found")
	ErrEventNotJoinable = errors.New("event is cancelled or already started")
	ErrNotChatMember    = errors.New("user is not a member of this chat")
	ErrOwnEvent         = errors.New("cannot match with your own event")
)

// Repository is the persistence contract for chats, memberships and event
// participations. Insert methods surface database.ErrConflict on uniqueness
// violations and database.ErrUnauthorized on row-policy denials so callers
// can branch structurally instead of parsing error text.
type Repository interface {
	// Chats
	GetChatByEvent(ctx context.Context, eventoID int64) (*Chat, error)
	GetChat(ctx context.Context, chatID string) (*Chat, error)
	// InsertChat runs under the acting application role; InsertChatElevated
	// under the service role, bypassing row policies.
	InsertChat(ctx context.Context, chat *Chat) error
	InsertChatElevated(ctx context.Context, chat *Chat) error
	UpdateChatTitle(ctx context.Context, chatID, titulo string) error
	GetDirectChat(ctx context.Context, user1ID, user2ID string) (*Chat, error)
	ListUserChats(ctx context.Context, userID string) ([]*ChatSummary, error)

	// Memberships
	UpsertMembership(ctx context.Context, chatID, userID string) error
	DeleteMembership(ctx context.Context, chatID, userID string) error
	IsMember(ctx context.Context, chatID, userID string) (bool, error)

	// Participations
	UpsertParticipation(ctx context.Context, eventoID int64, userID, status string, joinedAt time.Time) error
	DeleteParticipation(ctx context.Context, eventoID int64, userID string) error
	ListActiveParticipants(ctx context.Context, eventoID int64) ([]string, error)

	// Messages
	InsertMessage(ctx context.Context, message *Message) error
	ListMessages(ctx context.Context, chatID string, limit int, before *time.Time) ([]*Message, error)
}
