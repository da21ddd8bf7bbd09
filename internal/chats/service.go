// internal/chats/service.go

package chats

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Notifier delivers out-of-band notifications. A nil Notifier disables them.
type Notifier interface {
	NotifyMatch(ctx context.Context, recipientID, actorID string, eventoID int64) error
}

type Service interface {
	JoinEvent(ctx context.Context, eventoID int64, userID string) (string, error)
	LeaveEvent(ctx context.Context, eventoID int64, userID string) error
	SetChatTitle(ctx context.Context, chatID, titulo string) error
	MatchEvent(ctx context.Context, eventoID int64, userID string) (*Chat, error)
	ListMyChats(ctx context.Context, userID string) ([]*ChatSummary, error)
	ListMessages(ctx context.Context, chatID, userID string, limit int, before *time.Time) ([]*Message, error)
	SendMessage(ctx context.Context, chatID, userID string, dto *SendMessageDTO) (*Message, error)
}

type service struct {
	repo       Repository
	reconciler *Reconciler
	events     EventDirectory
	notifier   Notifier
	newID      func() string
}

func NewService(repo Repository, events EventDirectory, notifier Notifier) Service {
	return &service{
		repo:       repo,
		reconciler: NewReconciler(repo, events),
		events:     events,
		notifier:   notifier,
		newID:      func() string { return uuid.NewString() },
	}
}

func (s *service) JoinEvent(ctx context.Context, eventoID int64, userID string) (string, error) {
	chatID, err := s.reconciler.JoinEvent(ctx, eventoID, userID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			joinsTotal.WithLabelValues("not_found").Inc()
		} else if errors.Is(err, ErrEventNotJoinable) {
			joinsTotal.WithLabelValues("not_joinable").Inc()
		} else {
			joinsTotal.WithLabelValues("error").Inc()
		}
		return "", err
	}
	joinsTotal.WithLabelValues("ok").Inc()
	return chatID, nil
}

func (s *service) LeaveEvent(ctx context.Context, eventoID int64, userID string) error {
	return s.reconciler.LeaveEvent(ctx, eventoID, userID)
}

func (s *service) SetChatTitle(ctx context.Context, chatID, titulo string) error {
	return s.repo.UpdateChatTitle(ctx, chatID, titulo)
}

// MatchEvent opens (or returns) the 1:1 chat between the caller and the
// event's creator. Matching your own event is rejected.
func (s *service) MatchEvent(ctx context.Context, eventoID int64, userID string) (*Chat, error) {
	exists, err := s.events.EventExists(ctx, eventoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrEventNotFound
	}

	ownerID, err := s.events.GetEventOwner(ctx, eventoID)
	if err != nil {
		return nil, err
	}
	if ownerID == userID {
		return nil, ErrOwnEvent
	}

	if chat, err := s.repo.GetDirectChat(ctx, userID, ownerID); err == nil {
		return chat, nil
	} else if !errors.Is(err, ErrChatNotFound) {
		return nil, err
	}

	chat := &Chat{
		ID:        s.newID(),
		IsGroup:   false,
		CreatedBy: &userID,
	}
	if err := s.repo.InsertChat(ctx, chat); err != nil {
		return nil, fmt.Errorf("create direct chat: %w", err)
	}
	for _, member := range []string{userID, ownerID} {
		if err := s.repo.UpsertMembership(ctx, chat.ID, member); err != nil {
			return nil, fmt.Errorf("add member %s: %w", member, err)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyMatch(ctx, ownerID, userID, eventoID); err != nil {
			log.Printf("⚠️ match notification for event %d failed: %v", eventoID, err)
		}
	}

	return chat, nil
}

func (s *service) ListMyChats(ctx context.Context, userID string) ([]*ChatSummary, error) {
	return s.repo.ListUserChats(ctx, userID)
}

func (s *service) ListMessages(ctx context.Context, chatID, userID string, limit int, before *time.Time) ([]*Message, error) {
	if _, err := s.repo.GetChat(ctx, chatID); err != nil {
		return nil, err
	}
	member, err := s.repo.IsMember(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotChatMember
	}
	return s.repo.ListMessages(ctx, chatID, limit, before)
}

// SendMessage repairs a missing membership before inserting, so a user who
// joined an event while the chat row was still settling can always write.
func (s *service) SendMessage(ctx context.Context, chatID, userID string, dto *SendMessageDTO) (*Message, error) {
	if _, err := s.repo.GetChat(ctx, chatID); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertMembership(ctx, chatID, userID); err != nil {
		return nil, fmt.Errorf("ensure membership: %w", err)
	}

	msg := &Message{
		ChatID:  chatID,
		UserID:  userID,
		Content: dto.Content,
	}
	if err := s.repo.InsertMessage(ctx, msg); err != nil {
		return nil, err
	}
	messagesSent.Inc()
	return msg, nil
}
