// internal/chats/reconciler.go
// Keeps event chats, chat memberships and event participations consistent.
// Every step is idempotent, so a caller that times out mid-flight can simply
// retry the whole operation.

package chats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fitlink/fitlink-backend/internal/common/database"
)

// EventDirectory is the slice of the event store this package needs.
type EventDirectory interface {
	EventExists(ctx context.Context, eventoID int64) (bool, error)
	// EventJoinable reports whether the event is still open for joining:
	// not cancelled and not started before from.
	EventJoinable(ctx context.Context, eventoID int64, from time.Time) (bool, error)
	GetEventOwner(ctx context.Context, eventoID int64) (string, error)
}

type Reconciler struct {
	repo   Repository
	events EventDirectory
	now    func() time.Time
	newID  func() string
}

func NewReconciler(repo Repository, events EventDirectory) *Reconciler {
	return &Reconciler{
		repo:   repo,
		events: events,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// EnsureEventChat returns the id of the group chat bound to the event,
// creating it if needed. Creation runs under the acting user's role first;
// a policy denial falls back to the service role. A uniqueness conflict on
// evento_id means another caller won the creation race, so the chat is
// re-read instead of treated as a failure. There is no lock anywhere in
// this path: the unique constraint on chats.evento_id is the only
// serialization point.
func (r *Reconciler) EnsureEventChat(ctx context.Context, eventoID int64, actorID string) (string, error) {
	chat, err := r.repo.GetChatByEvent(ctx, eventoID)
	if err == nil {
		return chat.ID, nil
	}
	if !errors.Is(err, ErrChatNotFound) {
		return "", err
	}

	newChat := &Chat{
		ID:        r.newID(),
		EventoID:  &eventoID,
		IsGroup:   true,
		CreatedBy: &actorID,
	}

	createErr := r.repo.InsertChat(ctx, newChat)
	if errors.Is(createErr, database.ErrUnauthorized) {
		createErr = r.repo.InsertChatElevated(ctx, newChat)
	}
	if createErr == nil {
		return newChat.ID, nil
	}

	if errors.Is(createErr, database.ErrConflict) {
		chatCreateConflicts.Inc()
		// Lost the race; the winner's chat must now be readable.
		chat, err := r.repo.GetChatByEvent(ctx, eventoID)
		if err == nil {
			return chat.ID, nil
		}
		return "", fmt.Errorf("chat for event %d conflicted but cannot be read back: %w", eventoID, err)
	}

	// Genuine failure: one last lookup in case someone else finished
	// meanwhile, otherwise no chat could be established at all.
	if chat, err := r.repo.GetChatByEvent(ctx, eventoID); err == nil {
		return chat.ID, nil
	}
	return "", fmt.Errorf("could not establish chat for event %d: %w", eventoID, createErr)
}

// JoinEvent makes the user an active participant of the event and a member
// of its chat. Steps run strictly in order: eligibility check, ensure chat,
// upsert participation, upsert membership. Re-joining is a no-op that
// returns the same chat id. Only open events accept joins: a missing event
// yields ErrEventNotFound, a cancelled or already-started one
// ErrEventNotJoinable.
func (r *Reconciler) JoinEvent(ctx context.Context, eventoID int64, userID string) (string, error) {
	exists, err := r.events.EventExists(ctx, eventoID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrEventNotFound
	}

	joinable, err := r.events.EventJoinable(ctx, eventoID, r.now().UTC())
	if err != nil {
		return "", err
	}
	if !joinable {
		return "", ErrEventNotJoinable
	}

	chatID, err := r.EnsureEventChat(ctx, eventoID, userID)
	if err != nil {
		return "", err
	}

	if err := r.repo.UpsertParticipation(ctx, eventoID, userID, ParticipationActive, r.now().UTC()); err != nil {
		return "", fmt.Errorf("upsert participation: %w", err)
	}

	if err := r.repo.UpsertMembership(ctx, chatID, userID); err != nil {
		return "", fmt.Errorf("upsert membership: %w", err)
	}

	return chatID, nil
}

// LeaveEvent removes the user's chat membership (when a chat exists) and
// participation row. Deleting rows that are already gone is a no-op, so
// leaving an event never joined succeeds.
func (r *Reconciler) LeaveEvent(ctx context.Context, eventoID int64, userID string) error {
	chat, err := r.repo.GetChatByEvent(ctx, eventoID)
	switch {
	case err == nil:
		if err := r.repo.DeleteMembership(ctx, chat.ID, userID); err != nil {
			return fmt.Errorf("delete membership: %w", err)
		}
	case errors.Is(err, ErrChatNotFound):
		// No chat was ever created; nothing to remove there.
	default:
		return err
	}

	if err := r.repo.DeleteParticipation(ctx, eventoID, userID); err != nil {
		return fmt.Errorf("delete participation: %w", err)
	}

	return nil
}
