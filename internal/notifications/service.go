package notifications

import (
	"context"
	"fmt"
)

type Service interface {
	ListNotifications(ctx context.Context, userID string, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, id int64, userID string) error
	GetPreferences(ctx context.Context, userID string) (*Preferences, error)
	UpdatePreferences(ctx context.Context, userID string, dto *UpdatePreferencesDTO) (*Preferences, error)

	// NotifyMatch satisfies the chats package's Notifier.
	NotifyMatch(ctx context.Context, recipientID, actorID string, eventoID int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListNotifications(ctx context.Context, userID string, limit int) ([]*Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *service) MarkRead(ctx context.Context, id int64, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *service) GetPreferences(ctx context.Context, userID string) (*Preferences, error) {
	return s.repo.EnsurePreferences(ctx, userID)
}

func (s *service) UpdatePreferences(ctx context.Context, userID string, dto *UpdatePreferencesDTO) (*Preferences, error) {
	prefs, err := s.repo.EnsurePreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	if dto.NotificarEntrenos != nil {
		prefs.NotificarEntrenos = *dto.NotificarEntrenos
	}
	if dto.NotificarMatch != nil {
		prefs.NotificarMatch = *dto.NotificarMatch
	}
	if dto.NotificarSistema != nil {
		prefs.NotificarSistema = *dto.NotificarSistema
	}

	if err := s.repo.UpdatePreferences(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *service) NotifyMatch(ctx context.Context, recipientID, actorID string, eventoID int64) error {
	prefs, err := s.repo.EnsurePreferences(ctx, recipientID)
	if err != nil {
		return err
	}
	if !prefs.NotificarMatch {
		return nil
	}

	return s.repo.Insert(ctx, &Notification{
		UsuarioID: recipientID,
		Titulo:    "¡Nuevo match!",
		Mensaje:   fmt.Sprintf("Alguien quiere unirse a tu entreno #%d. Ya pueden chatear.", eventoID),
		Tipo:      TipoMatch,
	})
}
