package events

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

var ErrNotEventOwner = errors.New("only the event creator can do that")

// ChatEnsurer is the slice of the chat service the event flow needs: joining
// the creator into the event chat and titling it after creation.
type ChatEnsurer interface {
	JoinEvent(ctx context.Context, eventoID int64, userID string) (string, error)
	SetChatTitle(ctx context.Context, chatID, titulo string) error
}

type Service interface {
	CreateEvent(ctx context.Context, creatorID string, dto *CreateEventDTO) (*Event, error)
	GetEvent(ctx context.Context, id int64) (*Event, error)
	ListEvents(ctx context.Context, estado string, limit int) ([]*Event, error)
	ListUpcomingEvents(ctx context.Context, limit int) ([]*Event, error)
	CancelEvent(ctx context.Context, id int64, callerID string) error
}

type service struct {
	repo  Repository
	chats ChatEnsurer
	now   func() time.Time
}

func NewService(repo Repository, chats ChatEnsurer) Service {
	return &service{
		repo:  repo,
		chats: chats,
		now:   time.Now,
	}
}

func (s *service) CreateEvent(ctx context.Context, creatorID string, dto *CreateEventDTO) (*Event, error) {
	inicio, err := combineFechaHora(dto.Fecha, dto.Hora)
	if err != nil {
		return nil, err
	}

	event := &Event{
		CreadorID:   creatorID,
		Nombre:      dto.Nombre,
		Descripcion: &dto.Descripcion,
		Categoria:   &dto.Categoria,
		Municipio:   &dto.Municipio,
		Nivel:       &dto.Nivel,
		Inicio:      inicio,
		Estado:      EstadoActivo,
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, err
	}

	// Best-effort: give the event its group chat up front and title it.
	// A failure here never aborts the creation; first join will retry.
	if s.chats != nil {
		chatID, err := s.chats.JoinEvent(ctx, event.ID, creatorID)
		if err != nil {
			log.Printf("Warning: could not set up chat for event %d: %v", event.ID, err)
		} else if err := s.chats.SetChatTitle(ctx, chatID, event.Nombre); err != nil {
			log.Printf("Warning: could not title chat for event %d: %v", event.ID, err)
		}
	}

	return event, nil
}

func (s *service) GetEvent(ctx context.Context, id int64) (*Event, error) {
	return s.repo.GetEvent(ctx, id)
}

func (s *service) ListEvents(ctx context.Context, estado string, limit int) ([]*Event, error) {
	return s.repo.ListEvents(ctx, estado, limit)
}

func (s *service) ListUpcomingEvents(ctx context.Context, limit int) ([]*Event, error) {
	return s.repo.ListUpcomingEvents(ctx, s.now().UTC(), limit)
}

func (s *service) CancelEvent(ctx context.Context, id int64, callerID string) error {
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if event.CreadorID != callerID {
		return ErrNotEventOwner
	}

	return s.repo.UpdateEstado(ctx, id, EstadoCancelado)
}

// combineFechaHora merges a "YYYY-MM-DD" date and an "HH:MM" time into one
// UTC instant, the two fields the mobile form submits separately.
func combineFechaHora(fecha, hora string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04", fmt.Sprintf("%s %s", fecha, hora))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid fecha/hora: %w", err)
	}
	return t.UTC(), nil
}
