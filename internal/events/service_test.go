package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventRepo struct {
	nextID int64
	events map[int64]*Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[int64]*Event)}
}

func (f *fakeEventRepo) CreateEvent(_ context.Context, event *Event) error {
	f.nextID++
	event.ID = f.nextID
	event.CreatedAt = time.Now().UTC()
	stored := *event
	f.events[event.ID] = &stored
	return nil
}

func (f *fakeEventRepo) GetEvent(_ context.Context, id int64) (*Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	return ev, nil
}

func (f *fakeEventRepo) ListEvents(_ context.Context, estado string, limit int) ([]*Event, error) {
	var out []*Event
	for _, ev := range f.events {
		if estado == "" || ev.Estado == estado {
			out = append(out, ev)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEventRepo) ListUpcomingEvents(_ context.Context, from time.Time, limit int) ([]*Event, error) {
	var out []*Event
	for _, ev := range f.events {
		if !ev.Inicio.Before(from) && ev.Estado != EstadoCancelado {
			out = append(out, ev)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEventRepo) ListEligibleEvents(ctx context.Context, from time.Time) ([]*Event, error) {
	return f.ListUpcomingEvents(ctx, from, len(f.events))
}

func (f *fakeEventRepo) UpdateEstado(_ context.Context, id int64, estado string) error {
	ev, ok := f.events[id]
	if !ok {
		return ErrEventNotFound
	}
	ev.Estado = estado
	return nil
}

func (f *fakeEventRepo) EventExists(_ context.Context, id int64) (bool, error) {
	_, ok := f.events[id]
	return ok, nil
}

func (f *fakeEventRepo) EventJoinable(_ context.Context, id int64, from time.Time) (bool, error) {
	ev, ok := f.events[id]
	return ok && ev.Estado != EstadoCancelado && !ev.Inicio.Before(from), nil
}

func (f *fakeEventRepo) GetEventOwner(_ context.Context, id int64) (string, error) {
	ev, ok := f.events[id]
	if !ok {
		return "", ErrEventNotFound
	}
	return ev.CreadorID, nil
}

type fakeChatEnsurer struct {
	joined  []int64
	titles  map[string]string
	joinErr error
}

func (f *fakeChatEnsurer) JoinEvent(_ context.Context, eventoID int64, _ string) (string, error) {
	if f.joinErr != nil {
		return "", f.joinErr
	}
	f.joined = append(f.joined, eventoID)
	return "chat-1", nil
}

func (f *fakeChatEnsurer) SetChatTitle(_ context.Context, chatID, titulo string) error {
	if f.titles == nil {
		f.titles = make(map[string]string)
	}
	f.titles[chatID] = titulo
	return nil
}

func validCreateDTO() *CreateEventDTO {
	return &CreateEventDTO{
		Nombre:      "Fútbol en el parque",
		Descripcion: "Partido amistoso, todos bienvenidos",
		Categoria:   5,
		Municipio:   "Chacao",
		Nivel:       "Intermedio",
		Fecha:       "2026-04-01",
		Hora:        "18:30",
	}
}

func TestCreateEventCombinesFechaHora(t *testing.T) {
	repo := newFakeEventRepo()
	chats := &fakeChatEnsurer{}
	svc := NewService(repo, chats)

	event, err := svc.CreateEvent(context.Background(), "owner-1", validCreateDTO())
	require.NoError(t, err)

	want := time.Date(2026, 4, 1, 18, 30, 0, 0, time.UTC)
	assert.True(t, event.Inicio.Equal(want), "got %v", event.Inicio)
	assert.Equal(t, EstadoActivo, event.Estado)
	assert.Equal(t, "owner-1", event.CreadorID)
}

func TestCreateEventSetsUpChat(t *testing.T) {
	repo := newFakeEventRepo()
	chats := &fakeChatEnsurer{}
	svc := NewService(repo, chats)

	event, err := svc.CreateEvent(context.Background(), "owner-1", validCreateDTO())
	require.NoError(t, err)

	assert.Equal(t, []int64{event.ID}, chats.joined)
	assert.Equal(t, event.Nombre, chats.titles["chat-1"])
}

func TestCreateEventSurvivesChatFailure(t *testing.T) {
	repo := newFakeEventRepo()
	chats := &fakeChatEnsurer{joinErr: context.DeadlineExceeded}
	svc := NewService(repo, chats)

	event, err := svc.CreateEvent(context.Background(), "owner-1", validCreateDTO())
	require.NoError(t, err, "chat setup failure must not abort event creation")
	assert.NotZero(t, event.ID)
}

func TestCreateEventRejectsBadFecha(t *testing.T) {
	svc := NewService(newFakeEventRepo(), nil)

	dto := validCreateDTO()
	dto.Hora = "25:99"

	_, err := svc.CreateEvent(context.Background(), "owner-1", dto)
	assert.Error(t, err)
}

func TestCancelEventRequiresOwnership(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewService(repo, nil)

	event, err := svc.CreateEvent(context.Background(), "owner-1", validCreateDTO())
	require.NoError(t, err)

	err = svc.CancelEvent(context.Background(), event.ID, "somebody-else")
	assert.ErrorIs(t, err, ErrNotEventOwner)

	require.NoError(t, svc.CancelEvent(context.Background(), event.ID, "owner-1"))
	stored, err := repo.GetEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, EstadoCancelado, stored.Estado)
}

func TestCancelEventUnknown(t *testing.T) {
	svc := NewService(newFakeEventRepo(), nil)

	err := svc.CancelEvent(context.Background(), 42, "owner-1")
	assert.ErrorIs(t, err, ErrEventNotFound)
}
