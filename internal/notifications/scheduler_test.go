package notifications

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationRepo struct {
	mu            sync.Mutex
	nextID        int64
	notifications []*Notification
	prefs         map[string]*Preferences
	events        []*ReminderEvent
	recipients    map[int64][]string
	sentReminders map[string]bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{
		prefs:         make(map[string]*Preferences),
		recipients:    make(map[int64][]string),
		sentReminders: make(map[string]bool),
	}
}

func (f *fakeNotificationRepo) Insert(_ context.Context, n *Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	n.ID = f.nextID
	n.Fecha = time.Now().UTC()
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID string, limit int) ([]*Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Notification
	for _, n := range f.notifications {
		if n.UsuarioID == userID {
			out = append(out, n)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id int64, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.ID == id && n.UsuarioID == userID {
			n.Leida = true
			return nil
		}
	}
	return ErrNotificationNotFound
}

func (f *fakeNotificationRepo) GetPreferences(ctx context.Context, userID string) (*Preferences, error) {
	return f.EnsurePreferences(ctx, userID)
}

func (f *fakeNotificationRepo) EnsurePreferences(_ context.Context, userID string) (*Preferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.prefs[userID]; ok {
		return p, nil
	}
	p := &Preferences{UsuarioID: userID, NotificarEntrenos: true, NotificarMatch: true, NotificarSistema: true}
	f.prefs[userID] = p
	return p, nil
}

func (f *fakeNotificationRepo) UpdatePreferences(_ context.Context, prefs *Preferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefs[prefs.UsuarioID] = prefs
	return nil
}

func (f *fakeNotificationRepo) FindEventsStartingBetween(_ context.Context, from, to time.Time) ([]*ReminderEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*ReminderEvent
	for _, e := range f.events {
		if !e.Inicio.Before(from) && e.Inicio.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) ListEventRecipients(_ context.Context, eventoID int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recipients[eventoID], nil
}

func (f *fakeNotificationRepo) MarkReminderSent(_ context.Context, eventoID int64, userID string, minutosAntes int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%d/%s/%d", eventoID, userID, minutosAntes)
	if f.sentReminders[key] {
		return false, nil
	}
	f.sentReminders[key] = true
	return true, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
}

func TestSchedulerNotifiesCreatorAndParticipants(t *testing.T) {
	repo := newFakeNotificationRepo()
	now := fixedNow()
	repo.events = []*ReminderEvent{
		{ID: 1, Nombre: "Fútbol en Chacao", Inicio: now.Add(60 * time.Minute), CreadorID: "owner-1"},
	}
	repo.recipients[1] = []string{"owner-1", "user-1", "user-2"}

	s := NewReminderScheduler(repo, time.Minute, []int{60, 15})
	s.now = fixedNow

	require.NoError(t, s.tick(context.Background()))

	assert.Len(t, repo.notifications, 3)
	for _, n := range repo.notifications {
		assert.Equal(t, TipoEntreno, n.Tipo)
		assert.Contains(t, n.Mensaje, "Fútbol en Chacao")
		assert.Contains(t, n.Mensaje, "60 minutos")
	}
}

func TestSchedulerDeduplicatesAcrossSweeps(t *testing.T) {
	repo := newFakeNotificationRepo()
	now := fixedNow()
	repo.events = []*ReminderEvent{
		{ID: 1, Nombre: "Yoga", Inicio: now.Add(15 * time.Minute), CreadorID: "owner-1"},
	}
	repo.recipients[1] = []string{"owner-1"}

	s := NewReminderScheduler(repo, time.Minute, []int{15})
	s.now = fixedNow

	require.NoError(t, s.tick(context.Background()))
	require.NoError(t, s.tick(context.Background()))

	assert.Len(t, repo.notifications, 1, "second sweep must not repeat the reminder")
}

func TestSchedulerRespectsPreferences(t *testing.T) {
	repo := newFakeNotificationRepo()
	now := fixedNow()
	repo.events = []*ReminderEvent{
		{ID: 1, Nombre: "Ciclismo", Inicio: now.Add(60 * time.Minute), CreadorID: "owner-1"},
	}
	repo.recipients[1] = []string{"owner-1", "muted-user"}
	repo.prefs["muted-user"] = &Preferences{UsuarioID: "muted-user", NotificarEntrenos: false, NotificarMatch: true, NotificarSistema: true}

	s := NewReminderScheduler(repo, time.Minute, []int{60})
	s.now = fixedNow

	require.NoError(t, s.tick(context.Background()))

	require.Len(t, repo.notifications, 1)
	assert.Equal(t, "owner-1", repo.notifications[0].UsuarioID)
}

func TestSchedulerIgnoresEventsOutsideWindows(t *testing.T) {
	repo := newFakeNotificationRepo()
	now := fixedNow()
	repo.events = []*ReminderEvent{
		{ID: 1, Nombre: "Demasiado pronto", Inicio: now.Add(5 * time.Minute), CreadorID: "owner-1"},
		{ID: 2, Nombre: "Demasiado tarde", Inicio: now.Add(3 * time.Hour), CreadorID: "owner-1"},
	}
	repo.recipients[1] = []string{"owner-1"}
	repo.recipients[2] = []string{"owner-1"}

	s := NewReminderScheduler(repo, time.Minute, []int{60, 15})
	s.now = fixedNow

	require.NoError(t, s.tick(context.Background()))

	assert.Empty(t, repo.notifications)
}

func TestNotifyMatchHonorsPreference(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewService(repo)

	require.NoError(t, svc.NotifyMatch(context.Background(), "owner-1", "user-1", 7))
	require.Len(t, repo.notifications, 1)
	assert.Equal(t, TipoMatch, repo.notifications[0].Tipo)

	repo.prefs["quiet-owner"] = &Preferences{UsuarioID: "quiet-owner", NotificarMatch: false}
	require.NoError(t, svc.NotifyMatch(context.Background(), "quiet-owner", "user-1", 7))
	assert.Len(t, repo.notifications, 1, "muted match preference must suppress the notification")
}

func TestUpdatePreferencesPartial(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewService(repo)

	off := false
	prefs, err := svc.UpdatePreferences(context.Background(), "user-1", &UpdatePreferencesDTO{NotificarEntrenos: &off})
	require.NoError(t, err)

	assert.False(t, prefs.NotificarEntrenos)
	assert.True(t, prefs.NotificarMatch, "untouched fields keep their defaults")
	assert.True(t, prefs.NotificarSistema)
}
