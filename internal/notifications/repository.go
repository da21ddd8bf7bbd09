package notifications

import (
	"context"
	"errors"
	"time"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Repository interface {
	Insert(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, id int64, userID string) error

	GetPreferences(ctx context.Context, userID string) (*Preferences, error)
	EnsurePreferences(ctx context.Context, userID string) (*Preferences, error)
	UpdatePreferences(ctx context.Context, prefs *Preferences) error

	// Reminder support. FindEventsStartingBetween only considers
	// non-cancelled events.
	FindEventsStartingBetween(ctx context.Context, from, to time.Time) ([]*ReminderEvent, error)
	ListEventRecipients(ctx context.Context, eventoID int64) ([]string, error)
	// MarkReminderSent records (evento, usuario, minutos) and reports whether
	// this call was the first one, so each reminder goes out exactly once.
	MarkReminderSent(ctx context.Context, eventoID int64, userID string, minutosAntes int) (bool, error)
}
