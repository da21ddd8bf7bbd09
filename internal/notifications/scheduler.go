// internal/notifications/scheduler.go
// Background reminder fan-out for upcoming events.

package notifications

import (
	"context"
	"fmt"
	"log"
	"time"
)

// ReminderScheduler periodically scans for events about to start and
// notifies the creator plus every active participant, once per
// (event, user, window) triple.
type ReminderScheduler struct {
	repo     Repository
	interval time.Duration
	minutes  []int
	now      func() time.Time
	stopCh   chan struct{}
}

func NewReminderScheduler(repo Repository, interval time.Duration, minutes []int) *ReminderScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if len(minutes) == 0 {
		minutes = []int{60, 15}
	}
	return &ReminderScheduler{
		repo:     repo,
		interval: interval,
		minutes:  minutes,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

func (s *ReminderScheduler) Run(ctx context.Context) {
	log.Printf("⏰ Reminder scheduler started (every %s, windows %v min)", s.interval, s.minutes)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.tick(ctx); err != nil {
				log.Printf("⚠️ Reminder sweep failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏰ Reminder scheduler stopped")
			return
		case <-s.stopCh:
			log.Println("⏰ Reminder scheduler stopped")
			return
		}
	}
}

func (s *ReminderScheduler) Stop() {
	close(s.stopCh)
}

// tick sweeps one window per configured lead time. Windows are one tick
// wide so an event is picked up by exactly one sweep per lead time; the
// recordatorios_enviados table covers overlapping sweeps from restarts.
func (s *ReminderScheduler) tick(ctx context.Context) error {
	now := s.now().UTC()

	for _, m := range s.minutes {
		from := now.Add(time.Duration(m) * time.Minute)
		to := from.Add(time.Minute)

		events, err := s.repo.FindEventsStartingBetween(ctx, from, to)
		if err != nil {
			return fmt.Errorf("window %d min: %w", m, err)
		}

		for _, event := range events {
			if err := s.remind(ctx, event, m); err != nil {
				log.Printf("⚠️ Reminders for event %d (%d min) failed: %v", event.ID, m, err)
			}
		}
	}

	return nil
}

func (s *ReminderScheduler) remind(ctx context.Context, event *ReminderEvent, minutosAntes int) error {
	recipients, err := s.repo.ListEventRecipients(ctx, event.ID)
	if err != nil {
		return err
	}

	for _, userID := range recipients {
		prefs, err := s.repo.EnsurePreferences(ctx, userID)
		if err != nil {
			log.Printf("⚠️ Preferences for %s unavailable, skipping reminder: %v", userID, err)
			continue
		}
		if !prefs.NotificarEntrenos {
			continue
		}

		first, err := s.repo.MarkReminderSent(ctx, event.ID, userID, minutosAntes)
		if err != nil {
			log.Printf("⚠️ Reminder dedup for %s failed: %v", userID, err)
			continue
		}
		if !first {
			continue
		}

		err = s.repo.Insert(ctx, &Notification{
			UsuarioID: userID,
			Titulo:    "Tu entreno empieza pronto",
			Mensaje:   fmt.Sprintf("%s empieza en %d minutos.", event.Nombre, minutosAntes),
			Tipo:      TipoEntreno,
		})
		if err != nil {
			log.Printf("⚠️ Reminder notification for %s failed: %v", userID, err)
		}
	}

	return nil
}
