package notifications

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fitlink/fitlink-backend/internal/common/database"
)

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Insert(ctx context.Context, n *Notification) error {
	query := `
        INSERT INTO notificaciones (usuario_id, titulo, mensaje, tipo)
        VALUES ($1, $2, $3, $4)
        RETURNING id, leida, fecha
    `

	return database.Retry(ctx, func() error {
		err := r.db.QueryRowxContext(ctx, query, n.UsuarioID, n.Titulo, n.Mensaje, n.Tipo).
			Scan(&n.ID, &n.Leida, &n.Fecha)
		return database.MapError(err)
	})
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*Notification, error) {
	query := `
        SELECT id, usuario_id, titulo, mensaje, tipo, leida, fecha
        FROM notificaciones
        WHERE usuario_id = $1
        ORDER BY fecha DESC
        LIMIT $2
    `

	var out []*Notification
	err := database.Retry(ctx, func() error {
		out = out[:0]
		return database.MapError(r.db.SelectContext(ctx, &out, query, userID, limit))
	})
	return out, err
}

func (r *postgresRepository) MarkRead(ctx context.Context, id int64, userID string) error {
	query := `UPDATE notificaciones SET leida = TRUE WHERE id = $1 AND usuario_id = $2`

	return database.Retry(ctx, func() error {
		result, err := r.db.ExecContext(ctx, query, id, userID)
		if err != nil {
			return database.MapError(err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return database.MapError(err)
		}
		if rows == 0 {
			return ErrNotificationNotFound
		}
		return nil
	})
}

func (r *postgresRepository) GetPreferences(ctx context.Context, userID string) (*Preferences, error) {
	query := `
        SELECT usuario_id, notificar_entrenos, notificar_match, notificar_sistema
        FROM preferencias_notificaciones
        WHERE usuario_id = $1
    `

	var prefs Preferences
	err := database.Retry(ctx, func() error {
		err := r.db.GetContext(ctx, &prefs, query, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return database.ErrNotFound
		}
		return database.MapError(err)
	})
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

// EnsurePreferences reads the row, creating the all-enabled default first
// if the user has never touched their settings.
func (r *postgresRepository) EnsurePreferences(ctx context.Context, userID string) (*Preferences, error) {
	insert := `
        INSERT INTO preferencias_notificaciones (usuario_id, notificar_entrenos, notificar_match, notificar_sistema)
        VALUES ($1, TRUE, TRUE, TRUE)
        ON CONFLICT (usuario_id) DO NOTHING
    `

	err := database.Retry(ctx, func() error {
		_, err := r.db.ExecContext(ctx, insert, userID)
		return database.MapError(err)
	})
	if err != nil {
		return nil, err
	}
	return r.GetPreferences(ctx, userID)
}

func (r *postgresRepository) UpdatePreferences(ctx context.Context, prefs *Preferences) error {
	query := `
        INSERT INTO preferencias_notificaciones (usuario_id, notificar_entrenos, notificar_match, notificar_sistema)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (usuario_id) DO UPDATE SET
            notificar_entrenos = EXCLUDED.notificar_entrenos,
            notificar_match = EXCLUDED.notificar_match,
            notificar_sistema = EXCLUDED.notificar_sistema
    `

	return database.Retry(ctx, func() error {
		_, err := r.db.ExecContext(ctx, query,
			prefs.UsuarioID, prefs.NotificarEntrenos, prefs.NotificarMatch, prefs.NotificarSistema)
		return database.MapError(err)
	})
}

func (r *postgresRepository) FindEventsStartingBetween(ctx context.Context, from, to time.Time) ([]*ReminderEvent, error) {
	query := `
        SELECT id, nombre, inicio, creador_id
        FROM eventos
        WHERE inicio >= $1 AND inicio < $2 AND estado <> 'cancelado'
        ORDER BY inicio
    `

	var out []*ReminderEvent
	err := database.Retry(ctx, func() error {
		out = out[:0]
		return database.MapError(r.db.SelectContext(ctx, &out, query, from, to))
	})
	return out, err
}

func (r *postgresRepository) ListEventRecipients(ctx context.Context, eventoID int64) ([]string, error) {
	query := `
        SELECT creador_id FROM eventos WHERE id = $1
        UNION
        SELECT user_id FROM event_participants WHERE evento_id = $1 AND status = 'active'
    `

	var out []string
	err := database.Retry(ctx, func() error {
		out = out[:0]
		return database.MapError(r.db.SelectContext(ctx, &out, query, eventoID))
	})
	return out, err
}

func (r *postgresRepository) MarkReminderSent(ctx context.Context, eventoID int64, userID string, minutosAntes int) (bool, error) {
	query := `
        INSERT INTO recordatorios_enviados (evento_id, usuario_id, minutos_antes)
        VALUES ($1, $2, $3)
        ON CONFLICT (evento_id, usuario_id, minutos_antes) DO NOTHING
    `

	var first bool
	err := database.Retry(ctx, func() error {
		result, err := r.db.ExecContext(ctx, query, eventoID, userID, minutosAntes)
		if err != nil {
			return database.MapError(err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return database.MapError(err)
		}
		first = rows > 0
		return nil
	})
	return first, err
}
