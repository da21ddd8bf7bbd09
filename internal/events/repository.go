package events

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fitlink/fitlink-backend/internal/common/database"
)

var ErrEventNotFound = errors.New("event not found")

type Repository interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, id int64) (*Event, error)
	ListEvents(ctx context.Context, estado string, limit int) ([]*Event, error)
	ListUpcomingEvents(ctx context.Context, from time.Time, limit int) ([]*Event, error)
	ListEligibleEvents(ctx context.Context, from time.Time) ([]*Event, error)
	UpdateEstado(ctx context.Context, id int64, estado string) error

	// EventExists, EventJoinable and GetEventOwner back the membership
	// reconciler.
	EventExists(ctx context.Context, id int64) (bool, error)
	EventJoinable(ctx context.Context, id int64, from time.Time) (bool, error)
	GetEventOwner(ctx context.Context, id int64) (string, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const eventColumns = `id, creador_id, nombre, descripcion, categoria, municipio,
       nivel, inicio, estado, created_at`

func (r *postgresRepository) CreateEvent(ctx context.Context, event *Event) error {
	query := `
        INSERT INTO eventos (
            creador_id, nombre, descripcion, categoria, municipio, nivel, inicio, estado
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at
    `

	return database.Retry(ctx, func() error {
		return r.db.QueryRowxContext(
			ctx, query,
			event.CreadorID, event.Nombre, event.Descripcion, event.Categoria,
			event.Municipio, event.Nivel, event.Inicio, event.Estado,
		).Scan(&event.ID, &event.CreatedAt)
	})
}

func (r *postgresRepository) GetEvent(ctx context.Context, id int64) (*Event, error) {
	var event Event
	query := `SELECT ` + eventColumns + ` FROM eventos WHERE id = $1`

	err := database.Retry(ctx, func() error {
		return r.db.GetContext(ctx, &event, query, id)
	})
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}

	return &event, nil
}

func (r *postgresRepository) ListEvents(ctx context.Context, estado string, limit int) ([]*Event, error) {
	var events []*Event
	query := `SELECT ` + eventColumns + ` FROM eventos`
	args := []interface{}{}

	if estado != "" {
		query += ` WHERE estado = $1`
		args = append(args, estado)
	}
	query += ` ORDER BY inicio ASC`
	if limit > 0 {
		args = append(args, limit)
		if estado != "" {
			query += ` LIMIT $2`
		} else {
			query += ` LIMIT $1`
		}
	}

	err := database.Retry(ctx, func() error {
		events = events[:0]
		return r.db.SelectContext(ctx, &events, query, args...)
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *postgresRepository) ListUpcomingEvents(ctx context.Context, from time.Time, limit int) ([]*Event, error) {
	var events []*Event
	query := `
        SELECT ` + eventColumns + `
        FROM eventos
        WHERE inicio >= $1 AND estado <> $2
        ORDER BY inicio ASC
        LIMIT $3
    `

	err := database.Retry(ctx, func() error {
		events = events[:0]
		return r.db.SelectContext(ctx, &events, query, from, EstadoCancelado, limit)
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

// ListEligibleEvents returns the full candidate pool for suggestions:
// future-dated and not cancelled, in start order.
func (r *postgresRepository) ListEligibleEvents(ctx context.Context, from time.Time) ([]*Event, error) {
	var events []*Event
	query := `
        SELECT ` + eventColumns + `
        FROM eventos
        WHERE inicio >= $1 AND estado <> $2
        ORDER BY inicio ASC
    `

	err := database.Retry(ctx, func() error {
		events = events[:0]
		return r.db.SelectContext(ctx, &events, query, from, EstadoCancelado)
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *postgresRepository) UpdateEstado(ctx context.Context, id int64, estado string) error {
	query := `UPDATE eventos SET estado = $2 WHERE id = $1`

	return database.Retry(ctx, func() error {
		result, err := r.db.ExecContext(ctx, query, id, estado)
		if err != nil {
			return err
		}
		if rows, err := result.RowsAffected(); err == nil && rows == 0 {
			return ErrEventNotFound
		}
		return nil
	})
}

func (r *postgresRepository) EventExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM eventos WHERE id = $1)`

	err := database.Retry(ctx, func() error {
		return r.db.GetContext(ctx, &exists, query, id)
	})
	return exists, err
}

// EventJoinable applies the same eligibility rule the suggestion pool uses:
// not cancelled and not yet started.
func (r *postgresRepository) EventJoinable(ctx context.Context, id int64, from time.Time) (bool, error) {
	var joinable bool
	query := `
        SELECT EXISTS(
            SELECT 1 FROM eventos
            WHERE id = $1 AND estado <> 'cancelado' AND inicio >= $2
        )
    `

	err := database.Retry(ctx, func() error {
		return r.db.GetContext(ctx, &joinable, query, id, from)
	})
	return joinable, err
}

func (r *postgresRepository) GetEventOwner(ctx context.Context, id int64) (string, error) {
	var owner string
	query := `SELECT creador_id FROM eventos WHERE id = $1`

	err := database.Retry(ctx, func() error {
		return r.db.GetContext(ctx, &owner, query, id)
	})
	if errors.Is(err, database.ErrNotFound) {
		return "", ErrEventNotFound
	}
	return owner, err
}
