package stats

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fitlink/fitlink-backend/internal/common/database"
)

type Stats struct {
	Usuarios        int64 `json:"usuarios" db:"usuarios"`
	Eventos         int64 `json:"eventos" db:"eventos"`
	EventosProximos int64 `json:"eventos_proximos" db:"eventos_proximos"`
	Chats           int64 `json:"chats" db:"chats"`
}

type Repository interface {
	GetStats(ctx context.Context, now time.Time) (*Stats, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetStats(ctx context.Context, now time.Time) (*Stats, error) {
	query := `
        SELECT
            (SELECT COUNT(*) FROM usuarios) AS usuarios,
            (SELECT COUNT(*) FROM eventos WHERE estado <> 'cancelado') AS eventos,
            (SELECT COUNT(*) FROM eventos WHERE estado <> 'cancelado' AND inicio >= $1) AS eventos_proximos,
            (SELECT COUNT(*) FROM chats) AS chats
    `

	var s Stats
	err := database.Retry(ctx, func() error {
		return database.MapError(r.db.GetContext(ctx, &s, query, now))
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}
