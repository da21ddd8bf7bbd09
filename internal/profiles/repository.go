package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fitlink/fitlink-backend/internal/common/database"
)

var ErrProfileNotFound = errors.New("profile not found")

type Repository interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	ListProfiles(ctx context.Context, excludeUserID string) ([]*Profile, error)
	UpdateProfile(ctx context.Context, userID string, dto *UpdateProfileDTO) (*Profile, error)
	ListCategorias(ctx context.Context) ([]*Categoria, error)
	ListNiveles(ctx context.Context) ([]*Nivel, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const profileColumns = `id, email, nombre, biografia, fecha_nacimiento, municipio,
       foto_url, telefono, intereses, nivel_habilidad, created_at, updated_at`

func (r *postgresRepository) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	var profile Profile
	query := `SELECT ` + profileColumns + ` FROM usuarios WHERE id = $1`

	err := database.Retry(ctx, func() error {
		return r.db.GetContext(ctx, &profile, query, userID)
	})
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *postgresRepository) ListProfiles(ctx context.Context, excludeUserID string) ([]*Profile, error) {
	var profiles []*Profile
	query := `SELECT ` + profileColumns + ` FROM usuarios WHERE id <> $1 ORDER BY created_at`

	err := database.Retry(ctx, func() error {
		profiles = profiles[:0]
		return r.db.SelectContext(ctx, &profiles, query, excludeUserID)
	})
	if err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, userID string, dto *UpdateProfileDTO) (*Profile, error) {
	setClauses := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []interface{}{userID}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if dto.Nombre != nil {
		addSet("nombre", *dto.Nombre)
	}
	if dto.Biografia != nil {
		addSet("biografia", *dto.Biografia)
	}
	if dto.FechaNacimiento != nil {
		addSet("fecha_nacimiento", *dto.FechaNacimiento)
	}
	if dto.Municipio != nil {
		addSet("municipio", *dto.Municipio)
	}
	if dto.FotoURL != nil {
		addSet("foto_url", *dto.FotoURL)
	}
	if dto.Telefono != nil {
		addSet("telefono", *dto.Telefono)
	}
	if dto.Intereses != nil {
		addSet("intereses", pq.Int64Array(dto.Intereses))
	}
	if dto.NivelHabilidad != nil {
		addSet("nivel_habilidad", *dto.NivelHabilidad)
	}

	query := fmt.Sprintf(
		`UPDATE usuarios SET %s WHERE id = $1 RETURNING `+profileColumns,
		strings.Join(setClauses, ", "),
	)

	var profile Profile
	err := database.Retry(ctx, func() error {
		return r.db.GetContext(ctx, &profile, query, args...)
	})
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *postgresRepository) ListCategorias(ctx context.Context) ([]*Categoria, error) {
	var categorias []*Categoria
	query := `SELECT id, nombre, icono FROM categoria ORDER BY nombre`

	err := database.Retry(ctx, func() error {
		categorias = categorias[:0]
		return r.db.SelectContext(ctx, &categorias, query)
	})
	if err != nil {
		return nil, err
	}

	return categorias, nil
}

func (r *postgresRepository) ListNiveles(ctx context.Context) ([]*Nivel, error) {
	var niveles []*Nivel
	query := `SELECT id, nombre FROM niveles_habilidad ORDER BY id`

	err := database.Retry(ctx, func() error {
		niveles = niveles[:0]
		return r.db.SelectContext(ctx, &niveles, query)
	})
	if err != nil {
		return nil, err
	}

	return niveles, nil
}
