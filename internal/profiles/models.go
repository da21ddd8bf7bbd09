package profiles

import (
	"time"

	"github.com/lib/pq"
)

// Profile is a row in usuarios. Interests and skill level live directly on
// the profile as flattened columns; there is no separate join table.
type Profile struct {
	ID              string        `json:"id" db:"id"`
	Email           string        `json:"email" db:"email"`
	Nombre          *string       `json:"nombre,omitempty" db:"nombre"`
	Biografia       *string       `json:"biografia,omitempty" db:"biografia"`
	FechaNacimiento *string       `json:"fecha_nacimiento,omitempty" db:"fecha_nacimiento"`
	Municipio       *string       `json:"municipio,omitempty" db:"municipio"`
	FotoURL         *string       `json:"foto_url,omitempty" db:"foto_url"`
	Telefono        *string       `json:"telefono,omitempty" db:"telefono"`
	Intereses       pq.Int64Array `json:"intereses" db:"intereses"`
	NivelHabilidad  *int          `json:"nivel_habilidad,omitempty" db:"nivel_habilidad"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// Categoria is a sport category users can mark as an interest
type Categoria struct {
	ID     int64   `json:"id" db:"id"`
	Nombre string  `json:"nombre" db:"nombre"`
	Icono  *string `json:"icono,omitempty" db:"icono"`
}

// Nivel is one of the five skill levels
type Nivel struct {
	ID     int    `json:"id" db:"id"`
	Nombre string `json:"nombre" db:"nombre"`
}

// UpdateProfileDTO carries a partial profile update; nil fields are left untouched
type UpdateProfileDTO struct {
	Nombre          *string `json:"nombre,omitempty" validate:"omitempty,max=120"`
	Biografia       *string `json:"biografia,omitempty" validate:"omitempty,max=1500"`
	FechaNacimiento *string `json:"fecha_nacimiento,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Municipio       *string `json:"municipio,omitempty" validate:"omitempty,max=120"`
	FotoURL         *string `json:"foto_url,omitempty" validate:"omitempty,max=500"`
	Telefono        *string `json:"telefono,omitempty" validate:"omitempty,max=30"`
	Intereses       []int64 `json:"intereses,omitempty"`
	NivelHabilidad  *int    `json:"nivel_habilidad,omitempty" validate:"omitempty,gte=1,lte=5"`
}
