package events

import "time"

// Event estados. Only active/confirmed, future-dated events are eligible for
// suggestions or joins.
const (
	EstadoActivo     = "activo"
	EstadoConfirmado = "confirmado"
	EstadoCancelado  = "cancelado"
)

type Event struct {
	ID          int64     `json:"id" db:"id"`
	CreadorID   string    `json:"creador_id" db:"creador_id"`
	Nombre      string    `json:"nombre" db:"nombre"`
	Descripcion *string   `json:"descripcion,omitempty" db:"descripcion"`
	Categoria   *int64    `json:"categoria,omitempty" db:"categoria"`
	Municipio   *string   `json:"municipio,omitempty" db:"municipio"`
	Nivel       *string   `json:"nivel,omitempty" db:"nivel"`
	Inicio      time.Time `json:"inicio" db:"inicio"`
	Estado      string    `json:"estado" db:"estado"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CreateEventDTO mirrors the form the mobile client submits: a calendar date
// and a wall-clock time that get combined into a UTC instant.
type CreateEventDTO struct {
	Nombre      string `json:"nombre" validate:"required,min=3,max=120"`
	Descripcion string `json:"descripcion" validate:"required,min=1,max=1500"`
	Categoria   int64  `json:"categoria" validate:"required,gte=1"`
	Municipio   string `json:"municipio" validate:"required,min=2,max=120"`
	Nivel       string `json:"nivel" validate:"required,oneof=Principiante Intermedio Avanzado"`
	Fecha       string `json:"fecha" validate:"required,datetime=2006-01-02"`
	Hora        string `json:"hora" validate:"required,datetime=15:04"`
}
