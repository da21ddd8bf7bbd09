package notifications

import "time"

const (
	TipoEntreno = "entreno"
	TipoMatch   = "match"
	TipoSistema = "sistema"
)

type Notification struct {
	ID        int64     `json:"id" db:"id"`
	UsuarioID string    `json:"usuario_id" db:"usuario_id"`
	Titulo    string    `json:"titulo" db:"titulo"`
	Mensaje   string    `json:"mensaje" db:"mensaje"`
	Tipo      string    `json:"tipo" db:"tipo"`
	Leida     bool      `json:"leida" db:"leida"`
	Fecha     time.Time `json:"fecha" db:"fecha"`
}

// Preferences defaults to everything enabled on first read.
type Preferences struct {
	UsuarioID         string `json:"usuario_id" db:"usuario_id"`
	NotificarEntrenos bool   `json:"notificar_entrenos" db:"notificar_entrenos"`
	NotificarMatch    bool   `json:"notificar_match" db:"notificar_match"`
	NotificarSistema  bool   `json:"notificar_sistema" db:"notificar_sistema"`
}

type UpdatePreferencesDTO struct {
	NotificarEntrenos *bool `json:"notificar_entrenos" validate:"omitempty"`
	NotificarMatch    *bool `json:"notificar_match" validate:"omitempty"`
	NotificarSistema  *bool `json:"notificar_sistema" validate:"omitempty"`
}

// ReminderEvent is the slice of an event the scheduler needs.
type ReminderEvent struct {
	ID        int64     `db:"id"`
	Nombre    string    `db:"nombre"`
	Inicio    time.Time `db:"inicio"`
	CreadorID string    `db:"creador_id"`
}
