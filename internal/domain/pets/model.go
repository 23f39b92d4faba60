package pets

import "time"

// Pet es el perfil público de una mascota: lo que ve quien escanea la placa.
//
// Si la mascota se registró activando un tag, ID es el ID del tag (mismo namespace).
// Si se registró sin tag, ID es un UUID generado acá.
type Pet struct {
	ID      string
	OwnerID string // nunca cambia después de crear

	Name      string
	OwnerName string
	Phone     string
	Address   string
	Notes     string

	PhotoURL *string // siempre nil por ahora (no hay pipeline de imágenes)

	CreatedAt time.Time
	UpdatedAt time.Time
}
