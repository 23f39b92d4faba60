package tags

import (
	"context"
	"time"

	"pet-tag-lookup/internal/domain/pets"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (Tag, error)

	// CreateMany inserta tags available en una sola transacción.
	// Nunca pisa un ID existente: devuelve solo los IDs que creó.
	CreateMany(ctx context.Context, items []Tag) ([]string, error)

	// Link crea la mascota en p.ID y marca el tag como linked, todo o nada.
	// La condición status == available se evalúa dentro de la escritura.
	// Errores: ErrNotFound si no existe el tag, ErrAlreadyLinked si no está available.
	Link(ctx context.Context, p pets.Pet, linkedAt time.Time) (Tag, error)
}

// PetFinder es lo único que Resolve necesita del lado de mascotas.
type PetFinder interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
}
