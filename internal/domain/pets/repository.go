package pets

import "context"

// Repository guarda las mascotas. No hay Delete: una mascota nunca se borra.
type Repository interface {
	Create(ctx context.Context, p Pet) error

	// Update reemplaza los campos editables; OwnerID y CreatedAt se conservan.
	Update(ctx context.Context, p Pet) error

	// GetByID es exacto (distingue mayúsculas). ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (Pet, error)

	// ListByOwner ordena por CreatedAt ascendente.
	ListByOwner(ctx context.Context, ownerID string) ([]Pet, error)
}
