package scans

import "context"

type Repository interface {
	Append(ctx context.Context, e ScanEvent) error
	// ListByPet devuelve los últimos limit escaneos, más reciente primero.
	ListByPet(ctx context.Context, petID string, limit int) ([]ScanEvent, error)
}
