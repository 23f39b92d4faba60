package memory

import (
	"sync"

	"pet-tag-lookup/internal/domain/pets"
	"pet-tag-lookup/internal/domain/scans"
	"pet-tag-lookup/internal/domain/tags"
)

// Store guarda tags, mascotas y escaneos en memoria (dev/tests).
// Un solo mutex para todo: la activación toca tags y pets en la misma sección crítica.
type Store struct {
	mu    sync.RWMutex
	pets  map[string]pets.Pet
	tags  map[string]tags.Tag
	scans []scans.ScanEvent
}

func NewStore() *Store {
	return &Store{
		pets: make(map[string]pets.Pet),
		tags: make(map[string]tags.Tag),
	}
}

func (s *Store) Pets() pets.Repository {
	return &petRepo{s: s}
}

func (s *Store) Tags() tags.Repository {
	return &tagRepo{s: s}
}

func (s *Store) Scans() scans.Repository {
	return &scanRepo{s: s}
}
