package memory

import (
	"context"
	"time"

	"pet-tag-lookup/internal/domain/pets"
	"pet-tag-lookup/internal/domain/tags"
)

type tagRepo struct {
	s *Store
}

func (r *tagRepo) GetByID(ctx context.Context, id string) (tags.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tags[id]
	if !ok {
		return tags.Tag{}, tags.ErrNotFound
	}
	return t, nil
}

func (r *tagRepo) CreateMany(ctx context.Context, items []tags.Tag) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	created := make([]string, 0, len(items))
	for _, t := range items {
		if _, exists := r.s.tags[t.ID]; exists {
			continue
		}
		r.s.tags[t.ID] = t
		created = append(created, t.ID)
	}
	return created, nil
}

func (r *tagRepo) Link(ctx context.Context, p pets.Pet, linkedAt time.Time) (tags.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tags[p.ID]
	if !ok {
		return tags.Tag{}, tags.ErrNotFound
	}
	if t.Status != tags.StatusAvailable {
		return tags.Tag{}, tags.ErrAlreadyLinked
	}
	// una mascota sin tag no puede tener este ID (UUID), pero por las dudas
	if _, exists := r.s.pets[p.ID]; exists {
		return tags.Tag{}, tags.ErrAlreadyLinked
	}

	at := linkedAt
	t.Status = tags.StatusLinked
	t.PetID = p.ID
	t.OwnerID = p.OwnerID
	t.LinkedAt = &at

	r.s.pets[p.ID] = p
	r.s.tags[t.ID] = t
	return t, nil
}
