package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"pet-tag-lookup/internal/domain/pets"
)

type petRepo struct {
	s *Store
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.s.pets[p.ID]; exists {
		return errors.New("pet already exists")
	}
	r.s.pets[p.ID] = p
	return nil
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, exists := r.s.pets[p.ID]
	if !exists {
		return pets.ErrNotFound
	}
	// el dueño y la fecha de alta no cambian nunca
	p.OwnerID = prev.OwnerID
	p.CreatedAt = prev.CreatedAt
	r.s.pets[p.ID] = p
	return nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pets[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *petRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.s.pets {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}

	// Orden estable por created_at asc
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
