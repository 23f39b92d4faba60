package memory

import (
	"context"
	"errors"
	"sort"

	"pet-tag-lookup/internal/domain/scans"
)

type scanRepo struct {
	s *Store
}

func (r *scanRepo) Append(ctx context.Context, e scans.ScanEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if e.ID == "" {
		return errors.New("scan id required")
	}
	r.s.scans = append(r.s.scans, e)
	return nil
}

func (r *scanRepo) ListByPet(ctx context.Context, petID string, limit int) ([]scans.ScanEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if limit <= 0 {
		limit = scans.DefaultListLimit
	}

	// recorrido de atrás hacia adelante: más reciente primero, y a igual
	// timestamp gana el último insertado
	out := make([]scans.ScanEvent, 0)
	for i := len(r.s.scans) - 1; i >= 0; i-- {
		e := r.s.scans[i]
		if e.PetID != petID {
			continue
		}
		out = append(out, e)
	}

	sortNewestFirst(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortNewestFirst(items []scans.ScanEvent) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
}
