package pets

import "context"

// OwnerOf devuelve el ID canónico de la mascota y su dueño. Lo usa scans
// sin importar el modelo completo.
func (s *Service) OwnerOf(ctx context.Context, petID string) (id, ownerID string, err error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", "", err
	}
	return p.ID, p.OwnerID, nil
}
