package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-tag-lookup/internal/platform/validation"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
	ErrForbidden    = errors.New("forbidden")
)

type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// CreateInput son los campos del formulario de mascota.
// Solo "required": no hay otras reglas de negocio en el formulario.
type CreateInput struct {
	Name      string `json:"name" validate:"required"`
	OwnerName string `json:"owner_name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address"`
	Notes     string `json:"notes"`
}

func (in CreateInput) trimmed() CreateInput {
	return CreateInput{
		Name:      strings.TrimSpace(in.Name),
		OwnerName: strings.TrimSpace(in.OwnerName),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		Notes:     strings.TrimSpace(in.Notes),
	}
}

// NewPet arma y valida una mascota nueva. La usan el registro sin tag (Create)
// y la activación de un tag (tags.Service.Activate).
func NewPet(id, ownerID string, in CreateInput, now time.Time) (Pet, error) {
	id = strings.TrimSpace(id)
	ownerID = strings.TrimSpace(ownerID)
	if id == "" || ownerID == "" {
		return Pet{}, ErrInvalidInput
	}

	in = in.trimmed()
	if err := validation.Struct(in); err != nil {
		return Pet{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return Pet{
		ID:        id,
		OwnerID:   ownerID,
		Name:      in.Name,
		OwnerName: in.OwnerName,
		Phone:     in.Phone,
		Address:   in.Address,
		Notes:     in.Notes,
		PhotoURL:  nil,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Create registra una mascota sin tag (ID generado). El camino con tag es
// tags.Service.Activate y nunca pasa por acá.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Pet, error) {
	p, err := NewPet(s.newID(), ownerID, in, s.now())
	if err != nil {
		return Pet{}, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// GetByID resuelve el ID igual que el perfil público: primero en mayúsculas
// (mascotas activadas desde un tag) y después tal cual vino (UUIDs).
func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	raw := strings.TrimSpace(id)
	if raw == "" {
		return Pet{}, ErrNotFound
	}

	upper := strings.ToUpper(raw)
	p, err := s.repo.GetByID(ctx, upper)
	if err == nil || !errors.Is(err, ErrNotFound) || raw == upper {
		return p, err
	}
	return s.repo.GetByID(ctx, raw)
}

// GetOwned devuelve la mascota solo si userID es su dueño.
func (s *Service) GetOwned(ctx context.Context, id, userID string) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if p.OwnerID != strings.TrimSpace(userID) {
		return Pet{}, ErrForbidden
	}
	return p, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

// UpdateProfileInput usa punteros para PATCH real: nil = no tocar.
type UpdateProfileInput struct {
	Name      *string
	OwnerName *string
	Phone     *string
	Address   *string
	Notes     *string
}

// UpdateProfile edita los datos de contacto. Solo el dueño puede hacerlo y
// OwnerID/ID/CreatedAt no se tocan nunca.
func (s *Service) UpdateProfile(ctx context.Context, petID, userID string, in UpdateProfileInput) (Pet, error) {
	p, err := s.GetOwned(ctx, petID, userID)
	if err != nil {
		return Pet{}, err
	}

	next := CreateInput{
		Name:      p.Name,
		OwnerName: p.OwnerName,
		Phone:     p.Phone,
		Address:   p.Address,
		Notes:     p.Notes,
	}
	if in.Name != nil {
		next.Name = *in.Name
	}
	if in.OwnerName != nil {
		next.OwnerName = *in.OwnerName
	}
	if in.Phone != nil {
		next.Phone = *in.Phone
	}
	if in.Address != nil {
		next.Address = *in.Address
	}
	if in.Notes != nil {
		next.Notes = *in.Notes
	}

	// mismas reglas que al crear: no se pueden vaciar los campos requeridos
	next = next.trimmed()
	if err := validation.Struct(next); err != nil {
		return Pet{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	p.Name = next.Name
	p.OwnerName = next.OwnerName
	p.Phone = next.Phone
	p.Address = next.Address
	p.Notes = next.Notes
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}
