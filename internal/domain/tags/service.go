package tags

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-tag-lookup/internal/domain/pets"
	"pet-tag-lookup/internal/platform/metrics"
	"pet-tag-lookup/internal/platform/validation"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("tag not found")
	ErrAlreadyLinked = errors.New("tag already linked")
)

var tracer = otel.Tracer("pet-tag-lookup/tags")

type Service struct {
	repo Repository
	pets PetFinder
	now  func() time.Time
}

func NewService(repo Repository, petFinder PetFinder) *Service {
	return &Service{
		repo: repo,
		pets: petFinder,
		now:  time.Now,
	}
}

// Activate vincula un tag available a una mascota nueva del usuario ownerID.
// Es el único camino para reclamar un tag. Entre activaciones concurrentes del
// mismo tag gana exactamente una; el resto recibe ErrAlreadyLinked.
func (s *Service) Activate(ctx context.Context, tagID string, in pets.CreateInput, ownerID string) (Activation, error) {
	id := NormalizeID(tagID)

	ctx, span := tracer.Start(ctx, "tags.activate",
		trace.WithAttributes(attribute.String("tag.id", id)))
	defer span.End()

	a, err := s.activate(ctx, id, in, ownerID)
	metrics.ActivationsTotal.WithLabelValues(activationResult(err)).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, activationResult(err))
		return Activation{}, err
	}
	span.SetStatus(codes.Ok, "linked")
	return a, nil
}

func (s *Service) activate(ctx context.Context, id string, in pets.CreateInput, ownerID string) (Activation, error) {
	if id == "" {
		return Activation{}, ErrNotFound
	}

	// Un tag inexistente o ya vinculado se informa antes que los errores del
	// formulario. Link vuelve a exigir status == available al escribir.
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Activation{}, err
	}
	if t.Status != StatusAvailable {
		return Activation{}, ErrAlreadyLinked
	}

	now := s.now()
	p, err := pets.NewPet(id, ownerID, in, now)
	if err != nil {
		return Activation{}, invalidPetError{err: err}
	}

	t, err = s.repo.Link(ctx, p, now)
	if err != nil {
		return Activation{}, err
	}
	return Activation{Pet: p, Tag: t}, nil
}

// invalidPetError conserva el mensaje de pets ("invalid input: ...") y además
// es ErrInvalidInput de este paquete.
type invalidPetError struct{ err error }

func (e invalidPetError) Error() string        { return e.err.Error() }
func (e invalidPetError) Unwrap() error        { return e.err }
func (e invalidPetError) Is(target error) bool { return target == ErrInvalidInput }

func activationResult(err error) string {
	switch {
	case err == nil:
		return "linked"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyLinked):
		return "already_linked"
	default:
		return "error"
	}
}

// Resolve clasifica un ID público. Solo lee.
//
// Orden: mascota por ID en mayúsculas, mascota por ID tal cual vino (solo si
// difiere), tag por ID en mayúsculas. El reintento con el ID original es solo
// para mascotas: los tags siempre se guardan en mayúsculas.
func (s *Service) Resolve(ctx context.Context, lookupID string) (LookupResult, error) {
	raw := strings.TrimSpace(lookupID)
	upper := strings.ToUpper(raw)

	ctx, span := tracer.Start(ctx, "tags.resolve",
		trace.WithAttributes(attribute.String("lookup.id", upper)))
	defer span.End()

	res, err := s.resolve(ctx, raw, upper)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return LookupResult{}, err
	}
	metrics.LookupsTotal.WithLabelValues(string(res.Outcome)).Inc()
	span.SetAttributes(attribute.String("lookup.outcome", string(res.Outcome)))
	return res, nil
}

func (s *Service) resolve(ctx context.Context, raw, upper string) (LookupResult, error) {
	if raw == "" {
		return Invalid(), nil
	}

	p, err := s.pets.GetByID(ctx, upper)
	if err == nil {
		return Found(p), nil
	}
	if !errors.Is(err, pets.ErrNotFound) {
		return LookupResult{}, err
	}

	if raw != upper {
		p, err = s.pets.GetByID(ctx, raw)
		if err == nil {
			return Found(p), nil
		}
		if !errors.Is(err, pets.ErrNotFound) {
			return LookupResult{}, err
		}
	}

	t, err := s.repo.GetByID(ctx, upper)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Invalid(), nil
		}
		return LookupResult{}, err
	}
	if t.Status == StatusAvailable {
		return Unclaimed(t.ID), nil
	}
	// linked sin mascota: no debería pasar, se trata como inválido
	return Invalid(), nil
}

func (s *Service) Get(ctx context.Context, id string) (Tag, error) {
	id = NormalizeID(id)
	if id == "" {
		return Tag{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Create da de alta un tag available con un ID elegido a mano.
func (s *Service) Create(ctx context.Context, id string) (CreateResult, error) {
	id = NormalizeID(id)
	if id == "" {
		return CreateResult{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	return s.createMany(ctx, []string{id})
}

type SequenceInput struct {
	Prefix string `json:"prefix"`
	Start  int    `json:"start" validate:"gte=0"`
	Count  int    `json:"count" validate:"gte=1,lte=500"`
	Pad    int    `json:"pad" validate:"gte=0,lte=12"`
}

// CreateSequence da de alta {prefix}{start..start+count-1} con ceros a la izquierda.
func (s *Service) CreateSequence(ctx context.Context, in SequenceInput) (CreateResult, error) {
	if err := validation.Struct(in); err != nil {
		return CreateResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.createMany(ctx, SequenceIDs(in.Prefix, in.Start, in.Count, in.Pad))
}

// CreateRandom da de alta count tags con IDs aleatorios [0-9A-Z].
func (s *Service) CreateRandom(ctx context.Context, count, length int) (CreateResult, error) {
	if err := validateBatch(count); err != nil {
		return CreateResult{}, err
	}
	if length != 0 && (length < 4 || length > 32) {
		return CreateResult{}, fmt.Errorf("%w: length must be between 4 and 32", ErrInvalidInput)
	}
	ids, err := RandomIDs(count, length)
	if err != nil {
		return CreateResult{}, err
	}
	return s.createMany(ctx, ids)
}

func validateBatch(count int) error {
	if count < 1 || count > MaxBatchSize {
		return fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidInput, MaxBatchSize)
	}
	return nil
}

func (s *Service) createMany(ctx context.Context, ids []string) (CreateResult, error) {
	ctx, span := tracer.Start(ctx, "tags.create",
		trace.WithAttributes(attribute.Int("tags.count", len(ids))))
	defer span.End()

	now := s.now()
	items := make([]Tag, 0, len(ids))
	for _, id := range ids {
		items = append(items, Tag{
			ID:        id,
			Status:    StatusAvailable,
			CreatedAt: now,
		})
	}

	created, err := s.repo.CreateMany(ctx, items)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return CreateResult{}, err
	}
	metrics.TagsCreatedTotal.Add(float64(len(created)))

	isNew := make(map[string]bool, len(created))
	for _, id := range created {
		isNew[id] = true
	}
	res := CreateResult{Created: make([]string, 0, len(created)), Skipped: []string{}}
	for _, id := range ids {
		if isNew[id] {
			res.Created = append(res.Created, id)
		} else {
			res.Skipped = append(res.Skipped, id)
		}
	}
	return res, nil
}
