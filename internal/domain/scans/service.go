package scans

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"pet-tag-lookup/internal/platform/metrics"
	"pet-tag-lookup/internal/platform/validation"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100

	// los navegadores mandan user agents enormes a veces
	maxUserAgentLen = 512
)

var (
	ErrInvalidInput = errors.New("invalid input")
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

type RecordInput struct {
	PetID     string
	OwnerID   string
	Status    LocationStatus
	Location  *Location
	UserAgent string
}

// Record agrega un ScanEvent. La location solo se guarda si Status es obtained;
// para denied/unavailable queda en nil aunque venga algo.
func (s *Service) Record(ctx context.Context, in RecordInput) (ScanEvent, error) {
	if strings.TrimSpace(in.PetID) == "" || strings.TrimSpace(in.OwnerID) == "" {
		return ScanEvent{}, ErrInvalidInput
	}
	if err := ValidateLocation(in.Status, in.Location); err != nil {
		return ScanEvent{}, err
	}

	var loc *Location
	if in.Status == LocationObtained {
		l := *in.Location
		loc = &l
	}

	ua := truncateUTF8(in.UserAgent, maxUserAgentLen)

	e := ScanEvent{
		ID:             s.newID(),
		PetID:          in.PetID,
		OwnerID:        in.OwnerID,
		Location:       loc,
		LocationStatus: in.Status,
		Timestamp:      s.now(),
		UserAgent:      ua,
	}

	if err := s.repo.Append(ctx, e); err != nil {
		metrics.ScanWriteFailuresTotal.Inc()
		return ScanEvent{}, err
	}
	metrics.ScansRecordedTotal.WithLabelValues(string(e.LocationStatus)).Inc()
	return e, nil
}

// truncateUTF8 deja s en UTF-8 válido y de a lo sumo max bytes, cortando en
// un límite de runa. Postgres rechaza TEXT con UTF-8 inválido.
func truncateUTF8(s string, max int) string {
	s = strings.ToValidUTF8(s, "")
	if len(s) <= max {
		return s
	}
	n := max
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// ValidateLocation revisa el sub-resultado de geolocalización. Para obtained
// exige lat/lng en rango; para denied/unavailable la location se ignora.
func ValidateLocation(status LocationStatus, loc *Location) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown location status %q", ErrInvalidInput, status)
	}
	if status != LocationObtained {
		return nil
	}
	if loc == nil {
		return fmt.Errorf("%w: location is required", ErrInvalidInput)
	}
	if err := validation.Struct(loc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func (s *Service) ListByPet(ctx context.Context, petID string, limit int) ([]ScanEvent, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPet(ctx, petID, NormalizeLimit(limit))
}

func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
