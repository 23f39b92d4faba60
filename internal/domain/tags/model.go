package tags

import (
	"time"

	"pet-tag-lookup/internal/domain/pets"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusLinked    Status = "linked"
)

// Tag es el identificador físico (la placa QR). Se crea available y pasa a linked
// una sola vez; no hay unlink.
type Tag struct {
	ID     string
	Status Status

	// vacíos mientras esté available; PetID == ID al vincular
	PetID   string
	OwnerID string

	CreatedAt time.Time
	LinkedAt  *time.Time
}

// Outcome es el resultado de resolver un ID público.
type Outcome string

const (
	OutcomeFound     Outcome = "found"
	OutcomeUnclaimed Outcome = "unclaimed"
	OutcomeInvalid   Outcome = "invalid"
)

// LookupResult: Pet solo viene en Found, TagID solo en Unclaimed.
type LookupResult struct {
	Outcome Outcome
	Pet     pets.Pet
	TagID   string
}

func Found(p pets.Pet) LookupResult {
	return LookupResult{Outcome: OutcomeFound, Pet: p}
}

func Unclaimed(tagID string) LookupResult {
	return LookupResult{Outcome: OutcomeUnclaimed, TagID: tagID}
}

func Invalid() LookupResult {
	return LookupResult{Outcome: OutcomeInvalid}
}

// Activation es lo que deja una activación exitosa: la mascota y el tag ya vinculado.
type Activation struct {
	Pet pets.Pet
	Tag Tag
}

// CreateResult separa los IDs nuevos de los que ya existían (nunca se pisan).
type CreateResult struct {
	Created []string
	Skipped []string
}
