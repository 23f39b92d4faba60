package scans

import "time"

// LocationStatus es el sub-resultado de pedir la geolocalización a quien escanea.
type LocationStatus string

const (
	LocationObtained    LocationStatus = "obtained"
	LocationDenied      LocationStatus = "denied"
	LocationUnavailable LocationStatus = "unavailable"
)

func (s LocationStatus) Valid() bool {
	switch s {
	case LocationObtained, LocationDenied, LocationUnavailable:
		return true
	}
	return false
}

type Location struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// ScanEvent registra una carga del perfil público. Append-only: no se edita ni se borra.
type ScanEvent struct {
	ID string

	PetID   string
	OwnerID string

	Location       *Location // nil salvo LocationObtained
	LocationStatus LocationStatus

	Timestamp time.Time
	UserAgent string
}
