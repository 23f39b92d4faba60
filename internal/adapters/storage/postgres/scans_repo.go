package postgres

import (
	"context"
	"database/sql"

	"pet-tag-lookup/internal/domain/scans"
	"pet-tag-lookup/internal/ports/storage"
)

type ScansRepo struct {
	db DB
}

func NewScansRepo(db DB) *ScansRepo {
	return &ScansRepo{db: db}
}

func (r *ScansRepo) Append(ctx context.Context, e scans.ScanEvent) error {
	var lat, lng sql.NullFloat64
	if e.Location != nil {
		lat = sql.NullFloat64{Float64: e.Location.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: e.Location.Lng, Valid: true}
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO scans (id, pet_id, owner_id, latitude, longitude, location_status, user_agent, scanned_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		e.ID,
		e.PetID,
		e.OwnerID,
		lat,
		lng,
		string(e.LocationStatus),
		e.UserAgent,
		e.Timestamp,
	)
	if err != nil {
		return storage.Unavailable("scans.append", err)
	}
	return nil
}

func (r *ScansRepo) ListByPet(ctx context.Context, petID string, limit int) ([]scans.ScanEvent, error) {
	if limit <= 0 {
		limit = scans.DefaultListLimit
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, pet_id, owner_id, latitude, longitude, location_status, user_agent, scanned_at
		FROM scans
		WHERE pet_id = $1
		ORDER BY scanned_at DESC, seq DESC
		LIMIT $2
	`, petID, limit)
	if err != nil {
		return nil, storage.Unavailable("scans.list", err)
	}
	defer rows.Close()

	out := make([]scans.ScanEvent, 0)
	for rows.Next() {
		var (
			e        scans.ScanEvent
			lat, lng sql.NullFloat64
			status   string
		)
		if err := rows.Scan(&e.ID, &e.PetID, &e.OwnerID, &lat, &lng, &status, &e.UserAgent, &e.Timestamp); err != nil {
			return nil, storage.Unavailable("scans.list", err)
		}
		e.LocationStatus = scans.LocationStatus(status)
		if lat.Valid && lng.Valid {
			e.Location = &scans.Location{Lat: lat.Float64, Lng: lng.Float64}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("scans.list", err)
	}
	return out, nil
}
