package sqlite

import (
	"context"
	"database/sql"

	"pet-tag-lookup/internal/domain/scans"
)

type scansRepo struct {
	db *sql.DB
}

func (r *scansRepo) Append(ctx context.Context, e scans.ScanEvent) error {
	var lat, lng sql.NullFloat64
	if e.Location != nil {
		lat = sql.NullFloat64{Float64: e.Location.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: e.Location.Lng, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scans (id, pet_id, owner_id, latitude, longitude, location_status, user_agent, scanned_at)
		VALUES (?,?,?,?,?,?,?,?)
	`, e.ID, e.PetID, e.OwnerID, lat, lng, string(e.LocationStatus), e.UserAgent, formatTime(e.Timestamp))
	if err != nil {
		return unavailable("scans.append", err)
	}
	return nil
}

func (r *scansRepo) ListByPet(ctx context.Context, petID string, limit int) ([]scans.ScanEvent, error) {
	if limit <= 0 {
		limit = scans.DefaultListLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, owner_id, latitude, longitude, location_status, user_agent, scanned_at
		FROM scans
		WHERE pet_id = ?
		ORDER BY scanned_at DESC, seq DESC
		LIMIT ?
	`, petID, limit)
	if err != nil {
		return nil, unavailable("scans.list", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]scans.ScanEvent, 0)
	for rows.Next() {
		var (
			e         scans.ScanEvent
			lat, lng  sql.NullFloat64
			status    string
			scannedAt string
		)
		if err := rows.Scan(&e.ID, &e.PetID, &e.OwnerID, &lat, &lng, &status, &e.UserAgent, &scannedAt); err != nil {
			return nil, unavailable("scans.list", err)
		}
		if e.Timestamp, err = parseTime(scannedAt); err != nil {
			return nil, unavailable("scans.list", err)
		}
		e.LocationStatus = scans.LocationStatus(status)
		if lat.Valid && lng.Valid {
			e.Location = &scans.Location{Lat: lat.Float64, Lng: lng.Float64}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("scans.list", err)
	}
	return out, nil
}
