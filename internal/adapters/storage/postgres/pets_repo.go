package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-tag-lookup/internal/domain/pets"
	"pet-tag-lookup/internal/ports/storage"

	"github.com/jackc/pgx/v5"
)

const petColumns = `id, owner_id, name, owner_name, phone, address, notes, photo_url, created_at, updated_at`

type PetsRepo struct {
	db DB
}

func NewPetsRepo(db DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	if err := insertPet(ctx, r.db, p); err != nil {
		if isUniqueViolation(err) {
			return errors.New("pet already exists")
		}
		return storage.Unavailable("pets.create", err)
	}
	return nil
}

// insertPet la comparten Create y la activación (dentro de la tx del tag).
func insertPet(ctx context.Context, q querier, p pets.Pet) error {
	_, err := q.Exec(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		p.ID,
		p.OwnerID,
		p.Name,
		p.OwnerName,
		p.Phone,
		p.Address,
		p.Notes,
		toNullString(p.PhotoURL),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	// owner_id y created_at no se tocan nunca
	tag, err := r.db.Exec(ctx, `
		UPDATE pets
		SET
			name = $2,
			owner_name = $3,
			phone = $4,
			address = $5,
			notes = $6,
			updated_at = $7
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.OwnerName,
		p.Phone,
		p.Address,
		p.Notes,
		p.UpdatedAt,
	)
	if err != nil {
		return storage.Unavailable("pets.update", err)
	}
	if tag.RowsAffected() == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	if strings.TrimSpace(id) == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	p, err := scanPet(r.db.QueryRow(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, storage.Unavailable("pets.get", err)
	}
	return p, nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_id = $1
		ORDER BY created_at ASC, id ASC
	`, ownerID)
	if err != nil {
		return nil, storage.Unavailable("pets.list", err)
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, storage.Unavailable("pets.list", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("pets.list", err)
	}
	return out, nil
}

func scanPet(row pgx.Row) (pets.Pet, error) {
	var (
		p        pets.Pet
		photoURL sql.NullString
	)
	if err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.OwnerName,
		&p.Phone,
		&p.Address,
		&p.Notes,
		&photoURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}
	p.PhotoURL = fromNullString(photoURL)
	return p, nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
