package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"pet-tag-lookup/internal/domain/pets"
)

const petColumns = `id, owner_id, name, owner_name, phone, address, notes, photo_url, created_at, updated_at`

// execer lo cumplen *sql.DB y *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type petsRepo struct {
	db *sql.DB
}

func (r *petsRepo) Create(ctx context.Context, p pets.Pet) error {
	if err := insertPet(ctx, r.db, p); err != nil {
		if isUniqueViolation(err) {
			return errors.New("pet already exists")
		}
		return unavailable("pets.create", err)
	}
	return nil
}

func insertPet(ctx context.Context, q execer, p pets.Pet) error {
	var photo sql.NullString
	if p.PhotoURL != nil {
		photo = sql.NullString{String: *p.PhotoURL, Valid: true}
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?)
	`,
		p.ID,
		p.OwnerID,
		p.Name,
		p.OwnerName,
		p.Phone,
		p.Address,
		p.Notes,
		photo,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	return err
}

func (r *petsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET name = ?, owner_name = ?, phone = ?, address = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, p.OwnerName, p.Phone, p.Address, p.Notes, formatTime(p.UpdatedAt), p.ID)
	if err != nil {
		return unavailable("pets.update", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("pets.update", err)
	}
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *petsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	p, err := scanPet(r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, unavailable("pets.get", err)
	}
	return p, nil
}

func (r *petsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_id = ?
		ORDER BY created_at ASC, id ASC
	`, ownerID)
	if err != nil {
		return nil, unavailable("pets.list", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, unavailable("pets.list", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("pets.list", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var (
		p                    pets.Pet
		photo                sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.OwnerName, &p.Phone, &p.Address, &p.Notes, &photo, &createdAt, &updatedAt); err != nil {
		return pets.Pet{}, err
	}

	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return pets.Pet{}, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return pets.Pet{}, err
	}
	if photo.Valid {
		v := photo.String
		p.PhotoURL = &v
	}
	return p, nil
}
