package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pet-tag-lookup/internal/domain/pets"
	"pet-tag-lookup/internal/domain/tags"
)

type tagsRepo struct {
	db *sql.DB
}

func (r *tagsRepo) GetByID(ctx context.Context, id string) (tags.Tag, error) {
	var (
		t              tags.Tag
		status         string
		petID, ownerID sql.NullString
		createdAt      string
		linkedAt       sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, status, pet_id, owner_id, created_at, linked_at
		FROM tags
		WHERE id = ?
	`, id).Scan(&t.ID, &status, &petID, &ownerID, &createdAt, &linkedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tags.Tag{}, tags.ErrNotFound
		}
		return tags.Tag{}, unavailable("tags.get", err)
	}

	t.Status = tags.Status(status)
	t.PetID = petID.String
	t.OwnerID = ownerID.String
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return tags.Tag{}, unavailable("tags.get", err)
	}
	if linkedAt.Valid {
		at, err := parseTime(linkedAt.String)
		if err != nil {
			return tags.Tag{}, unavailable("tags.get", err)
		}
		t.LinkedAt = &at
	}
	return t, nil
}

func (r *tagsRepo) CreateMany(ctx context.Context, items []tags.Tag) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, unavailable("tags.create", err)
	}
	defer func() { _ = tx.Rollback() }()

	created := make([]string, 0, len(items))
	for _, t := range items {
		res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO tags (id, status, created_at)
			VALUES (?, ?, ?)
		`, t.ID, string(t.Status), formatTime(t.CreatedAt))
		if err != nil {
			return nil, unavailable("tags.create", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, unavailable("tags.create", err)
		}
		if n == 1 {
			created = append(created, t.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, unavailable("tags.create", err)
	}
	return created, nil
}

// Link: mismo esquema que en postgres, UPDATE condicionado + INSERT en una tx.
func (r *tagsRepo) Link(ctx context.Context, p pets.Pet, linkedAt time.Time) (tags.Tag, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return tags.Tag{}, unavailable("tags.link", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE tags
		SET status = 'linked', pet_id = ?, owner_id = ?, linked_at = ?
		WHERE id = ? AND status = 'available'
	`, p.ID, p.OwnerID, formatTime(linkedAt), p.ID)
	if err != nil {
		return tags.Tag{}, unavailable("tags.link", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return tags.Tag{}, unavailable("tags.link", err)
	}

	var status, createdAt string
	err = tx.QueryRowContext(ctx, `SELECT status, created_at FROM tags WHERE id = ?`, p.ID).Scan(&status, &createdAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return tags.Tag{}, tags.ErrNotFound
	case err != nil:
		return tags.Tag{}, unavailable("tags.link", err)
	case n == 0:
		return tags.Tag{}, tags.ErrAlreadyLinked
	}

	if err := insertPet(ctx, tx, p); err != nil {
		if isUniqueViolation(err) {
			return tags.Tag{}, tags.ErrAlreadyLinked
		}
		return tags.Tag{}, unavailable("tags.link", err)
	}

	if err := tx.Commit(); err != nil {
		return tags.Tag{}, unavailable("tags.link", err)
	}

	created, err := parseTime(createdAt)
	if err != nil {
		return tags.Tag{}, unavailable("tags.link", err)
	}
	at := linkedAt
	return tags.Tag{
		ID:        p.ID,
		Status:    tags.StatusLinked,
		PetID:     p.ID,
		OwnerID:   p.OwnerID,
		CreatedAt: created,
		LinkedAt:  &at,
	}, nil
}
