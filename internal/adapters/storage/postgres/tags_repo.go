package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pet-tag-lookup/internal/domain/pets"
	"pet-tag-lookup/internal/domain/tags"
	"pet-tag-lookup/internal/ports/storage"

	"github.com/jackc/pgx/v5"
)

type TagsRepo struct {
	db DB
}

func NewTagsRepo(db DB) *TagsRepo {
	return &TagsRepo{db: db}
}

func (r *TagsRepo) GetByID(ctx context.Context, id string) (tags.Tag, error) {
	var (
		t        tags.Tag
		status   string
		petID    sql.NullString
		ownerID  sql.NullString
		linkedAt sql.NullTime
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, status, pet_id, owner_id, created_at, linked_at
		FROM tags
		WHERE id = $1
	`, id).Scan(&t.ID, &status, &petID, &ownerID, &t.CreatedAt, &linkedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tags.Tag{}, tags.ErrNotFound
		}
		return tags.Tag{}, storage.Unavailable("tags.get", err)
	}

	t.Status = tags.Status(status)
	t.PetID = petID.String
	t.OwnerID = ownerID.String
	if linkedAt.Valid {
		at := linkedAt.Time
		t.LinkedAt = &at
	}
	return t, nil
}

// CreateMany inserta el lote en una transacción. ON CONFLICT DO NOTHING: un
// ID existente (available o linked) queda como está.
func (r *TagsRepo) CreateMany(ctx context.Context, items []tags.Tag) ([]string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, storage.Unavailable("tags.create", err)
	}

	created := make([]string, 0, len(items))
	for _, t := range items {
		res, err := tx.Exec(ctx, `
			INSERT INTO tags (id, status, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO NOTHING
		`, t.ID, string(t.Status), t.CreatedAt)
		if err != nil {
			_ = tx.Rollback(ctx)
			return nil, storage.Unavailable("tags.create", err)
		}
		if res.RowsAffected() == 1 {
			created = append(created, t.ID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storage.Unavailable("tags.create", err)
	}
	return created, nil
}

// Link hace la activación en una transacción:
//
//	UPDATE tags ... WHERE id = $1 AND status = 'available'
//	INSERT INTO pets ...
//
// El UPDATE toma el lock de la fila; si dos activaciones compiten, la segunda
// espera, re-evalúa la condición y no actualiza nada.
func (r *TagsRepo) Link(ctx context.Context, p pets.Pet, linkedAt time.Time) (tags.Tag, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return tags.Tag{}, storage.Unavailable("tags.link", err)
	}

	var createdAt time.Time
	err = tx.QueryRow(ctx, `
		UPDATE tags
		SET status = 'linked', pet_id = $1, owner_id = $2, linked_at = $3
		WHERE id = $1 AND status = 'available'
		RETURNING created_at
	`, p.ID, p.OwnerID, linkedAt).Scan(&createdAt)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			_ = tx.Rollback(ctx)
			return tags.Tag{}, storage.Unavailable("tags.link", err)
		}

		// no se actualizó nada: o no existe o ya no está available
		var status string
		err = tx.QueryRow(ctx, `SELECT status FROM tags WHERE id = $1`, p.ID).Scan(&status)
		_ = tx.Rollback(ctx)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return tags.Tag{}, tags.ErrNotFound
		case err != nil:
			return tags.Tag{}, storage.Unavailable("tags.link", err)
		default:
			return tags.Tag{}, tags.ErrAlreadyLinked
		}
	}

	if err := insertPet(ctx, tx, p); err != nil {
		_ = tx.Rollback(ctx)
		if isUniqueViolation(err) {
			return tags.Tag{}, tags.ErrAlreadyLinked
		}
		return tags.Tag{}, storage.Unavailable("tags.link", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return tags.Tag{}, storage.Unavailable("tags.link", err)
	}

	at := linkedAt
	return tags.Tag{
		ID:        p.ID,
		Status:    tags.StatusLinked,
		PetID:     p.ID,
		OwnerID:   p.OwnerID,
		CreatedAt: createdAt,
		LinkedAt:  &at,
	}, nil
}
