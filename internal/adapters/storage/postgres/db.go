package postgres

import (
	"context"
	_ "embed"
	"errors"
	"time"

	"pet-tag-lookup/internal/domain/pets"
	"pet-tag-lookup/internal/domain/scans"
	"pet-tag-lookup/internal/domain/tags"
	"pet-tag-lookup/internal/ports/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// DB es lo que usan los repos. *pgxpool.Pool lo cumple, y pgxmock también.
type DB interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// querier lo cumplen el pool y una pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	db   DB
	pool *pgxpool.Pool
}

// Open abre un pool a Postgres usando pgx.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables para MVP (ajustable luego)
	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{db: pool, pool: pool}, nil
}

// New arma un Store sobre una conexión existente (tests con pgxmock).
func New(db DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate crea las tablas si no existen. Es idempotente.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return storage.Unavailable("postgres.migrate", err)
	}
	return nil
}

func (s *Store) Pets() pets.Repository {
	return &PetsRepo{db: s.db}
}

func (s *Store) Tags() tags.Repository {
	return &TagsRepo{db: s.db}
}

func (s *Store) Scans() scans.Repository {
	return &ScansRepo{db: s.db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
