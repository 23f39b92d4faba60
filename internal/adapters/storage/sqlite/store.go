// Package sqlite guarda tags, mascotas y escaneos en un archivo SQLite
// (driver modernc, sin cgo). Pensado para despliegues de un solo binario.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pet-tag-lookup/internal/domain/pets"
	"pet-tag-lookup/internal/domain/scans"
	"pet-tag-lookup/internal/domain/tags"
	"pet-tag-lookup/internal/ports/storage"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

type Store struct {
	db *sql.DB
}

// Open abre (o crea) la base en path y aplica el schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = "pet-tag-lookup.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// una sola conexión: las transacciones quedan serializadas en el proceso
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Pets() pets.Repository {
	return &petsRepo{db: s.db}
}

func (s *Store) Tags() tags.Repository {
	return &tagsRepo{db: s.db}
}

func (s *Store) Scans() scans.Repository {
	return &scansRepo{db: s.db}
}

// Los tiempos se guardan como texto en UTC con ancho fijo, así ORDER BY
// sobre el string coincide con el orden cronológico.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func unavailable(op string, err error) error {
	return storage.Unavailable(op, err)
}
