package storage

import (
	"errors"
	"fmt"
)

// ErrUnavailable indica que el backend de persistencia falló (red, auth, cuota, etc.).
// Los adapters nunca la usan para "no existe": eso son los ErrNotFound de cada dominio.
var ErrUnavailable = errors.New("store unavailable")

// UnavailableError conserva la causa original y sigue respondiendo a
// errors.Is(err, ErrUnavailable).
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrUnavailable, e.Err)
}

func (e *UnavailableError) Unwrap() []error {
	return []error{ErrUnavailable, e.Err}
}

// Unavailable envuelve err (si no es nil) con la operación que falló.
// Si err ya es un UnavailableError se devuelve tal cual para no anidar.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return err
	}
	return &UnavailableError{Op: op, Err: err}
}
