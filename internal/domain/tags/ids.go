package tags

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	DefaultPad          = 3
	DefaultRandomLength = 8
	MaxBatchSize        = 500

	randomAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NormalizeID es la forma canónica de un tag ID: sin espacios y en mayúsculas.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// SequenceIDs arma {prefix}{n con ceros a la izquierda} para n en [start, start+count).
func SequenceIDs(prefix string, start, count, pad int) []string {
	if pad <= 0 {
		pad = DefaultPad
	}
	prefix = strings.TrimSpace(prefix)

	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, NormalizeID(fmt.Sprintf("%s%0*d", prefix, pad, start+i)))
	}
	return out
}

// RandomIDs genera count IDs aleatorios sin repetidos dentro del lote.
func RandomIDs(count, length int) ([]string, error) {
	if length <= 0 {
		length = DefaultRandomLength
	}

	seen := make(map[string]struct{}, count)
	out := make([]string, 0, count)
	for len(out) < count {
		id, err := gonanoid.Generate(randomAlphabet, length)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// PublicURL es la URL que va impresa en el QR.
func PublicURL(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/p/" + id
}
