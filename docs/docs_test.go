package docs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type annotatedOp struct {
	Summary     string
	Description string
	Tag         string
}

var (
	routeRe   = regexp.MustCompile(`@Router (\S+) \[(\w+)\]`)
	commentRe = regexp.MustCompile(`^// @(\w+) (.*)$`)
)

// readAnnotations junta los bloques godoc con @Router de los handlers.
func readAnnotations(t *testing.T) map[string]annotatedOp {
	t.Helper()

	files, err := filepath.Glob(filepath.Join("..", "internal", "domain", "*", "handler.go"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	out := map[string]annotatedOp{}
	for _, f := range files {
		b, err := os.ReadFile(f)
		require.NoError(t, err)

		var cur annotatedOp
		for _, line := range strings.Split(string(b), "\n") {
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, "//") {
				cur = annotatedOp{}
				continue
			}
			if m := routeRe.FindStringSubmatch(line); m != nil {
				out[m[1]+" "+m[2]] = cur
				cur = annotatedOp{}
				continue
			}
			m := commentRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			switch m[1] {
			case "Summary":
				cur.Summary = m[2]
			case "Description":
				cur.Description = m[2]
			case "Tags":
				cur.Tag = m[2]
			}
		}
	}
	return out
}

func TestSwaggerDocMatchesHandlerAnnotations(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]struct {
			Summary     string   `json:"summary"`
			Description string   `json:"description"`
			Tags        []string `json:"tags"`
		} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	want := readAnnotations(t)
	got := map[string]bool{}
	for path, ops := range doc.Paths {
		for method, op := range ops {
			key := path + " " + method
			got[key] = true

			w, ok := want[key]
			if !assert.True(t, ok, "documented route without handler: %s", key) {
				continue
			}
			assert.Equal(t, w.Summary, op.Summary, key)
			assert.Equal(t, w.Description, op.Description, key)
			assert.Equal(t, []string{w.Tag}, op.Tags, key)
		}
	}
	for key := range want {
		assert.True(t, got[key], "handler route missing from docs: %s", key)
	}
}
