package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, DriverMemory, cfg.DB.Driver)
	assert.Equal(t, 60*time.Second, cfg.Scans.LocationTimeout)
	assert.Equal(t, 10000, cfg.Scans.MaxPending)
	assert.Equal(t, "pet-tag-lookup", cfg.Log.App)
	assert.Empty(t, cfg.Admin.UserIDs)
	assert.False(t, cfg.Admin.AllowAll)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_DSN", "postgres://u:p@localhost/tags")
	t.Setenv("ADMIN_USER_IDS", "admin-1, admin-2")
	t.Setenv("ALLOW_ALL_CAPABILITIES", "true")
	t.Setenv("SCAN_LOCATION_TIMEOUT", "30s")
	t.Setenv("PUBLIC_BASE_URL", "https://tags.example.com/")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "postgres://u:p@localhost/tags", cfg.DB.DSN)
	assert.Equal(t, []string{"admin-1", "admin-2"}, cfg.Admin.UserIDs)
	assert.True(t, cfg.Admin.AllowAll)
	assert.Equal(t, 30*time.Second, cfg.Scans.LocationTimeout)
	assert.Equal(t, "https://tags.example.com", cfg.Public.BaseURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db:
  driver: sqlite
  sqlite_path: /tmp/tags.db
admin:
  user_ids:
    - admin-1
scans:
  location_timeout: 45s
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/tags.db", cfg.DB.SQLitePath)
	assert.Equal(t, []string{"admin-1"}, cfg.Admin.UserIDs)
	assert.Equal(t, 45*time.Second, cfg.Scans.LocationTimeout)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{
		HTTP:  HTTPConfig{Port: "8080"},
		DB:    DBConfig{Driver: DriverMemory},
		Scans: ScansConfig{LocationTimeout: time.Minute, MaxPending: 100},
	}
	require.NoError(t, base.Validate())

	c := base
	c.DB.Driver = "mongo"
	assert.Error(t, c.Validate())

	c = base
	c.DB.Driver = DriverPostgres
	assert.Error(t, c.Validate())

	c = base
	c.Auth.APIKey = "k"
	assert.Error(t, c.Validate())

	c = base
	c.Scans.LocationTimeout = 0
	assert.Error(t, c.Validate())

	c = base
	c.Scans.MaxPending = 0
	assert.Error(t, c.Validate())
}
