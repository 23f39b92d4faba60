// Package config carga la configuración del servicio: defaults, archivo YAML
// opcional y variables de entorno (en ese orden de prioridad creciente).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	DB      DBConfig      `mapstructure:"db"`
	Log     LogConfig     `mapstructure:"log"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Public  PublicConfig  `mapstructure:"public"`
	Scans   ScansConfig   `mapstructure:"scans"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

type HTTPConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DBConfig struct {
	Driver     string `mapstructure:"driver"`
	DSN        string `mapstructure:"dsn"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	App    string `mapstructure:"app"`
}

// AuthConfig: si VerifyURL está vacío el servicio corre en modo dev
// (X-Debug-User-ID en vez de Bearer token).
type AuthConfig struct {
	VerifyURL    string        `mapstructure:"verify_url"`
	APIKey       string        `mapstructure:"api_key"`
	APIKeyHeader string        `mapstructure:"api_key_header"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type AdminConfig struct {
	UserIDs  []string `mapstructure:"user_ids"`
	AllowAll bool     `mapstructure:"allow_all"`
}

type PublicConfig struct {
	// BaseURL es lo que va impreso en los QR: {base_url}/p/{ID}
	BaseURL string `mapstructure:"base_url"`
}

type ScansConfig struct {
	LocationTimeout time.Duration `mapstructure:"location_timeout"`
	MaxPending      int           `mapstructure:"max_pending"`
}

type TracingConfig struct {
	Stdout bool `mapstructure:"stdout"`
}

// env vars por key. Se mantienen los nombres históricos (PORT, DB_DSN, ...).
var envBindings = map[string]string{
	"http.port":              "PORT",
	"db.driver":              "DB_DRIVER",
	"db.dsn":                 "DB_DSN",
	"db.sqlite_path":         "SQLITE_PATH",
	"log.level":              "LOG_LEVEL",
	"log.format":             "LOG_FORMAT",
	"log.app":                "APP_NAME",
	"auth.verify_url":        "AUTH_VERIFY_URL",
	"auth.api_key":           "AUTH_API_KEY",
	"auth.api_key_header":    "AUTH_API_KEY_HEADER",
	"admin.user_ids":         "ADMIN_USER_IDS",
	"admin.allow_all":        "ALLOW_ALL_CAPABILITIES",
	"public.base_url":        "PUBLIC_BASE_URL",
	"scans.location_timeout": "SCAN_LOCATION_TIMEOUT",
	"scans.max_pending":      "SCAN_MAX_PENDING",
	"tracing.stdout":         "TRACING_STDOUT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.read_timeout", 5*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.shutdown_timeout", 15*time.Second)

	v.SetDefault("db.driver", DriverMemory)
	v.SetDefault("db.sqlite_path", "data/pet-tag-lookup.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.app", "pet-tag-lookup")

	v.SetDefault("auth.api_key_header", "X-Api-Key")
	v.SetDefault("auth.timeout", 5*time.Second)

	v.SetDefault("admin.user_ids", []string{})
	v.SetDefault("admin.allow_all", false)

	v.SetDefault("public.base_url", "http://localhost:8080")
	v.SetDefault("scans.location_timeout", 60*time.Second)
	v.SetDefault("scans.max_pending", 10000)
	v.SetDefault("tracing.stdout", false)
}

// Load lee la config. Si path está vacío busca config.yaml en el directorio
// actual; que no exista no es error. Si path viene, el archivo tiene que existir.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	c.HTTP.Port = strings.TrimPrefix(strings.TrimSpace(c.HTTP.Port), ":")
	c.Public.BaseURL = strings.TrimRight(strings.TrimSpace(c.Public.BaseURL), "/")

	ids := make([]string, 0, len(c.Admin.UserIDs))
	for _, raw := range c.Admin.UserIDs {
		// ADMIN_USER_IDS llega como "a,b" o como lista YAML
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	c.Admin.UserIDs = ids
}

// Validate revisa combinaciones que no tienen sentido.
func (c Config) Validate() error {
	switch c.DB.Driver {
	case DriverMemory:
	case DriverPostgres:
		if strings.TrimSpace(c.DB.DSN) == "" {
			return errors.New("db.dsn (DB_DSN) is required for the postgres driver")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.DB.SQLitePath) == "" {
			return errors.New("db.sqlite_path (SQLITE_PATH) is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown db.driver %q (want memory, postgres or sqlite)", c.DB.Driver)
	}

	if c.HTTP.Port == "" {
		return errors.New("http.port is required")
	}
	if c.Scans.LocationTimeout <= 0 {
		return errors.New("scans.location_timeout must be positive")
	}
	if c.Scans.MaxPending <= 0 {
		return errors.New("scans.max_pending must be positive")
	}
	if strings.TrimSpace(c.Auth.APIKey) != "" && strings.TrimSpace(c.Auth.VerifyURL) == "" {
		return errors.New("auth.api_key is set but auth.verify_url is empty")
	}
	return nil
}

// Addr es la dirección de escucha para http.Server.
func (c Config) Addr() string {
	return ":" + c.HTTP.Port
}
