package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Supported values for [DatabaseConfig.Driver].
const (
	DriverSQLite    = "sqlite3"
	DriverPostgres  = "postgres"
	DriverPostgREST = "postgrest"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database  DatabaseConfig  `toml:"database"`
	PostgREST PostgRESTConfig `toml:"postgrest"`
	Server    ServerConfig    `toml:"server"`
	Sync      SyncConfig      `toml:"sync"`
	Logging   LoggingConfig   `toml:"logging"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Driver       string `toml:"driver"`
	DSN          string `toml:"dsn"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// PostgRESTConfig points at a hosted PostgREST endpoint (e.g. Supabase).
type PostgRESTConfig struct {
	URL            string  `toml:"url"`
	APIKey         string  `toml:"api_key"`
	RateLimit      float64 `toml:"rate_limit"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port for [net/http.Server].
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SyncConfig tunes the content sync routine.
type SyncConfig struct {
	MaxConcurrency int `toml:"max_concurrency"`
}

// LoggingConfig contains logger settings.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnvFiles loads .env style files into the process environment.
// Missing files are ignored; variables already set are never overwritten.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values with ACMS_* environment variables.
//
// SUPABASE_URL and SUPABASE_PUBLISHABLE_KEY are honored as fallbacks for the
// PostgREST endpoint.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}

	num := func(dst *int, key string) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, v)
		}
		*dst = n
		return nil
	}

	str(&c.Database.Driver, "ACMS_DATABASE_DRIVER")
	str(&c.Database.DSN, "ACMS_DATABASE_DSN", "DATABASE_URL")
	str(&c.PostgREST.URL, "ACMS_POSTGREST_URL", "SUPABASE_URL")
	str(&c.PostgREST.APIKey, "ACMS_POSTGREST_API_KEY", "SUPABASE_PUBLISHABLE_KEY")
	str(&c.Server.Host, "ACMS_SERVER_HOST")
	str(&c.Logging.Level, "ACMS_LOG_LEVEL")

	if err := num(&c.Server.Port, "ACMS_SERVER_PORT"); err != nil {
		return err
	}
	if err := num(&c.Sync.MaxConcurrency, "ACMS_SYNC_MAX_CONCURRENCY"); err != nil {
		return err
	}
	return nil
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case DriverSQLite, DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("%w: database.dsn is required for %s", ErrInvalidConfig, c.Database.Driver)
		}
	case DriverPostgREST:
		if c.PostgREST.URL == "" {
			return fmt.Errorf("%w: postgrest.url is required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalidConfig, c.Database.Driver)
	}

	if c.Sync.MaxConcurrency < 0 {
		return fmt.Errorf("%w: sync.max_concurrency must not be negative", ErrInvalidConfig)
	}

	if c.Logging.Level != "" {
		if _, err := log.ParseLevel(c.Logging.Level); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// LogLevel returns the configured [log.Level], falling back to info.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
