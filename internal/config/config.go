// Package config loads scorekeep settings. Sources are applied in order,
// later ones winning: built-in defaults, the YAML file, environment
// variables (a .env file is loaded first), then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/scorekeep/internal/domain"
	"github.com/hammamikhairi/scorekeep/internal/logger"
	"github.com/hammamikhairi/scorekeep/internal/storage"
)

// Environment variable names.
const (
	EnvTitle          = "SCOREKEEP_TITLE"
	EnvStorage        = "SCOREKEEP_STORAGE"
	EnvStorageDir     = "SCOREKEEP_STORAGE_DIR"
	EnvRedisURL       = "SCOREKEEP_REDIS_URL"
	EnvRedisPrefix    = "SCOREKEEP_REDIS_PREFIX"
	EnvSQLDriver      = "SCOREKEEP_SQL_DRIVER"
	EnvSQLDSN         = "SCOREKEEP_SQL_DSN"
	EnvBroadcastAddr  = "SCOREKEEP_BROADCAST_ADDR"
	EnvAllowedOrigins = "SCOREKEEP_ALLOWED_ORIGINS"
	EnvHorn           = "SCOREKEEP_HORN"
	EnvLogLevel       = "SCOREKEEP_LOG_LEVEL"
	EnvLogFile        = "SCOREKEEP_LOG_FILE"
	EnvLogFormat      = "SCOREKEEP_LOG_FORMAT"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config is the full application configuration.
type Config struct {
	Title     string          `yaml:"title"`
	Defaults  domain.Defaults `yaml:"defaults"`
	Storage   Storage         `yaml:"storage"`
	Broadcast Broadcast       `yaml:"broadcast"`
	Horn      Horn            `yaml:"horn"`
	Log       Log             `yaml:"log"`
}

// Storage selects where team names are persisted.
type Storage struct {
	Backend     string `yaml:"backend"` // file, memory, redis, sql, none
	Dir         string `yaml:"dir"`
	RedisURL    string `yaml:"redis_url"`
	RedisPrefix string `yaml:"redis_prefix"`
	SQLDriver   string `yaml:"sql_driver"` // sqlite3, postgres
	SQLDSN      string `yaml:"sql_dsn"`
}

// Broadcast configures the overlay feed. An empty Addr disables it.
type Broadcast struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Horn configures the end-of-clock buzzer.
type Horn struct {
	Enabled   bool          `yaml:"enabled"`
	Frequency float64       `yaml:"frequency"`
	Duration  time.Duration `yaml:"duration"`
	Volume    float64       `yaml:"volume"`
}

// Log configures the application log.
type Log struct {
	Level  string `yaml:"level"`  // off, normal, verbose
	File   string `yaml:"file"`   // "stderr" logs to the console
	Format string `yaml:"format"` // console, json
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Title:    domain.DefaultTitle,
		Defaults: domain.StandardDefaults(),
		Storage: Storage{
			Backend:     storage.KindFile,
			Dir:         ".scorekeep",
			RedisPrefix: "scorekeep:",
			SQLDriver:   storage.DriverSQLite,
		},
		Broadcast: Broadcast{
			AllowedOrigins: []string{"*"},
		},
		Horn: Horn{
			Enabled:   true,
			Frequency: 220,
			Duration:  1500 * time.Millisecond,
			Volume:    0.6,
		},
		Log: Log{
			Level:  logger.LevelNormal.String(),
			File:   ".scorekeep/scorekeep.log",
			Format: FormatConsole,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path (if path
// is non-empty) and then the environment. Fields missing from the file
// keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding ones already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from SCOREKEEP_* variables read via getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	setString(EnvTitle, &c.Title)
	setString(EnvStorage, &c.Storage.Backend)
	setString(EnvStorageDir, &c.Storage.Dir)
	setString(EnvRedisURL, &c.Storage.RedisURL)
	setString(EnvRedisPrefix, &c.Storage.RedisPrefix)
	setString(EnvSQLDriver, &c.Storage.SQLDriver)
	setString(EnvSQLDSN, &c.Storage.SQLDSN)
	setString(EnvBroadcastAddr, &c.Broadcast.Addr)
	setString(EnvLogLevel, &c.Log.Level)
	setString(EnvLogFile, &c.Log.File)
	setString(EnvLogFormat, &c.Log.Format)

	if v := getenv(EnvAllowedOrigins); v != "" {
		c.Broadcast.AllowedOrigins = splitList(v)
	}
	if v := getenv(EnvHorn); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHorn, err)
		}
		c.Horn.Enabled = on
	}
	return nil
}

// Validate reports configuration that cannot be started.
func (c *Config) Validate() error {
	var errs []error

	kinds := []string{storage.KindFile, storage.KindMemory, storage.KindRedis, storage.KindSQL, storage.KindNone}
	if !slices.Contains(kinds, c.Storage.Backend) {
		errs = append(errs, fmt.Errorf("storage.backend: unknown backend %q (want one of %s)",
			c.Storage.Backend, strings.Join(kinds, ", ")))
	}
	if c.Storage.Backend == storage.KindFile && c.Storage.Dir == "" {
		errs = append(errs, errors.New("storage.dir: required for the file backend"))
	}
	if c.Storage.Backend == storage.KindRedis && c.Storage.RedisURL == "" {
		errs = append(errs, errors.New("storage.redis_url: required for the redis backend"))
	}
	if c.Storage.Backend == storage.KindSQL {
		if c.Storage.SQLDriver != storage.DriverSQLite && c.Storage.SQLDriver != storage.DriverPostgres {
			errs = append(errs, fmt.Errorf("storage.sql_driver: unknown driver %q", c.Storage.SQLDriver))
		}
		if c.Storage.SQLDSN == "" {
			errs = append(errs, errors.New("storage.sql_dsn: required for the sql backend"))
		}
	}
	if c.Log.Format != FormatConsole && c.Log.Format != FormatJSON {
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if c.Horn.Enabled {
		if c.Horn.Frequency <= 0 {
			errs = append(errs, errors.New("horn.frequency: must be positive"))
		}
		if c.Horn.Duration <= 0 {
			errs = append(errs, errors.New("horn.duration: must be positive"))
		}
		if c.Horn.Volume < 0 || c.Horn.Volume > 1 {
			errs = append(errs, errors.New("horn.volume: must be between 0 and 1"))
		}
	}
	return errors.Join(errs...)
}

// StorageOptions converts the storage section for storage.Open.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Kind:        c.Storage.Backend,
		Dir:         c.Storage.Dir,
		RedisURL:    c.Storage.RedisURL,
		RedisPrefix: c.Storage.RedisPrefix,
		SQLDriver:   c.Storage.SQLDriver,
		SQLDSN:      c.Storage.SQLDSN,
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
