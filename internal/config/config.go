// Package config loads server configuration from the environment.
//
// An optional .env file in the working directory is read first (it never
// overrides variables that are already set), then every setting falls back
// to a development-friendly default. Values that are present but malformed
// are load errors rather than silently replaced by defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// DefaultJWTSecret is only suitable for local development.
const DefaultJWTSecret = "demo_secret_key_change_me"

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Store    StoreConfig
	LogLevel string
}

type ServerConfig struct {
	Port        int
	Env         string // "production" or "development"
	CORSOrigins []string
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

type StoreConfig struct {
	Driver      string // StoreMemory or StoreSQLite
	DBPath      string // sqlite DSN, ":memory:" by default
	SeedOnStart bool
}

// IsDevelopment reports whether APP_ENV selects development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: reading .env: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function, so tests can supply a map
// instead of mutating the process environment.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	r := reader{lookup: lookup}

	cfg := &Config{
		Server: ServerConfig{
			Port:        r.int("PORT", 4000),
			Env:         r.string("APP_ENV", "production"),
			CORSOrigins: r.list("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Auth: AuthConfig{
			JWTSecret:  r.string("JWT_SECRET", DefaultJWTSecret),
			TokenTTL:   r.duration("TOKEN_TTL", 7*24*time.Hour),
			BcryptCost: r.int("BCRYPT_COST", 12),
		},
		Store: StoreConfig{
			Driver:      strings.ToLower(r.string("STORE_DRIVER", StoreMemory)),
			DBPath:      r.string("DB_PATH", ":memory:"),
			SeedOnStart: r.bool("SEED_ON_START", true),
		},
		LogLevel: strings.ToLower(r.string("LOG_LEVEL", "info")),
	}

	if err := errors.Join(r.errs...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks cross-field constraints and value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Server.Port))
	}
	switch c.Server.Env {
	case "production", "development":
	default:
		errs = append(errs, fmt.Errorf("APP_ENV must be production or development, got %q", c.Server.Env))
	}
	if len(c.Auth.JWTSecret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 characters"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	switch c.Store.Driver {
	case StoreMemory, StoreSQLite:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be memory or sqlite, got %q", c.Store.Driver))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel))
	}
	return errors.Join(errs...)
}

// reader collects parse errors so one Load reports every bad variable.
type reader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *reader) raw(key string) (string, bool) {
	v, ok := r.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (r *reader) string(key, def string) string {
	if v, ok := r.raw(key); ok {
		return v
	}
	return def
}

func (r *reader) int(key string, def int) int {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not an integer", key, v))
		return def
	}
	return n
}

func (r *reader) bool(key string, def bool) bool {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not a boolean", key, v))
		return def
	}
	return b
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not a duration", key, v))
		return def
	}
	return d
}

// list splits a comma-separated value, dropping empty entries.
func (r *reader) list(key string, def []string) []string {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
