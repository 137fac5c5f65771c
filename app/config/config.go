// Package config reads the service configuration from the environment,
// optionally seeded from .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DevEnv = "dev"
	ProEnv = "pro"

	// devJWTSecret signs tokens in development when JWT_SECRET is unset.
	devJWTSecret = "unsecure"
)

// Config holds every setting of the service.
type Config struct {
	Env  string `env:"ENV" envDefault:"pro" validate:"oneof=dev pro"`
	Addr string `env:"ADDR" envDefault:":8080" validate:"required"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"badger" validate:"oneof=badger sqlite postgres"`
	BadgerPath  string `env:"BADGER_PATH" envDefault:"data/badger"`
	DatabaseURL string `env:"DATABASE_URL" validate:"required_if=StoreDriver postgres"`
	BackupDir   string `env:"BACKUP_DIR" envDefault:"data/backups" validate:"required"`

	JWTSecret     string        `env:"JWT_SECRET" validate:"required"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"168h" validate:"gt=0"`
	SecureCookies bool          `env:"SECURE_COOKIES" envDefault:"false"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error"`
	LogFormat string `env:"LOG_FORMAT" validate:"oneof=console json"`
	LogFile   string `env:"LOG_FILE"`

	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	AutocertHost     string        `env:"AUTOCERT_HOST"`
	AutocertCacheDir string        `env:"AUTOCERT_CACHE_DIR" envDefault:"data/certs" validate:"required_with=AutocertHost"`

	PostsPageSize            int `env:"POSTS_PAGE_SIZE" envDefault:"10" validate:"gte=1"`
	CommentsPageSize         int `env:"COMMENTS_PAGE_SIZE" envDefault:"10" validate:"gte=1"`
	CommentsLoadMorePageSize int `env:"COMMENTS_LOAD_MORE_PAGE_SIZE" envDefault:"4" validate:"gte=1"`
	CommentPlacementPageSize int `env:"COMMENT_PLACEMENT_PAGE_SIZE" envDefault:"10" validate:"gte=1"`
	SearchLimit              int `env:"SEARCH_LIMIT" envDefault:"10" validate:"gte=1"`
	PreviewWords             int `env:"PREVIEW_WORDS" envDefault:"30" validate:"gte=1"`
}

// IsDev reports whether the service runs in development mode.
func (c *Config) IsDev() bool {
	return c.Env == DevEnv
}

// LoadDotEnv loads the given .env files (".env" when none are given) into the
// process environment. Missing files are ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// FromEnv builds the configuration from the process environment.
func FromEnv() (*Config, error) {
	return Load(env.ToMap(os.Environ()))
}

// Load builds and validates the configuration from the given variables.
func Load(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg.Env = strings.ToLower(cfg.Env)
	cfg.StoreDriver = strings.ToLower(cfg.StoreDriver)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
		if cfg.IsDev() {
			cfg.LogFormat = "console"
		}
	}
	if cfg.JWTSecret == "" && cfg.IsDev() {
		cfg.JWTSecret = devJWTSecret
	}
	if cfg.StoreDriver == "sqlite" && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "data/postboard.db"
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())
