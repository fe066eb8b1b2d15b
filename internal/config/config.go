// Package config loads runtime settings from an optional .env file, a YAML
// file and ASCENT_* environment variables, in that order of precedence
// (later wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/alexanderramin/ascent/internal/calendar"
	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/alexanderramin/ascent/internal/progress"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DirName is the per-user data directory under $HOME.
	DirName  = ".ascent"
	fileName = "config.yaml"
)

type Config struct {
	DataDir     string `yaml:"data_dir" validate:"required"`
	DBPath      string `yaml:"db_path"`
	DatabaseURL string `yaml:"database_url" validate:"omitempty,url"`
	Timezone    string `yaml:"timezone" validate:"required,timezone"`
	// TimeOffset shifts "now" for every command. Used to preview later
	// program days.
	TimeOffset  time.Duration        `yaml:"time_offset"`
	CatalogPath string               `yaml:"catalog_path"`
	MaxCarries  int                  `yaml:"max_carries" validate:"min=1"`
	Debug       bool                 `yaml:"debug"`
	Phases      []domain.PhaseConfig `yaml:"phases" validate:"omitempty,dive"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	dataDir := DirName
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, DirName)
	}
	return Config{
		DataDir:    dataDir,
		Timezone:   calendar.DefaultTimezone,
		MaxCarries: progress.DefaultMaxCarries,
	}
}

// DefaultPath is the config file read when Load gets an empty path.
func DefaultPath() string {
	return filepath.Join(DefaultConfig().DataDir, fileName)
}

// Load reads the configuration. A missing file leaves the defaults in place;
// a missing .env is ignored.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: loading .env: %w", err)
	}

	cfg := DefaultConfig()
	if path == "" {
		path = os.Getenv("ASCENT_CONFIG")
	}
	if path == "" {
		path = DefaultPath()
	}
	if err := cfg.loadFile(path); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ASCENT_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("ASCENT_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("ASCENT_DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("ASCENT_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("ASCENT_CATALOG"); v != "" {
		c.CatalogPath = v
	}
	if v := os.Getenv("ASCENT_TIME_OFFSET"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: ASCENT_TIME_OFFSET: %w", err)
		}
		c.TimeOffset = d
	}
	if v := os.Getenv("ASCENT_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: ASCENT_DEBUG: %w", err)
		}
		c.Debug = b
	}
	if v := os.Getenv("ASCENT_MAX_CARRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: ASCENT_MAX_CARRIES: %w", err)
		}
		c.MaxCarries = n
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and, when a phase table is configured,
// that it covers the DB-day space contiguously.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if len(c.Phases) > 0 {
		if err := domain.ValidatePhases(c.Phases); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

// SQLitePath is the database file, defaulting to ascent.db in DataDir.
func (c Config) SQLitePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.DataDir, "ascent.db")
}

// PhaseTable returns the configured phases or the standard program.
func (c Config) PhaseTable() []domain.PhaseConfig {
	if len(c.Phases) > 0 {
		return c.Phases
	}
	return domain.DefaultPhases()
}

// Location loads the configured timezone.
func (c Config) Location() (*time.Location, error) {
	return calendar.LoadLocation(c.Timezone)
}
