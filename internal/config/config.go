// Package config loads booktab settings from environment variables.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/booktab/internal/storage"
	"github.com/lehigh-university-libraries/booktab/internal/tabular"
)

// Config holds all settings. Command-line flags override individual fields.
type Config struct {
	Store   StoreConfig
	Import  ImportConfig
	Search  SearchConfig
	Server  ServerConfig
	Logging LoggingConfig
}

type StoreConfig struct {
	// Driver is one of memory, file or sqlite
	Driver string `env:"BOOKTAB_STORE_DRIVER" default:"file"`

	// Path is the catalog file or database. A .zst suffix compresses the
	// file store.
	Path string `env:"BOOKTAB_STORE_PATH" default:"books.json"`

	SettingsPath string `env:"BOOKTAB_SETTINGS_PATH" default:"settings.yaml"`
}

type ImportConfig struct {
	// Encoding of CSV input: utf-8, windows-1253 or iso-8859-7
	Encoding string `env:"BOOKTAB_CSV_ENCODING" default:"utf-8"`

	// MaxFileSize caps uploads through the HTTP API (default: 32MB)
	MaxFileSize int64 `env:"BOOKTAB_MAX_UPLOAD_SIZE" default:"33554432"`
}

type SearchConfig struct {
	// MinLength is the shortest query that filters. Shorter queries list
	// the whole catalog.
	MinLength int `env:"BOOKTAB_SEARCH_MIN_LENGTH" default:"2"`
}

type ServerConfig struct {
	Port            int           `env:"SERVER_PORT" default:"8888"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"5s"`
}

type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" default:"info"`
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the listen address.
func (c *ServerConfig) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Load reads configuration from the environment, applies defaults and
// validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		value := os.Getenv(envName)
		if value == "" {
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []string

	switch c.Store.Driver {
	case storage.DriverMemory, storage.DriverFile, storage.DriverSQLite:
	default:
		errs = append(errs, fmt.Sprintf("BOOKTAB_STORE_DRIVER (%q) must be one of: memory, file, sqlite", c.Store.Driver))
	}
	if c.Store.Driver != storage.DriverMemory && c.Store.Path == "" {
		errs = append(errs, "BOOKTAB_STORE_PATH is required")
	}

	if _, err := tabular.LookupEncoding(c.Import.Encoding); err != nil {
		errs = append(errs, fmt.Sprintf("BOOKTAB_CSV_ENCODING (%q) must be one of: utf-8, windows-1253, iso-8859-7", c.Import.Encoding))
	}
	if c.Import.MaxFileSize <= 0 {
		errs = append(errs, "BOOKTAB_MAX_UPLOAD_SIZE must be positive")
	}

	if c.Search.MinLength < 0 {
		errs = append(errs, "BOOKTAB_SEARCH_MIN_LENGTH must be non-negative")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
