package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/resolutions/internal/sheet"
)

// Load reads configuration from the process environment.
// It applies defaults for unset values and validates the result.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads configuration through getenv, so callers and tests can
// supply their own environment.
func LoadFrom(getenv func(string) string) (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem(), getenv); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value, getenv func(string) string) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into nested structs
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal, getenv); err != nil {
				return err
			}
			continue
		}

		// Get tags
		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := strings.TrimSpace(getenv(envName))
		if value == "" && envAlt != "" {
			value = strings.TrimSpace(getenv(envAlt))
		}

		// Apply default if not set
		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		// Set the field value
		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
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

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Paths validation
	paths := []struct {
		env, value string
	}{
		{"BASE_PATH", c.Paths.Base},
		{"SEARCH_PATH", c.Paths.Search},
		{"OUTPUT_PATH", c.Paths.Output},
		{"UNMATCHED_PATH", c.Paths.Unmatched},
		{"DUPLICATES_PATH", c.Paths.Duplicates},
	}
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		if p.value == "" {
			errs = append(errs, p.env+" is required")
			continue
		}
		if _, err := sheet.FormatFromPath(p.value); err != nil {
			errs = append(errs, fmt.Sprintf("%s (%q) must end in .xlsx or .csv", p.env, p.value))
		}
		key := filepath.Clean(p.value)
		if other, dup := seen[key]; dup {
			errs = append(errs, fmt.Sprintf("%s and %s both point to %q", other, p.env, p.value))
			continue
		}
		seen[key] = p.env
	}

	// Reconcile validation
	if strings.TrimSpace(c.Reconcile.DedupDateColumn) == "" {
		errs = append(errs, "DEDUP_DATE_COLUMN must not be empty")
	}
	if c.Reconcile.OriginalTypeCode == "" || c.Reconcile.SupersedingTypeCode == "" {
		errs = append(errs, "ORIGINAL_TYPE_CODE and SUPERSEDING_TYPE_CODE must not be empty")
	} else if c.Reconcile.OriginalTypeCode == c.Reconcile.SupersedingTypeCode {
		errs = append(errs, fmt.Sprintf("ORIGINAL_TYPE_CODE and SUPERSEDING_TYPE_CODE must differ (both %q)",
			c.Reconcile.OriginalTypeCode))
	}

	// Database validation, only when history is enabled
	if c.Database.Enabled() {
		if c.Database.MaxConns <= 0 {
			errs = append(errs, "DB_MAX_CONNS must be positive")
		}
		if c.Database.MinConns < 0 {
			errs = append(errs, "DB_MIN_CONNS must be non-negative")
		}
		if c.Database.MaxConns < c.Database.MinConns {
			errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
				c.Database.MaxConns, c.Database.MinConns))
		}
	}

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.MaxConcurrentRuns <= 0 {
		errs = append(errs, "SERVER_MAX_CONCURRENT_RUNS must be positive")
	}
	if c.Server.MaxUploadSize <= 0 {
		errs = append(errs, "UPLOAD_MAX_FILE_SIZE must be positive")
	}

	// Logging validation
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

// String returns a safe string representation of the config for logging.
// The database URL is masked.
func (c *Config) String() string {
	db := "[DISABLED]"
	if c.Database.Enabled() {
		db = "[MASKED]"
	}

	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Paths: {Base: %q, Search: %q, Output: %q, Unmatched: %q, Duplicates: %q}, ",
		c.Paths.Base, c.Paths.Search, c.Paths.Output, c.Paths.Unmatched, c.Paths.Duplicates))
	b.WriteString(fmt.Sprintf("Reconcile: {DedupDateColumn: %q, DayFirst: %v, Codes: %q/%q}, ",
		c.Reconcile.DedupDateColumn, c.Reconcile.DateDayFirst,
		c.Reconcile.OriginalTypeCode, c.Reconcile.SupersedingTypeCode))
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Database: {URL: %s, MaxConns: %d, MinConns: %d}, ",
		db, c.Database.MaxConns, c.Database.MinConns))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
