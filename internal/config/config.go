// Package config loads reconciliation settings from environment variables,
// applies defaults and validates everything up front so a bad setting fails
// before any file is read.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Paths     PathsConfig
	Reconcile ReconcileConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Logging   LoggingConfig
}

// PathsConfig locates the two inputs and three outputs of a run. The
// extension of each path picks its format (.xlsx or .csv).
type PathsConfig struct {
	// Base is the resolution registry export (default: base.xlsx)
	Base string `env:"BASE_PATH" default:"base.xlsx"`

	// Search is the list of citations to resolve (default: busqueda.xlsx)
	Search string `env:"SEARCH_PATH" default:"busqueda.xlsx"`

	// Output receives the original/superseding pairs (default: final.xlsx)
	Output string `env:"OUTPUT_PATH" envAlt:"FINAL_PATH" default:"final.xlsx"`

	// Unmatched receives citations absent from the base (default: no_encontrados.xlsx)
	Unmatched string `env:"UNMATCHED_PATH" default:"no_encontrados.xlsx"`

	// Duplicates receives every member of a duplicate group (default: duplicados.xlsx)
	Duplicates string `env:"DUPLICATES_PATH" default:"duplicados.xlsx"`
}

// ReconcileConfig tunes the matching rules.
type ReconcileConfig struct {
	// DedupDateColumn is the base column ranked to pick a duplicate's
	// representative (default: Fecha de la resolución)
	DedupDateColumn string `env:"DEDUP_DATE_COLUMN" default:"Fecha de la resolución"`

	// DateDayFirst reads ambiguous dates as dd/mm/yyyy (default: true)
	DateDayFirst bool `env:"DATE_DAY_FIRST" default:"true"`

	// OriginalTypeCode is written to the original record (default: 1)
	OriginalTypeCode string `env:"ORIGINAL_TYPE_CODE" default:"1"`

	// SupersedingTypeCode is written to the superseding record (default: 16)
	SupersedingTypeCode string `env:"SUPERSEDING_TYPE_CODE" default:"16"`
}

// ServerConfig holds HTTP server settings for the serve command.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 60s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"60s"`

	// WriteTimeout is the maximum duration for writing response (default: 120s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"120s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 90s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"90s"`

	// MaxConcurrentRuns caps simultaneous reconciliations (default: 4)
	MaxConcurrentRuns int `env:"SERVER_MAX_CONCURRENT_RUNS" default:"4"`

	// RunWait is how long a request waits for a free slot (default: 30s)
	RunWait time.Duration `env:"SERVER_RUN_WAIT" default:"30s"`

	// MaxUploadSize caps the combined multipart body in bytes (default: 100MB)
	MaxUploadSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"104857600"`
}

// DatabaseConfig holds run-history connection settings. History is disabled
// when URL is empty.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (optional)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// Enabled reports whether run history should be recorded.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
