package config

import "time"

// Config is the root configuration structure for the veritas review
// service.
type Config struct {
	// Logging controls log output.
	Logging LoggingConfig `yaml:"logging"`

	// Catalog configures template loading.
	Catalog CatalogConfig `yaml:"catalog"`

	// Compliance configures the template compliance engine.
	Compliance ComplianceConfig `yaml:"compliance"`

	// Review configures the review orchestration engine.
	Review ReviewConfig `yaml:"review"`

	// Metrics configures the Prometheus endpoint of the serve command.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig controls structured log output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: "info"
	Level string `yaml:"level"`

	// Format is one of json, text, console.
	// Default: "json"
	Format string `yaml:"format"`
}

// CatalogConfig configures template registration.
type CatalogConfig struct {
	// TemplateDir is an optional directory of YAML template files
	// registered on top of the built-in templates.
	TemplateDir string `yaml:"template_dir"`

	// Watch re-registers templates when files in TemplateDir change.
	// Default: false
	Watch bool `yaml:"watch"`
}

// ComplianceConfig configures the compliance engine.
type ComplianceConfig struct {
	// CaseSensitive disables the default case-insensitive matching.
	// Default: false
	CaseSensitive bool `yaml:"case_sensitive"`

	// MinConfidenceThreshold discards section matches scoring below it.
	// Default: 0.7
	MinConfidenceThreshold float64 `yaml:"min_confidence_threshold"`
}

// ReviewConfig configures the review orchestration engine.
type ReviewConfig struct {
	// MaxConcurrentReviews is the worker pool size.
	// Default: 2
	MaxConcurrentReviews int `yaml:"max_concurrent_reviews"`

	// DefaultTimeoutSeconds applies to requests without a timeout.
	// Default: 300
	DefaultTimeoutSeconds int `yaml:"default_timeout_seconds"`

	// PollInterval is the worker fallback wake-up period.
	// Default: 1s
	PollInterval time.Duration `yaml:"poll_interval"`

	// HistoryRetentionHours bounds how long terminal results stay in
	// the in-memory history.
	// Default: 24
	HistoryRetentionHours int `yaml:"history_retention_hours"`

	// MaxHistoryEntries caps the in-memory history length.
	// Default: 1000
	MaxHistoryEntries int `yaml:"max_history_entries"`

	// PruneSchedule is the cron schedule for history pruning.
	// Default: "@every 10m"
	PruneSchedule string `yaml:"prune_schedule"`

	// Archive selects the terminal-result archive backend:
	// none, memory, or sqlite.
	// Default: "none"
	Archive string `yaml:"archive"`

	// ArchivePath is the SQLite database path when Archive is "sqlite".
	// Default: "data/reviews.db"
	ArchivePath string `yaml:"archive_path"`
}

// MetricsConfig configures metrics exposure.
type MetricsConfig struct {
	// Enabled turns on the /metrics endpoint in serve mode.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the metrics listener in "host:port" form.
	// Default: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address"`
}
