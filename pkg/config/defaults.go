package config

import "time"

// Default values for configuration fields.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMinConfidenceThreshold = 0.7

	DefaultMaxConcurrentReviews  = 2
	DefaultTimeoutSeconds        = 300
	DefaultPollInterval          = time.Second
	DefaultHistoryRetentionHours = 24
	DefaultMaxHistoryEntries     = 1000
	DefaultPruneSchedule         = "@every 10m"
	DefaultArchive               = "none"
	DefaultArchivePath           = "data/reviews.db"

	DefaultMetricsListenAddress = "127.0.0.1:9090"
)

// ApplyDefaults fills in default values for unset fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}

	if cfg.Compliance.MinConfidenceThreshold == 0 {
		cfg.Compliance.MinConfidenceThreshold = DefaultMinConfidenceThreshold
	}

	if cfg.Review.MaxConcurrentReviews == 0 {
		cfg.Review.MaxConcurrentReviews = DefaultMaxConcurrentReviews
	}
	if cfg.Review.DefaultTimeoutSeconds == 0 {
		cfg.Review.DefaultTimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.Review.PollInterval == 0 {
		cfg.Review.PollInterval = DefaultPollInterval
	}
	if cfg.Review.HistoryRetentionHours == 0 {
		cfg.Review.HistoryRetentionHours = DefaultHistoryRetentionHours
	}
	if cfg.Review.MaxHistoryEntries == 0 {
		cfg.Review.MaxHistoryEntries = DefaultMaxHistoryEntries
	}
	if cfg.Review.PruneSchedule == "" {
		cfg.Review.PruneSchedule = DefaultPruneSchedule
	}
	if cfg.Review.Archive == "" {
		cfg.Review.Archive = DefaultArchive
	}
	if cfg.Review.ArchivePath == "" {
		cfg.Review.ArchivePath = DefaultArchivePath
	}

	if cfg.Metrics.ListenAddress == "" {
		cfg.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
}

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
