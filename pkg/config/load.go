package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults,
// and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies VERITAS_SECTION_FIELD environment variable overrides, which
// always take precedence over file values.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("VERITAS_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("VERITAS_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	if val := os.Getenv("VERITAS_CATALOG_TEMPLATE_DIR"); val != "" {
		cfg.Catalog.TemplateDir = val
	}
	if val := os.Getenv("VERITAS_CATALOG_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Catalog.Watch = b
		}
	}

	if val := os.Getenv("VERITAS_COMPLIANCE_CASE_SENSITIVE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Compliance.CaseSensitive = b
		}
	}
	if val := os.Getenv("VERITAS_COMPLIANCE_MIN_CONFIDENCE_THRESHOLD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Compliance.MinConfidenceThreshold = f
		}
	}

	if val := os.Getenv("VERITAS_REVIEW_MAX_CONCURRENT_REVIEWS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Review.MaxConcurrentReviews = i
		}
	}
	if val := os.Getenv("VERITAS_REVIEW_DEFAULT_TIMEOUT_SECONDS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Review.DefaultTimeoutSeconds = i
		}
	}
	if val := os.Getenv("VERITAS_REVIEW_POLL_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Review.PollInterval = d
		}
	}
	if val := os.Getenv("VERITAS_REVIEW_HISTORY_RETENTION_HOURS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Review.HistoryRetentionHours = i
		}
	}
	if val := os.Getenv("VERITAS_REVIEW_MAX_HISTORY_ENTRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Review.MaxHistoryEntries = i
		}
	}
	if val := os.Getenv("VERITAS_REVIEW_PRUNE_SCHEDULE"); val != "" {
		cfg.Review.PruneSchedule = val
	}
	if val := os.Getenv("VERITAS_REVIEW_ARCHIVE"); val != "" {
		cfg.Review.Archive = val
	}
	if val := os.Getenv("VERITAS_REVIEW_ARCHIVE_PATH"); val != "" {
		cfg.Review.ArchivePath = val
	}

	if val := os.Getenv("VERITAS_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("VERITAS_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Metrics.ListenAddress = val
	}
}
