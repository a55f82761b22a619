package config

import (
	"fmt"
	"strings"
)

// FieldError is a validation error for one configuration field.
type FieldError struct {
	// Field is the dotted path of the field (e.g. "review.archive").
	Field string

	// Message is a human-readable error message.
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects all field errors found in a configuration.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate checks the configuration and returns a ValidationError
// listing every violation, or nil when the configuration is valid.
func Validate(cfg *Config) error {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{"logging.level", fmt.Sprintf("unknown level %q", cfg.Logging.Level)})
	}
	switch cfg.Logging.Format {
	case "json", "text", "console":
	default:
		errs = append(errs, FieldError{"logging.format", fmt.Sprintf("unknown format %q", cfg.Logging.Format)})
	}

	if t := cfg.Compliance.MinConfidenceThreshold; t < 0 || t > 1 {
		errs = append(errs, FieldError{"compliance.min_confidence_threshold", fmt.Sprintf("must be in [0, 1], got %g", t)})
	}

	if cfg.Review.MaxConcurrentReviews < 1 {
		errs = append(errs, FieldError{"review.max_concurrent_reviews", "must be at least 1"})
	}
	if s := cfg.Review.DefaultTimeoutSeconds; s < 1 || s > 3600 {
		errs = append(errs, FieldError{"review.default_timeout_seconds", fmt.Sprintf("must be in [1, 3600], got %d", s)})
	}
	if cfg.Review.PollInterval <= 0 {
		errs = append(errs, FieldError{"review.poll_interval", "must be positive"})
	}
	if cfg.Review.HistoryRetentionHours < 1 {
		errs = append(errs, FieldError{"review.history_retention_hours", "must be at least 1"})
	}
	if cfg.Review.MaxHistoryEntries < 1 {
		errs = append(errs, FieldError{"review.max_history_entries", "must be at least 1"})
	}
	switch cfg.Review.Archive {
	case "none", "memory", "sqlite":
	default:
		errs = append(errs, FieldError{"review.archive", fmt.Sprintf("must be none, memory, or sqlite, got %q", cfg.Review.Archive)})
	}
	if cfg.Review.Archive == "sqlite" && cfg.Review.ArchivePath == "" {
		errs = append(errs, FieldError{"review.archive_path", "required when archive is sqlite"})
	}

	if cfg.Metrics.Enabled && cfg.Metrics.ListenAddress == "" {
		errs = append(errs, FieldError{"metrics.listen_address", "required when metrics are enabled"})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}
