// Package logging sets up the structured logger shared by all
// components. It wraps log/slog with level and format parsing so the
// CLI and configuration layer can construct loggers from plain strings.
package logging
