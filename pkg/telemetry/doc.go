// Package telemetry groups observability concerns for the veritas
// review service.
//
// # Components
//
//   - logging: Structured slog-based logging with configurable format
//
// Review metrics live next to the review engine in pkg/review, which
// owns the instrumented code paths.
package telemetry
