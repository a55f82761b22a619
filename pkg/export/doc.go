// Package export serializes review results for callers and operators:
// a complete JSON dump for machine consumption and a fixed-layout text
// report for humans.
package export
