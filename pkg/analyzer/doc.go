// Package analyzer extracts text and structural signals from documents
// ahead of compliance validation.
//
// The package defines the Analyzer boundary consumed by the review
// engine and ships a plain-text implementation. Analysis failures are
// carried inside the result so callers can surface extraction errors
// alongside partial content; hard errors are reserved for cancelled
// contexts and unreadable inputs.
package analyzer
