// Package config defines the typed configuration for the veritas
// review service: YAML file loading, VERITAS_* environment variable
// overrides, defaults, and validation. Loading always follows the same
// sequence: parse, apply defaults, apply overrides, validate.
package config
