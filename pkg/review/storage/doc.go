// Package storage provides archive backends for terminal review
// results: an in-memory store for tests and single-process setups, and
// a SQLite store for durability across restarts.
package storage
