// Package helper provides test doubles and fixtures for the dbconnect packages.
//
// It contains spies for every observability hook of the provider (slog handler,
// contextual logger, metrics and tracing collectors), a helper that yields a local
// address nobody listens on, and testcontainers-backed MySQL and PostgreSQL servers
// for integration tests.
package helper
