// Package migrations embeds the schema files so the binary can bootstrap
// its own database on first run.
package migrations

import _ "embed"

//go:embed sqlite/000001_initial_schema.up.sql
var sqliteSchema string

//go:embed postgres/000001_initial_schema.up.sql
var postgresSchema string

// SQLiteSchema returns the full SQLite schema.
func SQLiteSchema() string { return sqliteSchema }

// PostgresSchema returns the full PostgreSQL schema.
func PostgresSchema() string { return postgresSchema }
