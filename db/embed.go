// Package db provides embedded database schema files.
package db

import _ "embed"

// PostgresSchema contains the DDL for the PostgreSQL backend.
//
//go:embed migrations/postgres/001_schema.sql
var PostgresSchema string

// SQLiteSchema contains the DDL for the SQLite backend.
//
//go:embed migrations/sqlite/001_schema.sql
var SQLiteSchema string
