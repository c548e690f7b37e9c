// Package migrations embeds the goose SQL migrations for the PostgreSQL schema.
package migrations

import "embed"

// FS embeds all .sql migration files in this directory.
//
//go:embed *.sql
var FS embed.FS
