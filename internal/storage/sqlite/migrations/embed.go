package migrations

import "embed"

// FS contains embedded SQLite migrations for the obstacle library.
//
//go:embed *.sql
var FS embed.FS
