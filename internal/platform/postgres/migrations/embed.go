// Package migrations embeds the PostgreSQL schema for the result store.
package migrations

import "embed"

// FS contains the goose migrations for the PostgreSQL result store.
//
//go:embed *.sql
var FS embed.FS
