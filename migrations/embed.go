// Package migrations embeds the SQL schema for every supported store.
package migrations

import "embed"

// Postgres holds golang-migrate versioned files under postgres/.
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite is applied idempotently when the SQLite store is opened.
//
//go:embed sqlite/schema.sql
var SQLite string
