// Package migrations embeds the numbered schema migration files so both
// binaries apply the same schema without needing a source checkout next
// to the executable.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
