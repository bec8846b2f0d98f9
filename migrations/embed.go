// Package migrations embeds the goose schema migrations so the binary can
// bring the database up to date at startup without shipping extra files.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
