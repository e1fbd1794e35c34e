// Package migrations embeds the SQL schema migrations applied on open.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
