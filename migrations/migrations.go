// Package migrations embeds the SQL schema of the prediction history store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
