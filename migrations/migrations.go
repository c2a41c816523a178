// Package migrations embeds the goose migration set so it ships inside
// the worker binary instead of needing a separate file mount.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
