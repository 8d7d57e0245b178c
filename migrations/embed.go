// Package migrations embeds the SQL schema applied by "prn-server migrate".
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
