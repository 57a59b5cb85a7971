package migrations

import "embed"

// FS holds the SQL schema files, applied in filename order.
//
//go:embed *.sql
var FS embed.FS
