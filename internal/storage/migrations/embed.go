package migrations

import "embed"

// PostgresFS embeds the basket line and finding export schema.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS embeds the pair count export schema.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
