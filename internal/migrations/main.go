// Package migrations registers the schema migrations applied by the
// relayapi db subcommands.
package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the registry consumed by migrate.NewMigrator.
var Migrations = migrate.NewMigrations()
