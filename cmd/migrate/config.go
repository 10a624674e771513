package main

import (
	"os"
)

// migrationsDir is where "create" writes new files. Applying migrations
// always uses the set embedded in the binary.
func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return "db/migrations"
}
