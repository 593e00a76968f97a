package main

import (
	"io/fs"
	"os"

	"libraryapi/db"
	"libraryapi/internal/config"
)

func loadEnvFiles() {
	// Do not override environment provided by the runtime (e.g. Docker).
	config.LoadEnvFiles()
}

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return "db/migrations"
}

// migrationsFS prefers an explicit MIGRATIONS_DIR and otherwise uses the
// migrations compiled into the binary.
func migrationsFS() fs.FS {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return os.DirFS(v)
	}
	return db.Migrations()
}
