// Command migrate applies the database schema. Useful in production, where
// the server does not auto-migrate on startup.
package main

import (
	"log/slog"
	"os"

	"chronicle/internal/config"
	"chronicle/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("schema migrated")
}
