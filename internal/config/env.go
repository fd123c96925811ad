package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/blogsmith/internal/logfields"
)

// envFiles are loaded in order; existing process variables are never overwritten.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env files next to the configuration file so that
// ${VAR} references in the YAML can be expanded.
func loadEnvFiles(dir string) {
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load environment file", logfields.Path(path), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment variables", logfields.Path(path))
	}
}
