package config

import (
	stderrors "errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/docsplit/internal/logfields"
)

// envFiles are loaded in order; variables already set are never overwritten.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads every present env file. Missing files are skipped and
// unreadable ones are logged.
func loadEnvFiles() {
	for _, name := range envFiles {
		err := godotenv.Load(name)
		switch {
		case err == nil:
			slog.Debug("Loaded environment file", logfields.Path(name))
		case stderrors.Is(err, fs.ErrNotExist):
		default:
			slog.Warn("Failed to load environment file", logfields.Path(name), logfields.Error(err))
		}
	}
}
