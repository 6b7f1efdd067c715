package library

import (
	"fmt"
	"os"
	"path/filepath"

	"opalite-go/internal/config"
)

// FileName is the database file created inside the configured data_dir.
const FileName = "library.db"

// NewLibraryFromConfig creates a library based on the library config type.
func NewLibraryFromConfig(cfg config.LibraryConfig) (*SQLiteLibrary, error) {
	switch cfg.Type {
	case "sqlite", "":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite library")
		}
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("creating library directory: %w", err)
		}
		return NewSQLiteLibrary(filepath.Join(cfg.DataDir, FileName))
	case "memory":
		return NewSQLiteLibrary(":memory:")
	default:
		return nil, fmt.Errorf("unknown library type: %s", cfg.Type)
	}
}
