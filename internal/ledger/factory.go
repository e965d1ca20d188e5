package ledger

import (
	"fmt"
	"log/slog"

	"spendcast/internal/ledger/memory"
	"spendcast/internal/ledger/sqlite"
)

// BackendType selects the ledger implementation.
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
)

// IsValid returns true if the backend type is known.
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources; may be nil.
type CleanupFunc func() error

// Config holds what the factory needs to build a backend.
type Config struct {
	Type BackendType

	// Memory backend: CSV seed file path.
	CSVPath string

	// SQLite backend: database file path.
	SQLiteDBPath string
}

// New builds the configured ledger backend and an optional cleanup
// function to call on shutdown.
func New(cfg Config, logger *slog.Logger) (Reader, CleanupFunc, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Type.IsValid() {
		return nil, nil, fmt.Errorf("invalid ledger backend: %s", cfg.Type)
	}

	switch cfg.Type {
	case SQLiteBackend:
		repo, err := sqlite.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite ledger: %w", err)
		}
		logger.Info("Initialized SQLite ledger", "db_path", cfg.SQLiteDBPath)
		return repo, repo.Close, nil
	default:
		store := memory.NewFromFile(cfg.CSVPath)
		logger.Info("Initialized memory ledger", "csv_path", cfg.CSVPath)
		return store, nil, nil
	}
}
