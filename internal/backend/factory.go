package backend

import (
	"context"
	"fmt"

	"finovo/internal/log"
	"finovo/internal/storage"
	"finovo/internal/storage/memory"
)

type factory struct {
	logger *log.Logger
}

// NewFactory accepts a nil logger.
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &factory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend opens and migrates the repository for config.Type.
func (f *factory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.OpenSQLite(ctx, config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite repository: %w", err)
		}
		f.logger.InfoContext(ctx, "Opened SQLite backend", "db_path", config.SQLiteDBPath)
		return &BackendResult{Repository: repo, Cleanup: repo.Close}, nil

	case PostgresBackend:
		repo, err := storage.OpenPostgres(ctx, config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres repository: %w", err)
		}
		f.logger.InfoContext(ctx, "Opened Postgres backend")
		return &BackendResult{Repository: repo, Cleanup: repo.Close}, nil

	default:
		store := memory.New()
		f.logger.WarnContext(ctx, "Using the in-memory backend; data is lost on restart")
		return &BackendResult{Repository: store, Cleanup: store.Close}, nil
	}
}
