// Package backend opens the repository selected by DATA_BACKEND.
package backend

import (
	"context"
	"errors"
	"fmt"

	"finovo/internal/config"
	"finovo/internal/storage"
)

type BackendType string

const (
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
	MemoryBackend   BackendType = "memory"
)

// Types lists the supported backends in preference order.
func Types() []BackendType {
	return []BackendType{SQLiteBackend, PostgresBackend, MemoryBackend}
}

func (bt BackendType) String() string { return string(bt) }

func (bt BackendType) IsValid() bool {
	for _, t := range Types() {
		if bt == t {
			return true
		}
	}
	return false
}

// Config is the subset of the application config a backend needs.
type Config struct {
	Type         BackendType
	SQLiteDBPath string
	PostgresDSN  string
}

// BackendResult is an open repository and the func that closes it.
type BackendResult struct {
	Repository storage.Repository
	Cleanup    func() error
}

// Factory opens repositories; tests swap it out.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}
	cfg := Config{
		Type:         BackendType(appConfig.DataBackend),
		SQLiteDBPath: appConfig.SQLiteDBPath,
		PostgresDSN:  appConfig.PostgresDSN,
	}
	if !cfg.Type.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return errors.New("sqlite backend needs SQLITE_DB_PATH")
		}
	case PostgresBackend:
		if c.PostgresDSN == "" {
			return errors.New("postgres backend needs POSTGRES_DSN")
		}
	case MemoryBackend:
	default:
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	return nil
}
