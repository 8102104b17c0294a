package storage

import (
	"context"
	"fmt"

	"github.com/bankpulse/dashboard-api/internal/config"
)

// Open returns the backend selected by STORAGE_BACKEND and a matching close func
func Open(ctx context.Context, cfg *config.Config) (StorageInterface, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StorageBackend {
	case "sqlite":
		s, err := NewSQLiteStorage(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "azure":
		s, err := NewAzureStorage(ctx, cfg.StorageAccount, cfg.StorageContainer)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	case "file", "":
		s, err := NewFileStorage(cfg.StorageDir)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
