package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Retrieve when no value is stored under the key
var ErrNotFound = errors.New("storage: key not found")

// StorageInterface defines the contract for storage operations.
// Values are opaque bytes; writes replace the previous value atomically.
type StorageInterface interface {
	Store(ctx context.Context, key string, data []byte) error
	Retrieve(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
