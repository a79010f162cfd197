package storage

import (
	"context"
	"fmt"

	"github.com/forgeworks/vertivid/internal/config"
)

// Store is the durable byte-store finished videos are persisted to.
// Put returns a location handle the API can hand back to callers.
type Store interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
	Get(ctx context.Context, name string) ([]byte, error)
}

// New selects a provider from configuration: "local" (filesystem) or
// "object" (HTTP object store).
func New(cfg *config.Config) (Store, error) {
	switch cfg.StorageProvider {
	case "local":
		return NewLocalStore(cfg.StorageLocalRoot)
	case "object":
		return NewObjectStore(cfg.StorageURL, cfg.StorageServiceKey, cfg.StorageBucket), nil
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.StorageProvider)
	}
}
