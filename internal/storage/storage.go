package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"

	"reelforge/internal/config"
	"reelforge/internal/services"
)

var (
	// ErrNotFound reports a missing object.
	ErrNotFound = errors.New("object not found")
	// ErrExists reports a non-overwriting upload onto an existing object.
	ErrExists = errors.New("object already exists")
)

// Storage is the object store used for reel inputs and outputs.
type Storage interface {
	Download(ctx context.Context, key string) ([]byte, error)
	// Upload stores data under key and returns its public URL.
	Upload(ctx context.Context, data []byte, key string, overwrite bool) (string, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open constructs the backend selected by cfg.Storage.Backend.
func Open(ctx context.Context, cfg *config.Config) (Storage, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "storage", "open", "config is nil", nil)
	}
	switch cfg.Storage.Backend {
	case config.StorageBackendLocal:
		return NewLocal(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL)
	case config.StorageBackendGCS:
		client, err := gcs.NewClient(ctx)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "storage", "open gcs client", "", err)
		}
		return NewGCS(client, cfg.Storage.Bucket, cfg.Storage.PublicBaseURL), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "storage", "open", fmt.Sprintf("unknown backend %q", cfg.Storage.Backend), nil)
	}
}

// CleanKey normalizes an object key and rejects keys that escape the root.
func CleanKey(key string) (string, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	trimmed = strings.TrimLeft(trimmed, "/")
	if trimmed == "" {
		return "", services.Wrap(services.ErrValidation, "storage", "check key", "object key is empty", nil)
	}
	cleaned := path.Clean(trimmed)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", services.Wrap(services.ErrValidation, "storage", "check key", fmt.Sprintf("object key %q escapes the storage root", key), nil)
	}
	return cleaned, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}

func notFound(operation, key string) error {
	return services.Wrap(services.ErrNotFound, "storage", operation, key, ErrNotFound)
}

func exists(key string) error {
	return services.Wrap(services.ErrValidation, "storage", "upload", key, ErrExists)
}
