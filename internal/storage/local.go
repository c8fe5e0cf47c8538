package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"reelforge/internal/services"
)

const lockRetryDelay = 50 * time.Millisecond

// Local stores objects as files under a root directory.
type Local struct {
	root    string
	baseURL  string
	lockPath string
}

// NewLocal creates the root directory if needed. An empty baseURL yields
// file:// URLs.
func NewLocal(root, baseURL string) (*Local, error) {
	if root == "" {
		return nil, services.Wrap(services.ErrConfiguration, "storage", "open local", "root directory is empty", nil)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "storage", "open local", "", err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "storage", "open local", "", err)
	}
	if baseURL == "" {
		baseURL = (&url.URL{Scheme: "file", Path: abs}).String()
	}
	return &Local{
		root:     abs,
		baseURL:  baseURL,
		lockPath: filepath.Join(abs, ".reelforge-storage.lock"),
	}, nil
}

func (l *Local) path(key string) (string, string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", "", err
	}
	return cleaned, filepath.Join(l.root, filepath.FromSlash(cleaned)), nil
}

// Download reads the object stored under key.
func (l *Local) Download(_ context.Context, key string) ([]byte, error) {
	cleaned, full, err := l.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound("download", cleaned)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrResource, "storage", "download", cleaned, err)
	}
	return data, nil
}

// Upload writes data atomically. Without overwrite an existing object is an
// ErrExists error.
func (l *Local) Upload(ctx context.Context, data []byte, key string, overwrite bool) (string, error) {
	cleaned, full, err := l.path(key)
	if err != nil {
		return "", err
	}
	if err := l.withLock(ctx, func() error {
		if !overwrite {
			if _, err := os.Stat(full); err == nil {
				return exists(cleaned)
			}
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return err
		}
		tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
		if err != nil {
			return err
		}
		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return err
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmp.Name())
			return err
		}
		if err := os.Rename(tmp.Name(), full); err != nil {
			os.Remove(tmp.Name())
			return err
		}
		return nil
	}); err != nil {
		if errors.Is(err, ErrExists) {
			return "", err
		}
		return "", services.Wrap(services.ErrResource, "storage", "upload", cleaned, err)
	}
	return joinURL(l.baseURL, cleaned), nil
}

// Delete removes the object stored under key.
func (l *Local) Delete(ctx context.Context, key string) error {
	cleaned, full, err := l.path(key)
	if err != nil {
		return err
	}
	return l.withLock(ctx, func() error {
		err := os.Remove(full)
		if errors.Is(err, fs.ErrNotExist) {
			return notFound("delete", cleaned)
		}
		if err != nil {
			return services.Wrap(services.ErrResource, "storage", "delete", cleaned, err)
		}
		return nil
	})
}

// Close releases nothing; Local holds no open handles between calls.
func (l *Local) Close() error {
	return nil
}

// withLock takes the storage lock through a fresh descriptor on every call, so
// goroutines of one process exclude each other as well as other processes.
func (l *Local) withLock(ctx context.Context, fn func() error) error {
	lock := flock.New(l.lockPath)
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire storage lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquire storage lock: not acquired")
	}
	defer lock.Unlock()
	return fn()
}
