package tempfiles

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reelforge/internal/logging"
)

// CleanResult reports what a stale sweep removed and what it could not.
type CleanResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a scratch path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// Entry describes one leftover file or directory in the work dir.
type Entry struct {
	Name    string
	Path    string
	ModTime time.Time
	Size    int64
	Dir     bool
}

// CleanStale removes work dir entries last modified before maxAge ago.
// Renders that crash between Materialize and Close leave these behind.
func CleanStale(ctx context.Context, workDir string, maxAge time.Duration, logger *slog.Logger) CleanResult {
	result := CleanResult{}
	if logger == nil {
		logger = logging.NewNop()
	}

	entries, err := List(workDir)
	if err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: workDir, Error: err})
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, CleanupError{Path: workDir, Error: ctx.Err()})
			return result
		}
		if !entry.ModTime.Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(entry.Path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: entry.Path, Error: err})
			logging.WarnWithContext(logger, "failed to remove stale scratch entry", "scratch_cleanup_failed",
				logging.String("path", entry.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check work_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		result.Removed = append(result.Removed, entry.Path)
		logger.Info("removed stale scratch entry",
			logging.String("path", entry.Path),
			logging.Duration("age", time.Since(entry.ModTime)),
			logging.String(logging.FieldEventType, "scratch_cleanup"),
		)
	}
	return result
}

// List returns the entries in workDir. A missing directory yields no entries.
func List(workDir string) ([]Entry, error) {
	workDir = strings.TrimSpace(workDir)
	if workDir == "" {
		return nil, nil
	}
	dirEntries, err := os.ReadDir(workDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	for _, dirEntry := range dirEntries {
		info, err := dirEntry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(workDir, dirEntry.Name())
		size := info.Size()
		if dirEntry.IsDir() {
			size = dirSize(path)
		}
		entries = append(entries, Entry{
			Name:    dirEntry.Name(),
			Path:    path,
			ModTime: info.ModTime(),
			Size:    size,
			Dir:     dirEntry.IsDir(),
		})
	}
	return entries, nil
}

func dirSize(path string) int64 {
	var size int64
	_ = filepath.WalkDir(path, func(_ string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, infoErr := d.Info(); infoErr == nil {
			size += info.Size()
		}
		return nil
	})
	return size
}
