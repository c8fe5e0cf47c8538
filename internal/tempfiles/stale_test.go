package tempfiles_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"reelforge/internal/logging"
	"reelforge/internal/tempfiles"
)

func age(t *testing.T, path string, by time.Duration) {
	t.Helper()
	when := time.Now().Add(-by)
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func TestCleanStaleMissingDirectory(t *testing.T) {
	for _, dir := range []string{"", "   ", filepath.Join(t.TempDir(), "absent")} {
		result := tempfiles.CleanStale(context.Background(), dir, time.Hour, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Fatalf("expected empty result for %q, got %+v", dir, result)
		}
	}
}

func TestCleanStaleRemovesOldEntriesOnly(t *testing.T) {
	dir := t.TempDir()

	oldScratch := filepath.Join(dir, "reel-abc-123")
	if err := os.Mkdir(oldScratch, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(oldScratch, "output.mp4"), []byte("partial"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	age(t, oldScratch, 3*time.Hour)

	oldFile := filepath.Join(dir, "render-movie-1.mp4")
	if err := os.WriteFile(oldFile, []byte("movie"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	age(t, oldFile, 2*time.Hour)

	recent := filepath.Join(dir, "render-music-2.mp3")
	if err := os.WriteFile(recent, []byte("music"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	result := tempfiles.CleanStale(context.Background(), dir, time.Hour, nil)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", result.Errors)
	}
	if len(result.Removed) != 2 {
		t.Fatalf("expected 2 removed entries, got %v", result.Removed)
	}
	for _, path := range []string{oldScratch, oldFile} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected %s removed, stat err=%v", path, err)
		}
	}
	if _, err := os.Stat(recent); err != nil {
		t.Fatalf("recent file should remain: %v", err)
	}
}

func TestListReportsDirectorySizes(t *testing.T) {
	dir := t.TempDir()
	scratch := filepath.Join(dir, "transcribe-out-1")
	if err := os.Mkdir(scratch, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(scratch, "audio.json"), make([]byte, 10), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "duration-media.mp4"), make([]byte, 4), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, err := tempfiles.List(dir)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", entries)
	}
	sizes := map[string]int64{}
	for _, entry := range entries {
		sizes[entry.Name] = entry.Size
	}
	if sizes["transcribe-out-1"] != 10 || sizes["duration-media.mp4"] != 4 {
		t.Fatalf("unexpected sizes: %v", sizes)
	}
}
