package tempfiles_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"reelforge/internal/services"
	"reelforge/internal/tempfiles"
)

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestMaterializeKeysPresentInputsOnly(t *testing.T) {
	dir := t.TempDir()
	set, err := tempfiles.Materialize(dir, "render",
		tempfiles.Input{Key: "movie", Suffix: ".mp4", Data: []byte("movie-bytes")},
		tempfiles.Input{Key: "narration", Suffix: ".mp3"},
		tempfiles.Input{Key: "music", Suffix: "mp3", Data: []byte("music-bytes")},
	)
	if err != nil {
		t.Fatalf("Materialize returned error: %v", err)
	}
	defer set.Close()

	if _, ok := set.Path("narration"); ok {
		t.Fatal("expected absent narration to have no path")
	}
	moviePath, ok := set.Path("movie")
	if !ok {
		t.Fatal("expected movie path")
	}
	if filepath.Ext(moviePath) != ".mp4" {
		t.Fatalf("expected .mp4 suffix, got %q", moviePath)
	}
	musicPath, ok := set.Path("music")
	if !ok || !strings.HasSuffix(musicPath, ".mp3") {
		t.Fatalf("expected music path with .mp3 suffix, got %q", musicPath)
	}
	data, err := os.ReadFile(musicPath)
	if err != nil || string(data) != "music-bytes" {
		t.Fatalf("unexpected music content %q (err %v)", data, err)
	}
	if got := len(set.Paths()); got != 2 {
		t.Fatalf("expected 2 paths, got %d", got)
	}
}

func TestCloseRemovesFilesAndIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	set, err := tempfiles.Materialize(dir, "render",
		tempfiles.Input{Key: "movie", Suffix: ".mp4", Data: []byte("a")},
		tempfiles.Input{Key: "captions", Suffix: ".srt", Data: []byte{}},
	)
	if err != nil {
		t.Fatalf("Materialize returned error: %v", err)
	}
	if got := len(listDir(t, dir)); got != 2 {
		t.Fatalf("expected 2 files before close, got %d", got)
	}
	if err := set.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := set.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}
	if names := listDir(t, dir); len(names) != 0 {
		t.Fatalf("expected no files after close, got %v", names)
	}
}

func TestMaterializeCleansUpOnPartialFailure(t *testing.T) {
	dir := t.TempDir()
	_, err := tempfiles.Materialize(dir, "render",
		tempfiles.Input{Key: "movie", Suffix: ".mp4", Data: []byte("ok")},
		tempfiles.Input{Key: "bad/key", Suffix: ".mp3", Data: []byte("fails")},
	)
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}
	if !errors.Is(err, services.ErrResource) {
		t.Fatalf("expected resource error, got %v", err)
	}
	if names := listDir(t, dir); len(names) != 0 {
		t.Fatalf("expected earlier files removed, got %v", names)
	}
}

func TestMaterializeRejectsDuplicateKeys(t *testing.T) {
	_, err := tempfiles.Materialize(t.TempDir(), "",
		tempfiles.Input{Key: "movie", Data: []byte("a")},
		tempfiles.Input{Key: "movie", Data: []byte("b")},
	)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestConcurrentMaterializeUsesDistinctPaths(t *testing.T) {
	dir := t.TempDir()
	const calls = 16

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := map[string]struct{}{}
	sets := make([]*tempfiles.Set, 0, calls)
	errs := make(chan error, calls)

	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			set, err := tempfiles.Materialize(dir, "render", tempfiles.Input{Key: "movie", Suffix: ".mp4", Data: []byte("x")})
			if err != nil {
				errs <- err
				return
			}
			mu.Lock()
			defer mu.Unlock()
			sets = append(sets, set)
			for _, path := range set.Paths() {
				seen[path] = struct{}{}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Materialize returned error: %v", err)
	}
	if len(seen) != calls {
		t.Fatalf("expected %d distinct paths, got %d", calls, len(seen))
	}
	for _, set := range sets {
		if err := set.Close(); err != nil {
			t.Fatalf("Close returned error: %v", err)
		}
	}
	if names := listDir(t, dir); len(names) != 0 {
		t.Fatalf("expected all files removed, got %v", names)
	}
}
