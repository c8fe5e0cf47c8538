package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// stubScript exits successfully so dependency checks find a runnable binary.
const stubScript = "#!/bin/sh\nexit 0\n"

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WritePlaceholderFont writes size bytes that are not a parseable font. It is
// enough for existence checks; overlay builders need an injected measurer.
func WritePlaceholderFont(t testing.TB, path string, size int) {
	t.Helper()
	if size <= 0 {
		size = 1
	}
	WriteFile(t, path, make([]byte, size))
}

// WriteStubBinaries writes an executable stub for each name into dir and
// returns dir.
func WriteStubBinaries(t testing.TB, dir string, names ...string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(stubScript), 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}
	return dir
}
