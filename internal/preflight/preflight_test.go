package preflight_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelforge/internal/preflight"
	"reelforge/internal/services"
	"reelforge/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := preflight.CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := preflight.CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed || result.Detail == "" {
		t.Fatalf("expected failure with detail, got %#v", result)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := preflight.CheckDirectoryAccess("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFont(t *testing.T) {
	dir := t.TempDir()
	font := filepath.Join(dir, "Lato-Regular.ttf")
	testsupport.WritePlaceholderFont(t, font, 16)

	if result := preflight.CheckFont(font); !result.Passed {
		t.Fatalf("expected font check to pass: %s", result.Detail)
	}
	if result := preflight.CheckFont(filepath.Join(dir, "missing.ttf")); result.Passed {
		t.Fatal("expected missing font to fail")
	}
	if result := preflight.CheckFont(dir); result.Passed {
		t.Fatal("expected directory to fail")
	}
	if result := preflight.CheckFont(""); result.Passed {
		t.Fatal("expected empty path to fail")
	}
}

func TestRequire(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("ffmpeg", "ffprobe"), testsupport.WithFont("Lato-Regular.ttf"))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if err := preflight.Require(context.Background(), cfg, preflight.Needs{Captions: true}); err != nil {
		t.Fatalf("expected ready environment, got %v", err)
	}

	cfg.Render.FFprobeBinary = "definitely-missing-ffprobe"
	err := preflight.Require(context.Background(), cfg, preflight.Needs{Captions: true})
	if !errors.Is(err, services.ErrConfiguration) || !strings.Contains(err.Error(), "FFprobe") {
		t.Fatalf("expected configuration error naming FFprobe, got %v", err)
	}
}

func TestRunAllSkipsStorageDirForGCS(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Storage.Backend = "gcs"
	for _, result := range preflight.RunAll(context.Background(), cfg) {
		if result.Name == "Storage directory" {
			t.Fatal("storage directory should not be checked for gcs")
		}
	}
}

func TestRequireTranscriptionNeedsUVX(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("ffmpeg", "ffprobe"), testsupport.WithFont("Lato-Regular.ttf"))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	t.Setenv("PATH", filepath.Join(testsupport.BaseDir(cfg), "bin"))
	err := preflight.Require(context.Background(), cfg, preflight.Needs{Transcription: true})
	if err == nil || !strings.Contains(err.Error(), "uvx") {
		t.Fatalf("expected uvx to be required, got %v", err)
	}
}

func TestRequireIgnoresFontWithoutCaptions(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("ffmpeg", "ffprobe"))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if err := preflight.Require(context.Background(), cfg, preflight.Needs{}); err != nil {
		t.Fatalf("font should not matter without captions: %v", err)
	}
	err := preflight.Require(context.Background(), cfg, preflight.Needs{Captions: true})
	if err == nil || !strings.Contains(err.Error(), "Caption font") {
		t.Fatalf("expected font failure, got %v", err)
	}
}
