package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"reelforge/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("FFMPEG_CODEC", "")
	t.Setenv("FFMPEG_THREADS", "")
	t.Setenv("GCS_BUCKET", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWork := filepath.Join(tempHome, ".local", "share", "reelforge", "work")
	if cfg.Paths.WorkDir != wantWork {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, wantWork)
	}
	if cfg.Render.Width != 1080 || cfg.Render.Height != 1920 || cfg.Render.FPS != 24 {
		t.Fatalf("unexpected render defaults: %+v", cfg.Render)
	}
	if cfg.Render.VideoCodec != "libx264" {
		t.Fatalf("expected libx264 default, got %q", cfg.Render.VideoCodec)
	}
	if cfg.Captions.FontSize != 100 || cfg.Captions.Margin != 400 {
		t.Fatalf("unexpected caption defaults: %+v", cfg.Captions)
	}
	if cfg.Music.DefaultVolume != 0.2 {
		t.Fatalf("expected default music volume 0.2, got %v", cfg.Music.DefaultVolume)
	}
	if cfg.Storage.Backend != config.StorageBackendLocal {
		t.Fatalf("expected local storage by default, got %q", cfg.Storage.Backend)
	}
	wantFont := filepath.Join(tempHome, ".local", "share", "reelforge", "fonts", "Lato-Regular.ttf")
	if cfg.FontPath() != wantFont {
		t.Fatalf("unexpected font path: got %q want %q", cfg.FontPath(), wantFont)
	}
	if cfg.FFmpegBinary() != "ffmpeg" || cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected binaries: %q %q", cfg.FFmpegBinary(), cfg.FFprobeBinary())
	}
}

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FFMPEG_CODEC", "h264_nvenc")
	t.Setenv("FFMPEG_THREADS", "6")
	t.Setenv("GCS_BUCKET", "reels-bucket")
	t.Setenv("HF_TOKEN", "hf-secret")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[storage]\nbackend = \"gcs\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Render.VideoCodec != "h264_nvenc" {
		t.Fatalf("expected codec from env, got %q", cfg.Render.VideoCodec)
	}
	if cfg.Render.Threads != 6 {
		t.Fatalf("expected threads from env, got %d", cfg.Render.Threads)
	}
	if cfg.Storage.Bucket != "reels-bucket" {
		t.Fatalf("expected bucket from env, got %q", cfg.Storage.Bucket)
	}
	if cfg.Storage.PublicBaseURL != "https://storage.googleapis.com/reels-bucket" {
		t.Fatalf("unexpected public base url: %q", cfg.Storage.PublicBaseURL)
	}
	if cfg.Transcription.HFToken != "hf-secret" {
		t.Fatalf("expected hf token from env, got %q", cfg.Transcription.HFToken)
	}
}

func TestLoadRejectsInvalidThreadsEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FFMPEG_THREADS", "many")

	path := filepath.Join(t.TempDir(), "config.toml")
	if _, _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "FFMPEG_THREADS") {
		t.Fatalf("expected FFMPEG_THREADS error, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"odd width", func(c *config.Config) { c.Render.Width = 1081 }, "even"},
		{"zero fps", func(c *config.Config) { c.Render.FPS = 0 }, "render.fps"},
		{"negative threads", func(c *config.Config) { c.Render.Threads = -1 }, "render.threads"},
		{"bad vertical align", func(c *config.Config) { c.Captions.VerticalAlign = "middle" }, "vertical_align"},
		{"bad horizontal align", func(c *config.Config) { c.Captions.HorizontalAlign = "justify" }, "horizontal_align"},
		{"music volume above one", func(c *config.Config) { c.Music.DefaultVolume = 1.5 }, "music.default_volume"},
		{"gcs without bucket", func(c *config.Config) { c.Storage.Backend = config.StorageBackendGCS }, "storage.bucket"},
		{"unknown backend", func(c *config.Config) { c.Storage.Backend = "s3" }, "storage.backend"},
		{"no workers", func(c *config.Config) { c.Workflow.RenderWorkers = 0 }, "render_workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FFMPEG_CODEC", "")
	t.Setenv("FFMPEG_THREADS", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded map[string]any
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	for _, section := range []string{"paths", "render", "captions", "music", "transcription", "storage", "workflow", "logging"} {
		if _, ok := decoded[section]; !ok {
			t.Fatalf("sample missing [%s] section", section)
		}
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Render.CaptionHoldSeconds != 1.0 {
		t.Fatalf("unexpected caption hold: %v", cfg.Render.CaptionHoldSeconds)
	}
}

func TestEnsureDirectoriesCreatesWorkAndStorage(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.DatabasePath = filepath.Join(base, "db", "reelforge.db")
	cfg.Storage.LocalDir = filepath.Join(base, "storage")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.WorkDir, cfg.Paths.LogDir, filepath.Dir(cfg.Paths.DatabasePath), cfg.Storage.LocalDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
	}
}
