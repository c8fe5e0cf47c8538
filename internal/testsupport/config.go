package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"reelforge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.FontsDir = filepath.Join(base, "fonts")
	cfgVal.Paths.DatabasePath = filepath.Join(base, "db", "reelforge.db")
	cfgVal.Storage.Backend = config.StorageBackendLocal
	cfgVal.Storage.LocalDir = filepath.Join(base, "storage")
	cfgVal.Storage.PublicBaseURL = "https://media.test/reels"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithRenderWorkers overrides the render pool size.
func WithRenderWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Workflow.RenderWorkers = n
	}
}

// WithFont writes a placeholder font file and points the caption config at
// it. Tests using it must inject a measurer into the overlay builder.
func WithFont(name string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.cfg.Paths.FontsDir, name)
		WritePlaceholderFont(b.t, path, 64)
		b.cfg.Captions.Font = name
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg, ffprobe and uvx are
// stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe", "uvx"}
		}
		binDir := WriteStubBinaries(b.t, filepath.Join(b.baseDir, "bin"), names...)

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}
