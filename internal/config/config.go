package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir      string `toml:"work_dir"`
	LogDir       string `toml:"log_dir"`
	FontsDir     string `toml:"fonts_dir"`
	DatabasePath string `toml:"database_path"`
}

// Render contains the encoder and output frame settings used by the composer.
type Render struct {
	Width              int     `toml:"width"`
	Height             int     `toml:"height"`
	FPS                int     `toml:"fps"`
	VideoCodec         string  `toml:"video_codec"`
	AudioCodec         string  `toml:"audio_codec"`
	Threads            int     `toml:"threads"`
	CaptionHoldSeconds float64 `toml:"caption_hold_seconds"`
	FFmpegBinary       string  `toml:"ffmpeg_binary"`
	FFprobeBinary      string  `toml:"ffprobe_binary"`
}

// Captions contains the styling applied to word-level caption overlays.
type Captions struct {
	Font            string `toml:"font"`
	FontSize        int    `toml:"font_size"`
	FontColor       string `toml:"font_color"`
	StrokeColor     string `toml:"stroke_color"`
	StrokeWidth     int    `toml:"stroke_width"`
	TextAlign       string `toml:"text_align"`
	HorizontalAlign string `toml:"horizontal_align"`
	VerticalAlign   string `toml:"vertical_align"`
	Margin          int    `toml:"margin"`
}

// Music contains background music defaults.
type Music struct {
	DefaultVolume float64 `toml:"default_volume"`
}

// Transcription contains configuration for speech recognition via WhisperX.
type Transcription struct {
	Model       string `toml:"model"`
	Language    string `toml:"language"`
	CUDAEnabled bool   `toml:"cuda_enabled"`
	VADMethod   string `toml:"vad_method"`
	HFToken     string `toml:"hf_token"`
}

// Storage selects and configures the object storage backend.
type Storage struct {
	Backend       string `toml:"backend"`
	LocalDir      string `toml:"local_dir"`
	Bucket        string `toml:"bucket"`
	PublicBaseURL string `toml:"public_base_url"`
}

// Workflow contains configuration for the background render workers.
type Workflow struct {
	RenderWorkers        int `toml:"render_workers"`
	RenderTimeoutSeconds int `toml:"render_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reelforge.
//
// Configuration sections by subsystem:
//   - Paths: work, log and font directories plus the database file
//   - Render: frame size, frame rate, codecs and encoder threads
//   - Captions: caption overlay styling
//   - Music: background music defaults
//   - Transcription: WhisperX model and language
//   - Storage: object storage backend
//   - Workflow: background render worker pool
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Render        Render        `toml:"render"`
	Captions      Captions      `toml:"captions"`
	Music         Music         `toml:"music"`
	Transcription Transcription `toml:"transcription"`
	Storage       Storage       `toml:"storage"`
	Workflow      Workflow      `toml:"workflow"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reelforge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the renderer and CLI write into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.WorkDir, c.Paths.LogDir, filepath.Dir(c.Paths.DatabasePath)}
	if c.Storage.Backend == StorageBackendLocal {
		dirs = append(dirs, c.Storage.LocalDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FontPath resolves the caption font against the fonts directory. Absolute
// font paths are returned unchanged.
func (c *Config) FontPath() string {
	font := strings.TrimSpace(c.Captions.Font)
	if font == "" || filepath.IsAbs(font) {
		return font
	}
	return filepath.Join(c.Paths.FontsDir, font)
}

// FFmpegBinary returns the ffmpeg executable used for rendering and audio extraction.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Render.FFmpegBinary); bin != "" {
		return bin
	}
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable used for media inspection.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.Render.FFprobeBinary); bin != "" {
		return bin
	}
	return "ffprobe"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
