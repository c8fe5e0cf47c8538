package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeRender(); err != nil {
		return err
	}
	c.normalizeCaptions()
	c.normalizeTranscription()
	if err := c.normalizeStorage(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.FontsDir) == "" {
		c.Paths.FontsDir = defaultFontsDir
	}
	if c.Paths.FontsDir, err = expandPath(c.Paths.FontsDir); err != nil {
		return fmt.Errorf("paths.fonts_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DatabasePath) == "" {
		c.Paths.DatabasePath = defaultDatabasePath
	}
	if c.Paths.DatabasePath, err = expandPath(c.Paths.DatabasePath); err != nil {
		return fmt.Errorf("paths.database_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeRender() error {
	if value, ok := os.LookupEnv("FFMPEG_CODEC"); ok && strings.TrimSpace(value) != "" {
		c.Render.VideoCodec = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("FFMPEG_THREADS"); ok && strings.TrimSpace(value) != "" {
		threads, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("FFMPEG_THREADS: %w", err)
		}
		c.Render.Threads = threads
	}
	c.Render.VideoCodec = strings.TrimSpace(c.Render.VideoCodec)
	if c.Render.VideoCodec == "" {
		c.Render.VideoCodec = defaultVideoCodec
	}
	c.Render.AudioCodec = strings.TrimSpace(c.Render.AudioCodec)
	if c.Render.AudioCodec == "" {
		c.Render.AudioCodec = defaultAudioCodec
	}
	c.Render.FFmpegBinary = strings.TrimSpace(c.Render.FFmpegBinary)
	c.Render.FFprobeBinary = strings.TrimSpace(c.Render.FFprobeBinary)
	return nil
}

func (c *Config) normalizeCaptions() {
	c.Captions.Font = strings.TrimSpace(c.Captions.Font)
	if c.Captions.Font == "" {
		c.Captions.Font = defaultFont
	}
	c.Captions.TextAlign = strings.ToLower(strings.TrimSpace(c.Captions.TextAlign))
	if c.Captions.TextAlign == "" {
		c.Captions.TextAlign = defaultAlign
	}
	c.Captions.HorizontalAlign = strings.ToLower(strings.TrimSpace(c.Captions.HorizontalAlign))
	if c.Captions.HorizontalAlign == "" {
		c.Captions.HorizontalAlign = defaultAlign
	}
	c.Captions.VerticalAlign = strings.ToLower(strings.TrimSpace(c.Captions.VerticalAlign))
	if c.Captions.VerticalAlign == "" {
		c.Captions.VerticalAlign = defaultVerticalAlign
	}
	c.Captions.FontColor = strings.TrimSpace(c.Captions.FontColor)
	if c.Captions.FontColor == "" {
		c.Captions.FontColor = defaultFontColor
	}
	c.Captions.StrokeColor = strings.TrimSpace(c.Captions.StrokeColor)
	if c.Captions.StrokeColor == "" {
		c.Captions.StrokeColor = defaultStrokeColor
	}
}

func (c *Config) normalizeTranscription() {
	if c.Transcription.HFToken == "" {
		if value, ok := os.LookupEnv("HF_TOKEN"); ok {
			c.Transcription.HFToken = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("HUGGING_FACE_HUB_TOKEN"); ok {
			c.Transcription.HFToken = strings.TrimSpace(value)
		}
	}
	c.Transcription.Model = strings.ToLower(strings.TrimSpace(c.Transcription.Model))
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultTranscriptionModel
	}
	c.Transcription.Language = strings.ToLower(strings.TrimSpace(c.Transcription.Language))
	if c.Transcription.Language == "" {
		c.Transcription.Language = defaultTranscriptionLang
	}
	c.Transcription.VADMethod = strings.ToLower(strings.TrimSpace(c.Transcription.VADMethod))
	if c.Transcription.VADMethod == "" {
		c.Transcription.VADMethod = defaultVADMethod
	}
}

func (c *Config) normalizeStorage() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaultStorageBackend
	}
	if c.Storage.Bucket == "" {
		if value, ok := os.LookupEnv("GCS_BUCKET"); ok {
			c.Storage.Bucket = strings.TrimSpace(value)
		}
	}
	c.Storage.Bucket = strings.TrimSpace(c.Storage.Bucket)
	c.Storage.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.Storage.PublicBaseURL), "/")
	if c.Storage.PublicBaseURL == "" && c.Storage.Bucket != "" && c.Storage.Backend == StorageBackendGCS {
		c.Storage.PublicBaseURL = fmt.Sprintf(defaultGCSPublicBaseURLFmt, c.Storage.Bucket)
	}
	if strings.TrimSpace(c.Storage.LocalDir) == "" {
		c.Storage.LocalDir = defaultStorageDir
	}
	var err error
	if c.Storage.LocalDir, err = expandPath(c.Storage.LocalDir); err != nil {
		return fmt.Errorf("storage.local_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
