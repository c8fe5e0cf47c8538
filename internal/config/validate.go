package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateCaptions(); err != nil {
		return err
	}
	if err := c.validateMusic(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return errors.New("render.width and render.height must be positive")
	}
	if c.Render.Width%2 != 0 || c.Render.Height%2 != 0 {
		return fmt.Errorf("render dimensions must be even, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.FPS <= 0 {
		return errors.New("render.fps must be positive")
	}
	if c.Render.Threads < 0 {
		return errors.New("render.threads must be zero or positive")
	}
	if c.Render.CaptionHoldSeconds < 0 {
		return errors.New("render.caption_hold_seconds must be zero or positive")
	}
	return nil
}

func (c *Config) validateCaptions() error {
	if c.Captions.FontSize <= 0 {
		return errors.New("captions.font_size must be positive")
	}
	if c.Captions.StrokeWidth < 0 {
		return errors.New("captions.stroke_width must be zero or positive")
	}
	if c.Captions.Margin < 0 {
		return errors.New("captions.margin must be zero or positive")
	}
	switch c.Captions.TextAlign {
	case "left", "center", "right":
	default:
		return fmt.Errorf("captions.text_align must be left, center, or right (got %q)", c.Captions.TextAlign)
	}
	switch c.Captions.HorizontalAlign {
	case "left", "center", "right":
	default:
		return fmt.Errorf("captions.horizontal_align must be left, center, or right (got %q)", c.Captions.HorizontalAlign)
	}
	switch c.Captions.VerticalAlign {
	case "top", "center", "bottom":
	default:
		return fmt.Errorf("captions.vertical_align must be top, center, or bottom (got %q)", c.Captions.VerticalAlign)
	}
	return nil
}

func (c *Config) validateMusic() error {
	if c.Music.DefaultVolume < 0 || c.Music.DefaultVolume > 1 {
		return errors.New("music.default_volume must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case StorageBackendLocal:
		if c.Storage.LocalDir == "" {
			return errors.New("storage.local_dir must be set when storage.backend is local")
		}
	case StorageBackendGCS:
		if c.Storage.Bucket == "" {
			return errors.New("storage.bucket must be set when storage.backend is gcs (or set GCS_BUCKET)")
		}
	default:
		return fmt.Errorf("storage.backend must be local or gcs (got %q)", c.Storage.Backend)
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.RenderWorkers < 1 {
		return errors.New("workflow.render_workers must be at least 1")
	}
	if c.Workflow.RenderTimeoutSeconds < 0 {
		return errors.New("workflow.render_timeout_seconds must be zero or positive")
	}
	return nil
}
