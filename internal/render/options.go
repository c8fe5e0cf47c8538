package render

import (
	"reelforge/internal/config"
)

// DefaultMusicVolume is applied when a request carries music without a volume.
const DefaultMusicVolume = 0.2

// Options holds deployment-tunable encoder settings.
type Options struct {
	Width      int
	Height     int
	FPS        int
	VideoCodec string
	AudioCodec string
	// Threads of zero lets ffmpeg decide.
	Threads       int
	FFmpegBinary  string
	FFprobeBinary string
	// WorkDir receives temp inputs and the rendered output. Empty means the
	// system temp dir.
	WorkDir string
	// CaptionHold is added after the last caption cue.
	CaptionHold float64
	// MusicVolume is the default for requests that leave it unset.
	MusicVolume float64
}

// DefaultOptions returns portrait 1080x1920 at 24 fps encoded with libx264.
func DefaultOptions() Options {
	return Options{
		Width:         1080,
		Height:        1920,
		FPS:           24,
		VideoCodec:    "libx264",
		AudioCodec:    "aac",
		FFmpegBinary:  "ffmpeg",
		FFprobeBinary: "ffprobe",
		CaptionHold:   1.0,
		MusicVolume:   DefaultMusicVolume,
	}
}

// OptionsFromConfig maps the [render], [paths] and [music] sections.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}
	opts.Width = cfg.Render.Width
	opts.Height = cfg.Render.Height
	opts.FPS = cfg.Render.FPS
	opts.VideoCodec = cfg.Render.VideoCodec
	opts.AudioCodec = cfg.Render.AudioCodec
	opts.Threads = cfg.Render.Threads
	opts.FFmpegBinary = cfg.FFmpegBinary()
	opts.FFprobeBinary = cfg.FFprobeBinary()
	opts.WorkDir = cfg.Paths.WorkDir
	opts.CaptionHold = cfg.Render.CaptionHoldSeconds
	opts.MusicVolume = cfg.Music.DefaultVolume
	return opts
}
