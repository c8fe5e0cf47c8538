package transcription

import (
	"reelforge/internal/config"
)

// Config captures runtime settings for WhisperX runs.
type Config struct {
	CUDAEnabled bool
	// VADMethod selects voice activity detection ("silero" or "pyannote").
	VADMethod string
	// HFToken authenticates pyannote model downloads.
	HFToken      string
	FFmpegBinary string
	WorkDir      string
}

// ConfigFromConfig maps the [transcription] section.
func ConfigFromConfig(cfg *config.Config) Config {
	if cfg == nil {
		return Config{VADMethod: VADMethodSilero, FFmpegBinary: FFmpegCommand}
	}
	return Config{
		CUDAEnabled:  cfg.Transcription.CUDAEnabled,
		VADMethod:    cfg.Transcription.VADMethod,
		HFToken:      cfg.Transcription.HFToken,
		FFmpegBinary: cfg.FFmpegBinary(),
		WorkDir:      cfg.Paths.WorkDir,
	}
}

// WhisperX tuning for short narration clips.
const (
	CUDAIndexURL      = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL      = "https://pypi.org/simple"
	BatchSize         = "8"
	ChunkSize         = "15"
	BeamSize          = "5"
	Temperature       = "0.0"
	OutputFormat      = "json"
	CPUDevice         = "cpu"
	CUDADevice        = "cuda"
	CPUComputeType    = "float32"
	VADMethodPyannote = "pyannote"
	VADMethodSilero   = "silero"
)

// Command names for external tools.
const (
	UVXCommand    = "uvx"
	FFmpegCommand = "ffmpeg"
)
