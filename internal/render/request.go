package render

import (
	"fmt"

	"github.com/h2non/filetype"

	"reelforge/internal/services"
)

// Request carries the inputs of one render. Nil byte slices mark absent
// optional inputs.
type Request struct {
	Movie     []byte
	Narration []byte
	Music     []byte
	// MusicVolume is relative to the active audio; nil selects the default.
	MusicVolume *float64
	Subtitles   []byte
	// IncludeCaptions overlays Subtitles. Subtitles are ignored when false.
	IncludeCaptions bool
}

// Volume returns a pointer for Request.MusicVolume.
func Volume(v float64) *float64 {
	return &v
}

// Output describes a finished render. The caller owns Path.
type Output struct {
	Path            string  `json:"path"`
	DurationSeconds float64 `json:"duration_seconds"`
	Captioned       bool    `json:"captioned"`
	HasAudio        bool    `json:"has_audio"`
}

func (r Request) validate() error {
	if len(r.Movie) == 0 {
		return services.Wrap(services.ErrValidation, "validate", "check movie", "movie bytes are required", nil)
	}
	if r.MusicVolume != nil && (*r.MusicVolume < 0 || *r.MusicVolume > 1) {
		return services.Wrap(services.ErrValidation, "validate", "check music volume", fmt.Sprintf("music volume %v is outside [0, 1]", *r.MusicVolume), nil)
	}
	if r.IncludeCaptions && len(r.Subtitles) == 0 {
		return services.Wrap(services.ErrValidation, "validate", "check captions", "captions requested without subtitle bytes", nil)
	}
	return nil
}

// sniffSuffix inspects magic bytes. Recognized files of the wrong media class
// are rejected; unrecognized bytes fall back to the default suffix and are
// left for ffprobe to judge.
func sniffSuffix(key string, data []byte, fallback string, accept ...string) (string, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return fallback, nil
	}
	for _, mediaType := range accept {
		if kind.MIME.Type == mediaType {
			return "." + kind.Extension, nil
		}
	}
	return "", services.Wrap(services.ErrValidation, "validate", "sniff "+key, fmt.Sprintf("%s input looks like %s", key, kind.MIME.Value), nil)
}
