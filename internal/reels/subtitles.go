package reels

import (
	"context"
	"math"

	"github.com/h2non/filetype"

	"reelforge/internal/captions"
	"reelforge/internal/logging"
	"reelforge/internal/services"
	"reelforge/internal/tempfiles"
)

// Subtitles is the result of GenerateSubtitles.
type Subtitles struct {
	Key  string
	URL  string
	Cues int
}

// GenerateSubtitles transcribes the audio stored under audioKey and uploads
// the SRT as transcription_<audio>.srt, replacing any earlier file.
func (s *Service) GenerateSubtitles(ctx context.Context, audioKey, modelKey, language string) (Subtitles, error) {
	if s.recognizer == nil {
		return Subtitles{}, services.Wrap(services.ErrConfiguration, "subtitles", "transcribe", "speech recognition is not configured", nil)
	}
	audio, err := s.objects.Download(ctx, audioKey)
	if err != nil {
		return Subtitles{}, err
	}
	transcription, err := s.recognizer.Transcribe(ctx, audio, modelKey, language)
	if err != nil {
		return Subtitles{}, err
	}
	cues := captions.GenerateCues(transcription)
	key := SubtitlesKey(audioKey)
	url, err := s.objects.Upload(ctx, []byte(captions.Encode(cues)), key, true)
	if err != nil {
		return Subtitles{}, err
	}
	logging.WithContext(ctx, s.logger).Info("subtitles uploaded",
		logging.String("key", key),
		logging.Int("cues", len(cues)),
	)
	return Subtitles{Key: key, URL: url, Cues: len(cues)}, nil
}

// MediaDuration reports the duration in seconds of an uploaded media file.
func (s *Service) MediaDuration(ctx context.Context, data []byte) (float64, error) {
	if len(data) == 0 {
		return 0, services.Wrap(services.ErrValidation, "duration", "check input", "media bytes are required", nil)
	}
	suffix := ".bin"
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		if !filetype.IsAudio(data) && !filetype.IsVideo(data) {
			return 0, services.Wrap(services.ErrValidation, "duration", "sniff input", "input looks like "+kind.MIME.Value, nil)
		}
		suffix = "." + kind.Extension
	}
	set, err := tempfiles.Materialize(s.workDir, "duration", tempfiles.Input{Key: "media", Suffix: suffix, Data: data})
	if err != nil {
		return 0, err
	}
	defer set.Close()

	p, _ := set.Path("media")
	result, err := s.probe(ctx, p)
	if err != nil {
		return 0, services.Wrap(services.ErrMediaDecode, "duration", "probe", "", err)
	}
	duration := result.DurationSeconds()
	if math.IsNaN(duration) || duration <= 0 {
		return 0, services.Wrap(services.ErrMediaDecode, "duration", "probe", "media reports no duration", nil)
	}
	return duration, nil
}
