package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/text/language"

	"reelforge/internal/captions"
	"reelforge/internal/catalog"
	"reelforge/internal/logging"
	"reelforge/internal/services"
	"reelforge/internal/tempfiles"
)

// DefaultLanguage is used when a request names no language.
const DefaultLanguage = "en"

// Recognizer converts audio bytes into word-timed transcriptions.
type Recognizer struct {
	cfg    Config
	models *ModelCache
	run    commandRunner
	logger *slog.Logger
}

// NewRecognizer constructs a recognizer sharing the injected model cache.
func NewRecognizer(cfg Config, models *ModelCache, logger *slog.Logger) *Recognizer {
	if cfg.FFmpegBinary == "" {
		cfg.FFmpegBinary = FFmpegCommand
	}
	return &Recognizer{
		cfg:    cfg,
		models: models,
		run:    defaultCommandRunner,
		logger: logging.NewComponentLogger(logger, "transcription"),
	}
}

// WithCommandRunner sets a custom command runner for audio extraction (for testing).
func (r *Recognizer) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	if r != nil && runner != nil {
		r.run = runner
	}
}

// Transcribe recognizes speech in audio using the model with key modelID.
// language accepts ISO 639-1 codes, BCP 47 tags or catalog synthesis codes.
func (r *Recognizer) Transcribe(ctx context.Context, audio []byte, modelID, lang string) (captions.Transcription, error) {
	if len(audio) == 0 {
		return captions.Transcription{}, services.Wrap(services.ErrValidation, "transcribe", "check audio", "audio bytes are required", nil)
	}
	model, err := catalog.ModelByKey(modelID)
	if err != nil {
		return captions.Transcription{}, services.Wrap(services.ErrValidation, "transcribe", "resolve model", "", err)
	}
	iso, err := NormalizeLanguage(lang)
	if err != nil {
		return captions.Transcription{}, services.Wrap(services.ErrValidation, "transcribe", "resolve language", "", err)
	}
	if err := ctx.Err(); err != nil {
		return captions.Transcription{}, err
	}

	suffix := ".wav"
	if kind, err := filetype.Match(audio); err == nil && kind != filetype.Unknown {
		if !filetype.IsAudio(audio) && !filetype.IsVideo(audio) {
			return captions.Transcription{}, services.Wrap(services.ErrValidation, "transcribe", "sniff audio", "input looks like "+kind.MIME.Value, nil)
		}
		suffix = "." + kind.Extension
	}

	if r.cfg.WorkDir != "" {
		if err := os.MkdirAll(r.cfg.WorkDir, 0o755); err != nil {
			return captions.Transcription{}, services.Wrap(services.ErrResource, "transcribe", "create work dir", "", err)
		}
	}
	inputs, err := tempfiles.Materialize(r.cfg.WorkDir, "transcribe", tempfiles.Input{Key: "audio", Suffix: suffix, Data: audio})
	if err != nil {
		return captions.Transcription{}, err
	}
	defer inputs.Close()

	scratch, err := os.MkdirTemp(r.cfg.WorkDir, "transcribe-out-")
	if err != nil {
		return captions.Transcription{}, services.Wrap(services.ErrResource, "transcribe", "create scratch dir", "", err)
	}
	defer os.RemoveAll(scratch)

	audioPath, _ := inputs.Path("audio")
	wavPath := filepath.Join(scratch, "speech.wav")
	if err := r.run(ctx, r.cfg.FFmpegBinary, extractArgs(audioPath, wavPath)...); err != nil {
		return captions.Transcription{}, services.Wrap(services.ErrMediaDecode, "transcribe", "extract audio", "", err)
	}

	loaded, err := r.models.Get(ctx, model.Key)
	if err != nil {
		return captions.Transcription{}, services.Wrap(services.ErrExternalTool, "transcribe", "load model", "", err)
	}
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("transcription started", logging.String("model", loaded.ID()), logging.String("language", iso))

	raw, err := loaded.Transcribe(ctx, wavPath, scratch, iso)
	if err != nil {
		return captions.Transcription{}, services.Wrap(services.ErrExternalTool, "transcribe", "run model", "", err)
	}
	result, dropped, err := ParseWhisperX(raw)
	if err != nil {
		return captions.Transcription{}, services.Wrap(services.ErrExternalTool, "transcribe", "parse output", "", err)
	}
	if result.Language == "" {
		result.Language = iso
	}
	if dropped > 0 {
		logging.WarnWithContext(logger, "words without timestamps dropped", "transcription_words_dropped",
			logging.Int("dropped", dropped),
			logging.String(logging.FieldImpact, "some spoken words will not appear as captions"),
		)
	}
	logger.Info("transcription complete",
		logging.Int("segments", len(result.Segments)),
		logging.Int("words", result.WordCount()),
	)
	return result, nil
}

// NormalizeLanguage maps a language hint to its ISO 639-1 code. Empty input
// yields DefaultLanguage.
func NormalizeLanguage(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultLanguage, nil
	}
	if lang, err := catalog.LanguageByCode(value); err == nil {
		return lang.ISO(), nil
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", fmt.Errorf("unknown language %q: %w", value, err)
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return "", fmt.Errorf("unknown language %q", value)
	}
	return base.String(), nil
}

type whisperXWord struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
	Score *float64 `json:"score"`
}

type whisperXSegment struct {
	Text  string         `json:"text"`
	Start float64        `json:"start"`
	End   float64        `json:"end"`
	Words []whisperXWord `json:"words"`
}

type whisperXPayload struct {
	Segments []whisperXSegment `json:"segments"`
	Language string            `json:"language"`
}

// ParseWhisperX converts WhisperX JSON into a Transcription. Words the
// aligner could not place in time are dropped and counted.
func ParseWhisperX(data []byte) (captions.Transcription, int, error) {
	var payload whisperXPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return captions.Transcription{}, 0, fmt.Errorf("parse whisperx json: %w", err)
	}

	result := captions.Transcription{Language: payload.Language}
	dropped := 0
	var texts []string
	for i, seg := range payload.Segments {
		segment := captions.Segment{
			ID:    i,
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		}
		for _, w := range seg.Words {
			if w.Start == nil || w.End == nil {
				dropped++
				continue
			}
			word := captions.Word{Text: strings.TrimSpace(w.Word), Start: *w.Start, End: *w.End}
			if w.Score != nil {
				word.Confidence = *w.Score
			}
			if word.End < word.Start {
				word.End = word.Start
			}
			segment.Words = append(segment.Words, word)
		}
		if segment.Text != "" {
			texts = append(texts, segment.Text)
		}
		result.Segments = append(result.Segments, segment)
	}
	result.Text = strings.Join(texts, " ")
	return result, dropped, nil
}
