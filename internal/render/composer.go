package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelforge/internal/captions"
	"reelforge/internal/logging"
	"reelforge/internal/media/ffprobe"
	"reelforge/internal/overlay"
	"reelforge/internal/services"
	"reelforge/internal/tempfiles"
)

// durationTolerance absorbs container rounding when comparing caption and
// source durations.
const durationTolerance = 0.001

// CommandRunner executes an external command.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// ProbeFunc inspects a media file.
type ProbeFunc func(ctx context.Context, path string) (ffprobe.Result, error)

// Composer renders reels. It holds no per-render state, so one Composer may
// serve concurrent Compose calls.
type Composer struct {
	opts     Options
	overlays *overlay.Builder
	logger   *slog.Logger
	run      CommandRunner
	probe    ProbeFunc
}

// NewComposer constructs a composer. overlays may be nil when captions are
// never requested.
func NewComposer(opts Options, overlays *overlay.Builder, logger *slog.Logger) *Composer {
	c := &Composer{
		opts:     opts,
		overlays: overlays,
		logger:   logging.NewComponentLogger(logger, "composer"),
		run:      defaultCommandRunner,
	}
	c.probe = func(ctx context.Context, path string) (ffprobe.Result, error) {
		return ffprobe.Inspect(ctx, c.opts.FFprobeBinary, path)
	}
	return c
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (c *Composer) WithCommandRunner(r CommandRunner) {
	if c != nil && r != nil {
		c.run = r
	}
}

// WithProbe allows injecting a custom media inspector for tests.
func (c *Composer) WithProbe(p ProbeFunc) {
	if c != nil && p != nil {
		c.probe = p
	}
}

// Compose renders req into a new file under the work directory.
func (c *Composer) Compose(ctx context.Context, req Request) (out Output, err error) {
	if c == nil {
		return Output{}, services.Wrap(services.ErrConfiguration, "compose", "init", "composer not initialized", nil)
	}
	renderID := uuid.NewString()
	ctx = services.WithRenderID(ctx, renderID)
	logger := logging.WithContext(ctx, c.logger)
	started := time.Now()

	if err := req.validate(); err != nil {
		return Output{}, err
	}
	musicVolume := c.opts.MusicVolume
	if req.MusicVolume != nil {
		musicVolume = *req.MusicVolume
	}

	movieSuffix, err := sniffSuffix("movie", req.Movie, ".mp4", "video")
	if err != nil {
		return Output{}, err
	}
	narrationSuffix, musicSuffix := ".mp3", ".mp3"
	if req.Narration != nil {
		if narrationSuffix, err = sniffSuffix("narration", req.Narration, ".mp3", "audio", "video"); err != nil {
			return Output{}, err
		}
	}
	if req.Music != nil {
		if musicSuffix, err = sniffSuffix("music", req.Music, ".mp3", "audio", "video"); err != nil {
			return Output{}, err
		}
	}

	var clips []overlay.Clip
	captionDuration := 0.0
	if req.IncludeCaptions {
		if c.overlays == nil {
			return Output{}, services.Wrap(services.ErrValidation, "captions", "build overlays", "caption font is not available", services.ErrConfiguration)
		}
		cues, err := captions.Parse(req.Subtitles)
		if err != nil {
			return Output{}, services.Wrap(services.ErrValidation, "captions", "parse subtitles", "", err)
		}
		if clips, err = c.overlays.Build(cues); err != nil {
			return Output{}, err
		}
		captionDuration = captions.LastEnd(cues) + c.opts.CaptionHold
	}

	sc := &scope{}
	succeeded := false
	defer func() {
		if cerr := sc.close(); cerr != nil {
			cerr = services.Wrap(services.ErrResource, "cleanup", "release render resources", "", cerr)
			if err != nil {
				err = errors.Join(err, cerr)
				return
			}
			logging.WarnWithContext(logger, "render cleanup incomplete", "render_cleanup_failed",
				logging.Error(cerr),
				logging.String(logging.FieldImpact, "temporary files left in work directory"),
				logging.String(logging.FieldErrorHint, "remove stale reelforge temp files from the work directory"),
			)
		}
	}()

	if err := preflight(ctx, "materialize"); err != nil {
		return Output{}, err
	}
	workDir := c.opts.WorkDir
	if workDir != "" {
		if err := os.MkdirAll(workDir, 0o755); err != nil {
			return Output{}, services.Wrap(services.ErrResource, "materialize", "create work dir", workDir, err)
		}
	}
	inputs, err := tempfiles.Materialize(workDir, "render",
		tempfiles.Input{Key: "movie", Suffix: movieSuffix, Data: req.Movie},
		tempfiles.Input{Key: "narration", Suffix: narrationSuffix, Data: req.Narration},
		tempfiles.Input{Key: "music", Suffix: musicSuffix, Data: req.Music},
	)
	if err != nil {
		return Output{}, err
	}
	sc.add(inputs.Close)

	if err := preflight(ctx, "probe"); err != nil {
		return Output{}, err
	}
	moviePath, _ := inputs.Path("movie")
	source, err := c.probeVideo(ctx, moviePath)
	if err != nil {
		return Output{}, err
	}
	for _, key := range []string{"narration", "music"} {
		if path, ok := inputs.Path(key); ok {
			if err := c.probeAudio(ctx, key, path); err != nil {
				return Output{}, err
			}
		}
	}

	finalDuration := source.VideoDurationSeconds()
	if req.IncludeCaptions {
		if captionDuration > finalDuration+durationTolerance {
			return Output{}, services.Wrap(services.ErrValidation, "captions", "check duration",
				fmt.Sprintf("captions run %.3fs but the movie is %.3fs", captionDuration, finalDuration), nil)
		}
		finalDuration = captionDuration
	}

	scratch, err := os.MkdirTemp(workDir, "reel-"+renderID+"-")
	if err != nil {
		return Output{}, services.Wrap(services.ErrResource, "materialize", "create scratch dir", "", err)
	}
	sc.add(func() error { return os.RemoveAll(scratch) })

	filters := make([]string, 0, len(clips))
	for _, clip := range clips {
		textPath := filepath.Join(scratch, "cue-"+strconv.Itoa(clip.Index)+".txt")
		if err := os.WriteFile(textPath, []byte(clip.Text()), 0o644); err != nil {
			return Output{}, services.Wrap(services.ErrResource, "captions", "write cue text", "", err)
		}
		filters = append(filters, clip.Filter(textPath))
	}

	outputDir := workDir
	if outputDir == "" {
		outputDir = os.TempDir()
	}
	outputPath := filepath.Join(outputDir, "reel_"+renderID+".mp4")
	sc.add(func() error {
		if succeeded {
			return nil
		}
		if err := os.Remove(outputPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	})

	narrationPath, _ := inputs.Path("narration")
	musicPath, _ := inputs.Path("music")
	plan, err := BuildPlan(PlanInput{
		MoviePath:        moviePath,
		NarrationPath:    narrationPath,
		MusicPath:        musicPath,
		MusicVolume:      musicVolume,
		SourceHasAudio:   source.HasAudio(),
		Duration:         finalDuration,
		CaptionFilters:   filters,
		Width:            c.opts.Width,
		Height:           c.opts.Height,
		FPS:              c.opts.FPS,
		VideoCodec:       c.opts.VideoCodec,
		AudioCodec:       c.opts.AudioCodec,
		Threads:          c.opts.Threads,
		FilterScriptPath: filepath.Join(scratch, "graph.txt"),
		OutputPath:       outputPath,
	})
	if err != nil {
		return Output{}, services.Wrap(services.ErrValidation, "plan", "build filter graph", "", err)
	}
	if err := os.WriteFile(filepath.Join(scratch, "graph.txt"), []byte(plan.Graph), 0o644); err != nil {
		return Output{}, services.Wrap(services.ErrResource, "plan", "write filter graph", "", err)
	}

	if err := preflight(ctx, "encode"); err != nil {
		return Output{}, err
	}
	encodeCtx := services.WithStage(context.WithoutCancel(ctx), "encode")
	logging.WithContext(encodeCtx, c.logger).Info("encode started",
		logging.Float64("duration_seconds", finalDuration),
		logging.Int("caption_clips", len(clips)),
		logging.Bool("narration", narrationPath != ""),
		logging.Bool("music", musicPath != ""),
	)
	if err := c.run(encodeCtx, c.opts.FFmpegBinary, plan.Args...); err != nil {
		return Output{}, services.Wrap(services.ErrMediaEncode, "encode", "run ffmpeg", "", err)
	}
	if info, err := os.Stat(outputPath); err != nil || info.Size() == 0 {
		return Output{}, services.Wrap(services.ErrMediaEncode, "encode", "verify output", "ffmpeg produced no output", err)
	}

	succeeded = true
	logger.Info("render complete",
		logging.String("output", outputPath),
		logging.Float64("duration_seconds", finalDuration),
		logging.Duration("elapsed", time.Since(started)),
	)
	return Output{
		Path:            outputPath,
		DurationSeconds: finalDuration,
		Captioned:       len(clips) > 0,
		HasAudio:        plan.HasAudio,
	}, nil
}

func (c *Composer) probeVideo(ctx context.Context, path string) (ffprobe.Result, error) {
	result, err := c.probe(services.WithStage(ctx, "probe"), path)
	if err != nil {
		return ffprobe.Result{}, services.Wrap(services.ErrMediaDecode, "probe", "inspect movie", "movie could not be decoded", err)
	}
	if _, ok := result.VideoStream(); !ok {
		return ffprobe.Result{}, services.Wrap(services.ErrMediaDecode, "probe", "inspect movie", "movie has no video stream", nil)
	}
	duration := result.VideoDurationSeconds()
	if math.IsNaN(duration) || duration <= 0 {
		return ffprobe.Result{}, services.Wrap(services.ErrMediaDecode, "probe", "inspect movie", "movie reports no duration", nil)
	}
	return result, nil
}

func (c *Composer) probeAudio(ctx context.Context, key, path string) error {
	result, err := c.probe(services.WithStage(ctx, "probe"), path)
	if err != nil {
		return services.Wrap(services.ErrMediaDecode, "probe", "inspect "+key, key+" could not be decoded", err)
	}
	if !result.HasAudio() {
		return services.Wrap(services.ErrMediaDecode, "probe", "inspect "+key, key+" has no audio stream", nil)
	}
	return nil
}

func preflight(ctx context.Context, stage string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("render cancelled before %s: %w", stage, err)
	}
	return nil
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, tailLines(stderr.String(), 8))
	}
	return nil
}

func tailLines(text string, n int) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
