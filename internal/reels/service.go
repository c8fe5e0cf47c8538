package reels

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"reelforge/internal/captions"
	"reelforge/internal/jobs"
	"reelforge/internal/logging"
	"reelforge/internal/media/ffprobe"
	"reelforge/internal/render"
	"reelforge/internal/services"
	"reelforge/internal/storage"
	"reelforge/internal/store"
)

// Composer renders a request into a local file.
type Composer interface {
	Compose(ctx context.Context, req render.Request) (render.Output, error)
}

// Recognizer transcribes audio into word-timed segments.
type Recognizer interface {
	Transcribe(ctx context.Context, audio []byte, modelID, language string) (captions.Transcription, error)
}

// ProbeFunc inspects a media file on disk.
type ProbeFunc func(ctx context.Context, path string) (ffprobe.Result, error)

// Deps are the collaborators a Service needs. Recognizer may be nil when
// subtitle generation is not offered.
type Deps struct {
	Store      *store.Store
	Objects    storage.Storage
	Composer   Composer
	Recognizer Recognizer
	Pool       *jobs.Pool
	// Probe defaults to ffprobe.Inspect with FFprobeBinary.
	Probe         ProbeFunc
	FFprobeBinary string
	WorkDir       string
	Logger        *slog.Logger
}

// Service manages the reel lifecycle.
type Service struct {
	store      *store.Store
	objects    storage.Storage
	composer   Composer
	recognizer Recognizer
	pool       *jobs.Pool
	probe      ProbeFunc
	workDir    string
	logger     *slog.Logger
}

// NewService constructs a Service from deps.
func NewService(deps Deps) (*Service, error) {
	switch {
	case deps.Store == nil:
		return nil, services.Wrap(services.ErrConfiguration, "reels", "init", "store is required", nil)
	case deps.Objects == nil:
		return nil, services.Wrap(services.ErrConfiguration, "reels", "init", "object storage is required", nil)
	case deps.Composer == nil:
		return nil, services.Wrap(services.ErrConfiguration, "reels", "init", "composer is required", nil)
	case deps.Pool == nil:
		return nil, services.Wrap(services.ErrConfiguration, "reels", "init", "job pool is required", nil)
	}
	probe := deps.Probe
	if probe == nil {
		probe = func(ctx context.Context, p string) (ffprobe.Result, error) {
			return ffprobe.Inspect(ctx, deps.FFprobeBinary, p)
		}
	}
	return &Service{
		store:      deps.Store,
		objects:    deps.Objects,
		composer:   deps.Composer,
		recognizer: deps.Recognizer,
		pool:       deps.Pool,
		probe:      probe,
		workDir:    deps.WorkDir,
		logger:     logging.NewComponentLogger(deps.Logger, "reels"),
	}, nil
}

// CreateRequest names the stored inputs of a new reel.
type CreateRequest struct {
	Title           string
	Description     string
	Lang            string
	Author          string
	MovieKey        string
	NarrationKey    string
	MusicKey        string
	SubtitlesKey    string
	MusicVolume     *float64
	IncludeCaptions bool
}

func (r CreateRequest) validate() error {
	if r.MusicVolume != nil && (*r.MusicVolume < 0 || *r.MusicVolume > 1) {
		return services.Wrap(services.ErrValidation, "reels", "validate", fmt.Sprintf("music volume %v is outside [0, 1]", *r.MusicVolume), nil)
	}
	if r.IncludeCaptions && strings.TrimSpace(r.SubtitlesKey) == "" {
		return services.Wrap(services.ErrValidation, "reels", "validate", "captions requested without a subtitles key", nil)
	}
	return nil
}

func (r CreateRequest) record() store.NewReel {
	return store.NewReel{
		Title:           r.Title,
		Description:     r.Description,
		Lang:            r.Lang,
		Author:          r.Author,
		MovieKey:        r.MovieKey,
		NarrationKey:    r.NarrationKey,
		MusicKey:        r.MusicKey,
		SubtitlesKey:    r.SubtitlesKey,
		MusicVolume:     r.MusicVolume,
		IncludeCaptions: r.IncludeCaptions,
	}
}

// Create records a reel and renders it, waiting for the result. The
// returned record reflects the final status even when rendering failed or
// ctx ended before a worker picked the render up.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*store.Reel, error) {
	reel, err := s.insert(ctx, req)
	if err != nil {
		return nil, err
	}
	id := reel.ID
	handle, renderErr := s.pool.Submit(ctx, func(jobCtx context.Context) error {
		return s.render(jobCtx, id)
	})
	if renderErr != nil {
		s.fail(ctx, id, renderErr)
		return s.final(ctx, id, renderErr)
	}

	renderErr = handle.Wait(ctx)
	if ctx.Err() != nil {
		// The job sees the same cancelled context and is skipped or fails
		// on its own; its outcome decides the record.
		<-handle.Done()
		renderErr = handle.Err()
	}
	if errors.Is(renderErr, jobs.ErrSkipped) {
		s.fail(ctx, id, renderErr)
	}
	return s.final(ctx, id, renderErr)
}

func (s *Service) final(ctx context.Context, id int64, renderErr error) (*store.Reel, error) {
	reel, err := s.store.Get(context.WithoutCancel(ctx), id)
	if err != nil {
		return nil, errors.Join(renderErr, err)
	}
	return reel, renderErr
}

// Enqueue records a reel and schedules its render, returning the pending
// record and the job handle. The render outlives ctx.
func (s *Service) Enqueue(ctx context.Context, req CreateRequest) (*store.Reel, *jobs.Handle, error) {
	reel, err := s.insert(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	id := reel.ID
	handle, err := s.pool.Submit(context.WithoutCancel(ctx), func(jobCtx context.Context) error {
		return s.render(jobCtx, id)
	})
	if err != nil {
		s.fail(ctx, id, err)
		return nil, nil, err
	}
	return reel, handle, nil
}

// Get returns the reel record with id.
func (s *Service) Get(ctx context.Context, id int64) (*store.Reel, error) {
	return s.store.Get(ctx, id)
}

// List returns reel records matching filter.
func (s *Service) List(ctx context.Context, filter store.Filter) ([]*store.Reel, error) {
	return s.store.List(ctx, filter)
}

// Delete removes a reel's rendered file and its record. A missing object is
// not an error.
func (s *Service) Delete(ctx context.Context, id int64) error {
	reel, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if reel.FilePath != "" {
		if err := s.objects.Delete(ctx, OutputKey(reel.ID)); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
	}
	return s.store.Delete(ctx, id)
}

// OutputKey is the storage key of a reel's rendered file.
func OutputKey(id int64) string {
	return fmt.Sprintf("reel_%d.mp4", id)
}

// SubtitlesKey is the storage key of subtitles generated from audioKey.
func SubtitlesKey(audioKey string) string {
	base := path.Base(strings.ReplaceAll(audioKey, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	return fmt.Sprintf("transcription_%s.srt", base)
}

func (s *Service) insert(ctx context.Context, req CreateRequest) (*store.Reel, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	return s.store.Create(ctx, req.record())
}

func (s *Service) render(ctx context.Context, id int64) (err error) {
	ctx = services.WithReelID(ctx, id)
	logger := logging.WithContext(ctx, s.logger)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panicked: %v", r)
		}
		if err != nil {
			s.fail(ctx, id, err)
		}
	}()

	if err := s.store.MarkRendering(ctx, id); err != nil {
		return err
	}
	reel, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	req, err := s.download(services.WithStage(ctx, "download"), reel)
	if err != nil {
		return err
	}
	out, err := s.composer.Compose(ctx, req)
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(out.Path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			logging.WarnWithContext(logger, "rendered file cleanup failed", "reel_cleanup_failed",
				logging.String("path", out.Path),
				logging.Error(rmErr),
				logging.String(logging.FieldImpact, "rendered file left in work directory"),
			)
		}
	}()

	data, err := os.ReadFile(out.Path)
	if err != nil {
		return services.Wrap(services.ErrResource, "upload", "read output", out.Path, err)
	}
	url, err := s.objects.Upload(services.WithStage(ctx, "upload"), data, OutputKey(id), true)
	if err != nil {
		return err
	}
	if err := s.store.Complete(ctx, id, url, out.DurationSeconds); err != nil {
		return err
	}
	logger.Info("reel completed",
		logging.String("url", url),
		logging.Float64("duration_seconds", out.DurationSeconds),
		logging.Bool("captioned", out.Captioned),
	)
	return nil
}

func (s *Service) download(ctx context.Context, reel *store.Reel) (render.Request, error) {
	req := render.Request{
		MusicVolume:     reel.MusicVolume,
		IncludeCaptions: reel.IncludeCaptions,
	}
	fetch := func(key string, dst *[]byte) error {
		if key == "" {
			return nil
		}
		data, err := s.objects.Download(ctx, key)
		if err != nil {
			return err
		}
		*dst = data
		return nil
	}
	for _, input := range []struct {
		key string
		dst *[]byte
	}{
		{reel.MovieKey, &req.Movie},
		{reel.NarrationKey, &req.Narration},
		{reel.MusicKey, &req.Music},
		{reel.SubtitlesKey, &req.Subtitles},
	} {
		if err := fetch(input.key, input.dst); err != nil {
			return render.Request{}, err
		}
	}
	return req, nil
}

func (s *Service) fail(ctx context.Context, id int64, cause error) {
	ctx = context.WithoutCancel(ctx)
	if err := s.store.Fail(ctx, id, cause); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "record failure not persisted", "reel_fail_persist",
			logging.Int64(logging.FieldReelID, id),
			logging.Error(err),
			logging.String(logging.FieldImpact, "reel status may be stale"),
		)
		return
	}
	logging.WithContext(ctx, s.logger).Info("reel failed",
		logging.Int64(logging.FieldReelID, id),
		logging.String("status", string(store.FailureStatus(cause))),
		logging.Error(cause),
	)
}
