package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"reelforge/internal/config"
	"reelforge/internal/jobs"
	"reelforge/internal/logging"
	"reelforge/internal/overlay"
	"reelforge/internal/reels"
	"reelforge/internal/render"
	"reelforge/internal/services"
	"reelforge/internal/storage"
	"reelforge/internal/store"
	"reelforge/internal/transcription"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	models *transcription.ModelCache

	closers []func() error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.TrimSpace(*c.logLevelFlag)
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue())
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) onClose(fn func() error) {
	c.closers = append(c.closers, fn)
}

func (c *commandContext) close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// composer builds a render.Composer. When requireCaptions is false a font
// that cannot be loaded only disables caption overlays.
func (c *commandContext) composer(requireCaptions bool) (*render.Composer, error) {
	cfg := c.configValue()
	style, err := overlay.StyleFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	overlays, err := overlay.New(style)
	if err != nil {
		if requireCaptions {
			return nil, err
		}
		logging.WarnWithContext(c.loggerValue(), "caption overlays disabled", "caption_font_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "captioned renders will be rejected"),
			logging.String(logging.FieldErrorHint, "install the configured font or set captions.font"),
		)
		overlays = nil
	}
	return render.NewComposer(render.OptionsFromConfig(cfg), overlays, c.loggerValue()), nil
}

func (c *commandContext) recognizer() *transcription.Recognizer {
	cfg := transcription.ConfigFromConfig(c.configValue())
	if c.models == nil {
		c.models = transcription.NewModelCache(transcription.NewWhisperXLoader(cfg, nil))
	}
	return transcription.NewRecognizer(cfg, c.models, c.loggerValue())
}

func (c *commandContext) openStore() (*store.Store, error) {
	st, err := store.Open(c.configValue())
	if err != nil {
		return nil, err
	}
	c.onClose(st.Close)
	return st, nil
}

func (c *commandContext) openStorage(ctx context.Context) (storage.Storage, error) {
	objects, err := storage.Open(ctx, c.configValue())
	if err != nil {
		return nil, err
	}
	c.onClose(objects.Close)
	return objects, nil
}

func (c *commandContext) reelService(ctx context.Context) (*reels.Service, error) {
	cfg := c.configValue()
	st, err := c.openStore()
	if err != nil {
		return nil, err
	}
	objects, err := c.openStorage(ctx)
	if err != nil {
		return nil, err
	}
	composer, err := c.composer(false)
	if err != nil {
		return nil, err
	}
	pool := jobs.NewPool(cfg.Workflow.RenderWorkers, c.loggerValue(),
		jobs.WithTimeout(time.Duration(cfg.Workflow.RenderTimeoutSeconds)*time.Second))
	c.onClose(func() error {
		pool.Close()
		return nil
	})
	return reels.NewService(reels.Deps{
		Store:         st,
		Objects:       objects,
		Composer:      composer,
		Recognizer:    c.recognizer(),
		Pool:          pool,
		FFprobeBinary: cfg.FFprobeBinary(),
		WorkDir:       cfg.Paths.WorkDir,
		Logger:        c.loggerValue(),
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// exitCode maps error kinds onto process exit codes: 2 for bad input,
// 3 for missing records or objects, 1 otherwise.
func exitCode(err error) int {
	switch services.Classify(err) {
	case services.KindInvalidInput:
		return 2
	case services.KindNotFound:
		return 3
	default:
		return 1
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
