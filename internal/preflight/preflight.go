package preflight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"reelforge/internal/config"
	"reelforge/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks applicable to cfg.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckFont(cfg.FontPath()),
	}
	if cfg.Storage.Backend == config.StorageBackendLocal {
		results = append(results, CheckDirectoryAccess("Storage directory", cfg.Storage.LocalDir))
	}
	return results
}

const transcriptionDep = "uvx"

// Needs names the optional capabilities a command is about to use.
type Needs struct {
	Captions      bool
	Transcription bool
}

// Require runs RunAll and the binary checks, returning a configuration error
// naming every failure. The font matters only for captions and uvx only for
// transcription.
func Require(ctx context.Context, cfg *config.Config, needs Needs) error {
	var problems []string
	for _, result := range RunAll(ctx, cfg) {
		if result.Passed || (result.Name == fontCheckName && !needs.Captions) {
			continue
		}
		problems = append(problems, fmt.Sprintf("%s: %s", result.Name, result.Detail))
	}
	for _, status := range CheckSystemDeps(ctx, cfg) {
		if status.Available || (status.Optional && !(needs.Transcription && status.Name == transcriptionDep)) {
			continue
		}
		problems = append(problems, fmt.Sprintf("%s: %s", status.Name, status.Detail))
	}
	if len(problems) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "preflight", "check environment", strings.Join(problems, "; "), errors.New("environment not ready"))
}
