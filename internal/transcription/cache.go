package transcription

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Model is a prepared speech recognition model.
type Model interface {
	ID() string
	Transcribe(ctx context.Context, wavPath, outputDir, language string) ([]byte, error)
}

// Loader prepares the model for an ID.
type Loader func(ctx context.Context, modelID string) (Model, error)

// cacheEntry is one model load. ready is closed once model or err is set.
type cacheEntry struct {
	ready chan struct{}
	model Model
	err   error
}

// ModelCache prepares each model once and hands out the same instance.
// Loads of different models run independently.
type ModelCache struct {
	mu      sync.Mutex
	load    Loader
	entries map[string]*cacheEntry
}

// NewModelCache constructs a cache around load.
func NewModelCache(load Loader) *ModelCache {
	return &ModelCache{load: load, entries: make(map[string]*cacheEntry)}
}

// Get returns the cached model for id, loading it on first use. Callers
// asking for a model that is still loading wait for that load or for ctx.
// Load errors are returned and not cached.
func (c *ModelCache) Get(ctx context.Context, id string) (Model, error) {
	if c == nil || c.load == nil {
		return nil, fmt.Errorf("model cache not initialized")
	}
	for {
		c.mu.Lock()
		entry, ok := c.entries[id]
		if !ok {
			entry = &cacheEntry{ready: make(chan struct{})}
			c.entries[id] = entry
			c.mu.Unlock()
			c.fill(ctx, id, entry)
			return entry.model, entry.err
		}
		c.mu.Unlock()

		select {
		case <-entry.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if entry.err == nil {
			return entry.model, nil
		}
		// The load we waited on was abandoned by its own caller; try again
		// under ours.
		if isContextErr(entry.err) && ctx.Err() == nil {
			continue
		}
		return nil, entry.err
	}
}

func (c *ModelCache) fill(ctx context.Context, id string, entry *cacheEntry) {
	model, err := c.load(ctx, id)
	if err != nil {
		c.mu.Lock()
		delete(c.entries, id)
		c.mu.Unlock()
		entry.err = fmt.Errorf("load model %q: %w", id, err)
	} else {
		entry.model = model
	}
	close(entry.ready)
}

// Loaded returns the IDs of prepared models, sorted.
func (c *ModelCache) Loaded() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.entries))
	for id, entry := range c.entries {
		select {
		case <-entry.ready:
			if entry.err == nil {
				ids = append(ids, id)
			}
		default:
		}
	}
	sort.Strings(ids)
	return ids
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
