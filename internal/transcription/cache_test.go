package transcription

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type stubModel struct {
	id     string
	output []byte
	err    error
}

func (m *stubModel) ID() string { return m.id }

func (m *stubModel) Transcribe(context.Context, string, string, string) ([]byte, error) {
	return m.output, m.err
}

func TestModelCacheLoadsEachModelOnce(t *testing.T) {
	var loads atomic.Int32
	cache := NewModelCache(func(_ context.Context, id string) (Model, error) {
		loads.Add(1)
		return &stubModel{id: id}, nil
	})

	var wg sync.WaitGroup
	models := make([]Model, 8)
	for i := range models {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := cache.Get(context.Background(), "base")
			if err != nil {
				t.Errorf("Get returned error: %v", err)
				return
			}
			models[i] = m
		}(i)
	}
	wg.Wait()

	if loads.Load() != 1 {
		t.Fatalf("expected one load, got %d", loads.Load())
	}
	for _, m := range models[1:] {
		if m != models[0] {
			t.Fatal("expected the same model instance for every caller")
		}
	}
	if _, err := cache.Get(context.Background(), "tiny"); err != nil {
		t.Fatalf("Get tiny: %v", err)
	}
	if got := cache.Loaded(); len(got) != 2 || got[0] != "base" || got[1] != "tiny" {
		t.Fatalf("unexpected loaded ids %v", got)
	}
}

func TestModelCacheDoesNotCacheErrors(t *testing.T) {
	attempts := 0
	cache := NewModelCache(func(_ context.Context, id string) (Model, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("download interrupted")
		}
		return &stubModel{id: id}, nil
	})
	if _, err := cache.Get(context.Background(), "base"); err == nil {
		t.Fatal("expected first load to fail")
	}
	if _, err := cache.Get(context.Background(), "base"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected two attempts, got %d", attempts)
	}
}

func TestModelCacheSlowLoadDoesNotBlockOtherModels(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	cache := NewModelCache(func(_ context.Context, id string) (Model, error) {
		if id == "large-v3" {
			close(started)
			<-release
		}
		return &stubModel{id: id}, nil
	})
	if _, err := cache.Get(context.Background(), "base"); err != nil {
		t.Fatalf("Get base: %v", err)
	}

	slow := make(chan error, 1)
	go func() {
		_, err := cache.Get(context.Background(), "large-v3")
		slow <- err
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if m, err := cache.Get(ctx, "base"); err != nil || m.ID() != "base" {
		t.Fatalf("cached model blocked behind a slow load: %v, %v", m, err)
	}

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer waitCancel()
	if _, err := cache.Get(waitCtx, "large-v3"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected waiter to honour its context, got %v", err)
	}
	if got := cache.Loaded(); len(got) != 1 || got[0] != "base" {
		t.Fatalf("loading model reported as loaded: %v", got)
	}

	close(release)
	if err := <-slow; err != nil {
		t.Fatalf("slow load: %v", err)
	}
	if got := cache.Loaded(); len(got) != 2 {
		t.Fatalf("expected both models loaded, got %v", got)
	}
}
