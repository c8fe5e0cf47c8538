package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"reelforge/internal/services"
	"reelforge/internal/store"
	"reelforge/internal/testsupport"
)

func newReel(title string) store.NewReel {
	return store.NewReel{
		Title:    title,
		Lang:     "en",
		Author:   "alice",
		MovieKey: "movies/" + title + ".mp4",
	}
}

func TestCreateAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	volume := 0.35
	in := newReel("first")
	in.NarrationKey = "audio/n.mp3"
	in.MusicVolume = &volume
	in.IncludeCaptions = true
	reel, err := st.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if reel.ID == 0 || reel.Status != store.StatusPending {
		t.Fatalf("unexpected reel: %#v", reel)
	}
	if reel.MusicVolume == nil || *reel.MusicVolume != volume || !reel.IncludeCaptions {
		t.Fatalf("render options not persisted: %#v", reel)
	}
	if reel.NarrationKey != "audio/n.mp3" || reel.MusicKey != "" {
		t.Fatalf("unexpected keys: %#v", reel)
	}
	if reel.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}
}

func TestCreateRequiresTitleAndMovie(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := st.Create(ctx, store.NewReel{MovieKey: "m.mp4"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for missing title, got %v", err)
	}
	if _, err := st.Create(ctx, store.NewReel{Title: "t"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for missing movie, got %v", err)
	}
}

func TestLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	reel, err := st.Create(ctx, newReel("life"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := st.MarkRendering(ctx, reel.ID); err != nil {
		t.Fatalf("MarkRendering failed: %v", err)
	}
	if err := st.MarkRendering(ctx, reel.ID); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected second MarkRendering to be rejected, got %v", err)
	}
	if err := st.Complete(ctx, reel.ID, "https://media.test/reel_1.mp4", 12.5); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	got, err := st.Get(ctx, reel.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != store.StatusCompleted || got.FilePath != "https://media.test/reel_1.mp4" || got.DurationSeconds != 12.5 {
		t.Fatalf("unexpected completed reel: %#v", got)
	}
	if !got.Status.Terminal() {
		t.Fatal("completed should be terminal")
	}
	if err := st.Fail(ctx, reel.ID, errors.New("late")); err == nil {
		t.Fatal("expected Fail on completed reel to be rejected")
	}
}

func TestFailRecordsKind(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	cases := []struct {
		name   string
		err    error
		status store.Status
		kind   services.Kind
	}{
		{"invalid input", services.Wrap(services.ErrValidation, "render", "validate", "no movie", nil), store.StatusRejected, services.KindInvalidInput},
		{"decode", services.Wrap(services.ErrMediaDecode, "render", "probe", "movie", nil), store.StatusFailed, services.KindRenderFailed},
		{"plain", errors.New("boom"), store.StatusFailed, services.KindInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reel, err := st.Create(ctx, newReel(tc.name))
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if err := st.Fail(ctx, reel.ID, tc.err); err != nil {
				t.Fatalf("Fail failed: %v", err)
			}
			got, err := st.Get(ctx, reel.ID)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got.Status != tc.status || got.ErrorKind != tc.kind || got.ErrorMessage != tc.err.Error() {
				t.Fatalf("unexpected failed reel: %#v", got)
			}
		})
	}
}

func TestListFiltersAndDelete(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		in := newReel(fmt.Sprintf("reel-%d", i))
		if i == 2 {
			in.Author = "bob"
		}
		reel, err := st.Create(ctx, in)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		ids = append(ids, reel.ID)
	}
	if err := st.MarkRendering(ctx, ids[0]); err != nil {
		t.Fatalf("MarkRendering failed: %v", err)
	}

	all, err := st.List(ctx, store.Filter{})
	if err != nil || len(all) != 3 {
		t.Fatalf("List all = %d, %v", len(all), err)
	}
	if all[0].ID != ids[2] {
		t.Fatalf("expected newest first, got %d", all[0].ID)
	}
	alice, _ := st.List(ctx, store.Filter{Author: "alice"})
	if len(alice) != 2 {
		t.Fatalf("expected 2 reels for alice, got %d", len(alice))
	}
	pending, _ := st.List(ctx, store.Filter{Statuses: []store.Status{store.StatusPending}, Limit: 1})
	if len(pending) != 1 || pending[0].Status != store.StatusPending {
		t.Fatalf("unexpected pending list: %#v", pending)
	}

	counts, err := st.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus failed: %v", err)
	}
	if counts[store.StatusPending] != 2 || counts[store.StatusRendering] != 1 {
		t.Fatalf("unexpected counts: %#v", counts)
	}

	if err := st.Delete(ctx, ids[1]); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := st.Get(ctx, ids[1]); !errors.Is(err, store.ErrNotFound) || !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := st.Delete(ctx, ids[1]); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	reel, err := st.Create(context.Background(), newReel("kept"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	if _, err := reopened.Get(context.Background(), reel.ID); err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	for _, status := range store.AllStatuses() {
		got, ok := store.ParseStatus(string(status))
		if !ok || got != status {
			t.Fatalf("ParseStatus(%q) = %q, %v", status, got, ok)
		}
	}
	if _, ok := store.ParseStatus("encoding"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
}
