package services_test

import (
	"context"
	"testing"

	"reelforge/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithReelID(ctx, 42)
	ctx = services.WithRenderID(ctx, "render-1")
	ctx = services.WithStage(ctx, "encode")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.ReelIDFromContext(ctx); !ok || id != 42 {
		t.Fatalf("unexpected reel id: %v %v", id, ok)
	}
	if id, ok := services.RenderIDFromContext(ctx); !ok || id != "render-1" {
		t.Fatalf("unexpected render id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "encode" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
}
