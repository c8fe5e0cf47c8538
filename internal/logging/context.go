package logging

import (
	"context"
	"log/slog"

	"reelforge/internal/services"
)

const (
	// FieldComponent names the subsystem emitting the record.
	FieldComponent = "component"
	// FieldRenderID identifies a single composer invocation.
	FieldRenderID = "render_id"
	// FieldReelID identifies a persisted reel record.
	FieldReelID = "reel_id"
	// FieldStage names the composer or worker stage (materialize, probe, encode, upload).
	FieldStage = "stage"
	// FieldCorrelationID carries the CLI invocation or job identifier.
	FieldCorrelationID = "correlation_id"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if id, ok := services.RenderIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRenderID, id))
	}
	if id, ok := services.ReelIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldReelID, id))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
