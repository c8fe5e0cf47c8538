// Package services defines shared utilities consumed by the render pipeline,
// the reel service, and the external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp render IDs, reel IDs, stage names, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper. Validation, resource,
//     decode and encode failures all carry a marker so callers can tell "your
//     input was invalid" apart from "rendering failed" (see Classify and
//     HTTPStatus).
//
// Use these helpers when wiring new pipeline logic so error handling and
// observability stay uniform.
package services
