// Package ffprobe runs ffprobe against materialized media and exposes the
// handful of facts the renderer needs: container duration, the primary video
// stream's geometry and frame rate, and whether any audio is present.
//
// Parse is split from Inspect so callers and tests can decode captured
// ffprobe JSON without spawning a process.
package ffprobe
