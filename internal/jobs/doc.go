// Package jobs runs render work on a bounded pool of goroutines so callers
// never block a request path on ffmpeg.
//
// Each submitted job receives a fresh identifier stamped into its context as
// the correlation ID. A job whose context is already cancelled when a worker
// picks it up is skipped without running.
package jobs
