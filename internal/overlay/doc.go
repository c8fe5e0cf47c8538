// Package overlay builds one timed text overlay per caption cue and renders
// each as an ffmpeg drawtext filter.
//
// The font is checked once in New, before any cue is built: a missing or
// unparseable font file is a validation error. Clips are visible on the
// half-open window [start, end), wrapped to the target frame width, and
// positioned by horizontal and vertical alignment plus an edge margin.
package overlay
