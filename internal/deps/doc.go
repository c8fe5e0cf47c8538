// Package deps checks for the external executables reelforge runs: ffmpeg
// and ffprobe for rendering and inspection, and uvx for WhisperX speech
// recognition.
package deps
