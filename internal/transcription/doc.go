// Package transcription produces word-level timestamps for narration audio by
// running WhisperX through uvx.
//
// Recognizer.Transcribe materializes the audio bytes, extracts a mono 16 kHz
// WAV with ffmpeg, and runs the model resolved through a ModelCache. The cache
// is constructed once and injected; each model ID is prepared at most once,
// under a lock, and failed preparations are retried on the next request.
package transcription
