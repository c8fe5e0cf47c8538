// Package captions turns word-level speech recognition output into SRT cue
// text and reads SRT text back into cues.
//
// One cue is emitted per recognized word so overlays can follow speech word
// by word. Every generated stream ends with a short terminal cue whose text
// is TerminalText, giving renderers a bounded final timestamp even when the
// recognizer reported no trailing silence. Timestamps are derived from total
// elapsed milliseconds, so durations past 24 hours keep their hour count.
package captions
