// Package render composes reels with ffmpeg.
//
// A Composer takes the raw bytes of a source movie plus optional narration,
// background music and SRT captions, and produces a portrait MP4 in the work
// directory. Work proceeds in stages: request validation and caption parsing,
// materializing inputs to temp files, probing them with ffprobe, checking the
// caption duration against the source, and a single ffmpeg encode driven by a
// filter graph built from an immutable Plan.
//
// Every file a render creates is owned by that render and released in
// reverse order of acquisition when Compose returns. Cancellation is checked
// before each stage; once the encode starts it runs to completion.
package render
