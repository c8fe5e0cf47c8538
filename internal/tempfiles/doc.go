// Package tempfiles writes in-memory media buffers to uniquely named files
// for tools that only accept paths, and removes them when the caller is done.
//
// Results are keyed by the caller's semantic key ("movie", "narration",
// "music", "captions") rather than by position, so absent inputs never shift
// the meaning of the files that were written.
//
// CleanStale sweeps scratch entries that outlived the process that made them.
package tempfiles
