// Package store persists reel records in SQLite.
//
// A reel record tracks the storage keys of a render's inputs, its lifecycle
// status and, once rendered, the public location and duration of the output.
// Failed renders keep the failure kind and message so callers can tell
// rejected input apart from a render that broke. The schema is embedded and
// versioned; a database written by a different schema version is refused
// rather than migrated.
package store
