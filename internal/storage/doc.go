// Package storage moves reel inputs and rendered outputs in and out of object
// storage.
//
// Two backends satisfy Storage: Local keeps objects under a directory and
// serializes writers across processes with a file lock; GCS stores them in a
// Google Cloud Storage bucket and uses generation preconditions so a
// non-overwriting upload never clobbers an existing object. Open picks the
// backend from configuration.
package storage
