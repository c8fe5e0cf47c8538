// Package preflight provides readiness checks for the executables, fonts and
// filesystem paths reelforge depends on.
//
// The CLI "reelforge status" command prints every result; render and reel
// commands call RunAll first and refuse to start when a required check fails,
// rather than failing halfway through an ffmpeg run.
package preflight
