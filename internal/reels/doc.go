// Package reels ties the renderer to persistence and object storage.
//
// Service creates reel records, pulls their inputs from storage, renders them
// on the job pool and uploads the result as reel_<id>.mp4. It also produces
// subtitle files from narration audio through the speech recognizer and
// reports media durations for uploaded files.
package reels
