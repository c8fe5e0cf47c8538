// Command reelforge renders short vertical reels and manages their records.
//
// Local commands (render, srt, transcribe, probe) work on files directly.
// The reel and subtitles commands go through object storage and the reel
// database configured in config.toml.
package main
