// Package config loads, normalizes, and validates reelforge configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the environment fallbacks the
// deployment has always used: FFMPEG_CODEC and FFMPEG_THREADS for the encoder,
// GCS_BUCKET for object storage, and HF_TOKEN for WhisperX VAD models.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
