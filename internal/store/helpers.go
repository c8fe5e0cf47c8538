package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"reelforge/internal/services"
)

const reelColumns = "id, title, description, lang, author, movie_key, narration_key, music_key, subtitles_key, music_volume, include_captions, status, file_path, duration_seconds, error_kind, error_message, created_at, updated_at"

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func scanReel(scanner interface{ Scan(dest ...any) error }) (*Reel, error) {
	var (
		id              int64
		title           string
		description     sql.NullString
		lang            sql.NullString
		author          sql.NullString
		movieKey        string
		narrationKey    sql.NullString
		musicKey        sql.NullString
		subtitlesKey    sql.NullString
		musicVolume     sql.NullFloat64
		includeCaptions int64
		statusStr       string
		filePath        sql.NullString
		duration        sql.NullFloat64
		errorKind       sql.NullString
		errorMessage    sql.NullString
		createdRaw      string
		updatedRaw      string
	)
	if err := scanner.Scan(
		&id,
		&title,
		&description,
		&lang,
		&author,
		&movieKey,
		&narrationKey,
		&musicKey,
		&subtitlesKey,
		&musicVolume,
		&includeCaptions,
		&statusStr,
		&filePath,
		&duration,
		&errorKind,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	reel := &Reel{
		ID:              id,
		Title:           title,
		Description:     description.String,
		Lang:            lang.String,
		Author:          author.String,
		MovieKey:        movieKey,
		NarrationKey:    narrationKey.String,
		MusicKey:        musicKey.String,
		SubtitlesKey:    subtitlesKey.String,
		IncludeCaptions: includeCaptions != 0,
		Status:          Status(statusStr),
		FilePath:        filePath.String,
		DurationSeconds: duration.Float64,
		ErrorMessage:    errorMessage.String,
	}
	reel.ErrorKind = services.Kind(errorKind.String)
	if musicVolume.Valid {
		v := musicVolume.Float64
		reel.MusicVolume = &v
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		reel.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		reel.UpdatedAt = updated
	}
	return reel, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", count), ",")
}
