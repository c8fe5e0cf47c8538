package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"reelforge/internal/config"
	"reelforge/internal/services"
)

// Store manages reel persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the reel database at cfg.Paths.DatabasePath.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.Paths.DatabasePath)
}

// OpenPath opens the database file at dbPath.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Create inserts a pending reel record.
func (s *Store) Create(ctx context.Context, in NewReel) (*Reel, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "create reel", "title is required", nil)
	}
	if strings.TrimSpace(in.MovieKey) == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "create reel", "movie key is required", nil)
	}
	now := timestamp()
	res, err := s.execWithRetry(ctx,
		`INSERT INTO reels (
            title, description, lang, author, movie_key, narration_key, music_key,
            subtitles_key, music_volume, include_captions, status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Title,
		nullableString(in.Description),
		nullableString(in.Lang),
		nullableString(in.Author),
		in.MovieKey,
		nullableString(in.NarrationKey),
		nullableString(in.MusicKey),
		nullableString(in.SubtitlesKey),
		nullableFloat(in.MusicVolume),
		boolToInt(in.IncludeCaptions),
		StatusPending,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reel: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	// The row is committed; reading it back must not depend on ctx.
	return s.Get(context.WithoutCancel(ctx), id)
}

// Get fetches a reel by ID.
func (s *Store) Get(ctx context.Context, id int64) (*Reel, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+reelColumns+" FROM reels WHERE id = ?", id)
	reel, err := scanReel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get reel %d: %w", id, err)
	}
	return reel, nil
}

// List returns reels matching filter, newest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]*Reel, error) {
	var (
		clauses []string
		args    []any
	)
	if author := strings.TrimSpace(filter.Author); author != "" {
		clauses = append(clauses, "author = ?")
		args = append(args, author)
	}
	if len(filter.Statuses) > 0 {
		clauses = append(clauses, "status IN ("+makePlaceholders(len(filter.Statuses))+")")
		for _, status := range filter.Statuses {
			args = append(args, string(status))
		}
	}
	query := "SELECT " + reelColumns + " FROM reels"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reels: %w", err)
	}
	defer rows.Close()

	var reels []*Reel
	for rows.Next() {
		reel, err := scanReel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reel: %w", err)
		}
		reels = append(reels, reel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reels: %w", err)
	}
	return reels, nil
}

// MarkRendering moves a pending reel into rendering.
func (s *Store) MarkRendering(ctx context.Context, id int64) error {
	return s.transition(ctx, id, []Status{StatusPending}, "status = ?", StatusRendering)
}

// Complete records the rendered output of a reel.
func (s *Store) Complete(ctx context.Context, id int64, filePath string, durationSeconds float64) error {
	return s.transition(ctx, id, []Status{StatusPending, StatusRendering},
		"status = ?, file_path = ?, duration_seconds = ?, error_kind = NULL, error_message = NULL",
		StatusCompleted, filePath, durationSeconds)
}

// Fail records a render failure. The status comes from FailureStatus.
func (s *Store) Fail(ctx context.Context, id int64, cause error) error {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	return s.transition(ctx, id, []Status{StatusPending, StatusRendering},
		"status = ?, error_kind = ?, error_message = ?",
		FailureStatus(cause), nullableString(string(services.Classify(cause))), nullableString(message))
}

// Delete removes a reel record.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM reels WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete reel %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return s.notFound(id)
	}
	return nil
}

// CountByStatus returns the number of reels in each status.
func (s *Store) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(1) FROM reels GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count reels: %w", err)
	}
	defer rows.Close()
	counts := make(map[Status]int, len(allStatuses))
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[Status(status)] = count
	}
	return counts, rows.Err()
}

func (s *Store) transition(ctx context.Context, id int64, from []Status, set string, args ...any) error {
	query := "UPDATE reels SET " + set + ", updated_at = ? WHERE id = ? AND status IN (" + makePlaceholders(len(from)) + ")"
	args = append(args, timestamp(), id)
	for _, status := range from {
		args = append(args, string(status))
	}
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update reel %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update reel %d: %w", id, err)
	}
	if n > 0 {
		return nil
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return services.Wrap(services.ErrValidation, "store", "update reel",
		fmt.Sprintf("reel %d is %s", id, current.Status), nil)
}

func (s *Store) notFound(id int64) error {
	return services.Wrap(services.ErrNotFound, "store", "get reel", fmt.Sprintf("reel %d", id), ErrNotFound)
}
