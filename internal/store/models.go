package store

import (
	"errors"
	"time"

	"reelforge/internal/services"
)

// Status represents the lifecycle of a reel record.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRendering Status = "rendering"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRejected  Status = "rejected"
)

var allStatuses = []Status{
	StatusPending,
	StatusRendering,
	StatusCompleted,
	StatusFailed,
	StatusRejected,
}

// AllStatuses returns every known status in lifecycle order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus returns the status matching value.
func ParseStatus(value string) (Status, bool) {
	for _, status := range allStatuses {
		if string(status) == value {
			return status, true
		}
	}
	return "", false
}

// Terminal reports whether no further transitions are expected.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusRejected
}

// ErrNotFound reports a missing reel record.
var ErrNotFound = errors.New("reel not found")

// Reel is a persisted reel record.
type Reel struct {
	ID              int64
	Title           string
	Description     string
	Lang            string
	Author          string
	MovieKey        string
	NarrationKey    string
	MusicKey        string
	SubtitlesKey    string
	MusicVolume     *float64
	IncludeCaptions bool
	Status          Status
	FilePath        string
	DurationSeconds float64
	ErrorKind       services.Kind
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewReel carries the caller-supplied fields of a reel record.
type NewReel struct {
	Title           string
	Description     string
	Lang            string
	Author          string
	MovieKey        string
	NarrationKey    string
	MusicKey        string
	SubtitlesKey    string
	MusicVolume     *float64
	IncludeCaptions bool
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Author   string
	Statuses []Status
	Limit    int
}

// FailureStatus maps a render error onto the terminal status it earns:
// rejected for caller input problems, failed otherwise.
func FailureStatus(err error) Status {
	switch services.Classify(err) {
	case services.KindInvalidInput, services.KindNotFound:
		return StatusRejected
	default:
		return StatusFailed
	}
}
