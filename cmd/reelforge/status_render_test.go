package main

import (
	"strings"
	"testing"

	"reelforge/internal/deps"
	"reelforge/internal/store"
)

func TestRenderStatusSectionAlignsToWidestLabel(t *testing.T) {
	rows := []statusRow{
		{"ffmpeg", statusOK, "7.1"},
		{"Storage directory", statusError, "missing"},
	}
	lines := renderStatusSection("Paths", rows, false)
	if lines[0] != "== Paths ==" || lines[1] != strings.Repeat("-", len("== Paths ==")) {
		t.Fatalf("unexpected header: %q", lines[:2])
	}
	first := strings.Index(lines[2], "[OK]")
	second := strings.Index(lines[3], "[ERROR]")
	if first < 0 || first != second {
		t.Fatalf("expected aligned status columns, got %q", lines[2:])
	}
	if !strings.HasPrefix(lines[3], "  Storage directory: ") {
		t.Fatalf("unexpected row: %q", lines[3])
	}
}

func TestRenderStatusSectionColorizes(t *testing.T) {
	lines := renderStatusSection("Reels", []statusRow{{"Failed", statusWarn, "2"}}, true)
	if !strings.HasPrefix(lines[2], ansiYellow) || !strings.HasSuffix(lines[2], ansiReset) {
		t.Fatalf("expected colored row, got %q", lines[2])
	}
}

func TestDependencyRowKinds(t *testing.T) {
	tests := []struct {
		name   string
		status deps.Status
		kind   statusKind
		detail string
	}{
		{"available with version", deps.Status{Name: "ffmpeg", Available: true, Path: "/usr/bin/ffmpeg", Version: "7.1"}, statusOK, "7.1"},
		{"available without version", deps.Status{Name: "ffprobe", Available: true, Path: "/usr/bin/ffprobe"}, statusOK, "/usr/bin/ffprobe"},
		{"optional missing", deps.Status{Name: "whisper", Optional: true, Detail: "not found", Description: "transcription"}, statusWarn, "not found (transcription)"},
		{"required missing", deps.Status{Name: "ffmpeg", Detail: "not found", Description: "encoding"}, statusError, "not found (encoding)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := dependencyRow(tt.status)
			if row.kind != tt.kind || row.detail != tt.detail {
				t.Fatalf("got %+v, want kind %d detail %q", row, tt.kind, tt.detail)
			}
		})
	}
}

func TestReelCountRow(t *testing.T) {
	tests := []struct {
		status store.Status
		count  int
		label  string
		kind   statusKind
	}{
		{store.StatusPending, 3, "Pending", statusInfo},
		{store.StatusFailed, 0, "Failed", statusInfo},
		{store.StatusFailed, 1, "Failed", statusWarn},
		{store.StatusCompleted, 4, "Completed", statusOK},
	}
	for _, tt := range tests {
		row := reelCountRow(tt.status, tt.count)
		if row.label != tt.label || row.kind != tt.kind {
			t.Fatalf("reelCountRow(%s, %d) = %+v", tt.status, tt.count, row)
		}
	}
}
