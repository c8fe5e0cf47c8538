package main

import (
	"fmt"
	"strings"

	"reelforge/internal/deps"
	"reelforge/internal/preflight"
	"reelforge/internal/store"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const minStatusLabelWidth = 12

var statusKinds = map[statusKind]struct {
	label string
	color string
}{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

// statusRow is one labelled line of `reelforge status`.
type statusRow struct {
	label  string
	kind   statusKind
	detail string
}

// renderStatusSection renders a titled block with labels padded to the
// widest label in the block.
func renderStatusSection(title string, rows []statusRow, colorize bool) []string {
	header := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(header))
	if colorize {
		header = ansiBlue + header + ansiReset
		rule = ansiBlue + rule + ansiReset
	}

	width := minStatusLabelWidth
	for _, row := range rows {
		if n := len(row.label) + 1; n > width {
			width = n
		}
	}
	lines := []string{header, rule}
	for _, row := range rows {
		lines = append(lines, row.render(width, colorize))
	}
	return lines
}

func (r statusRow) render(width int, colorize bool) string {
	kind := statusKinds[r.kind]
	text := "[" + kind.label + "]"
	if r.detail != "" {
		text += " " + r.detail
	}
	line := fmt.Sprintf("  %-*s %s", width, r.label+":", text)
	if colorize {
		return kind.color + line + ansiReset
	}
	return line
}

func dependencyRow(status deps.Status) statusRow {
	switch {
	case status.Available:
		detail := status.Path
		if status.Version != "" {
			detail = status.Version
		}
		return statusRow{status.Name, statusOK, detail}
	case status.Optional:
		return statusRow{status.Name, statusWarn, status.Detail + " (" + status.Description + ")"}
	default:
		return statusRow{status.Name, statusError, status.Detail + " (" + status.Description + ")"}
	}
}

func checkRow(result preflight.Result) statusRow {
	if result.Passed {
		return statusRow{result.Name, statusOK, result.Detail}
	}
	return statusRow{result.Name, statusError, result.Detail}
}

// reelCountRow flags reels needing attention: failures warn, rejections
// are informational since the input was at fault.
func reelCountRow(status store.Status, count int) statusRow {
	label := strings.ToUpper(string(status[:1])) + string(status[1:])
	kind := statusInfo
	switch {
	case status == store.StatusFailed && count > 0:
		kind = statusWarn
	case status == store.StatusCompleted && count > 0:
		kind = statusOK
	}
	return statusRow{label, kind, fmt.Sprintf("%d", count)}
}
