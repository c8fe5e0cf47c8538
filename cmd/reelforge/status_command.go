package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelforge/internal/config"
	"reelforge/internal/preflight"
	"reelforge/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show dependency, directory and reel status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			out := cmd.OutOrStdout()
			colorize := isTerminal(out)

			var depRows []statusRow
			for _, status := range preflight.CheckSystemDeps(cmd.Context(), cfg) {
				depRows = append(depRows, dependencyRow(status))
			}
			var pathRows []statusRow
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				pathRows = append(pathRows, checkRow(result))
			}
			pathRows = append(pathRows, storageRow(cfg))

			var lines []string
			lines = append(lines, renderStatusSection("Dependencies", depRows, colorize)...)
			lines = append(lines, "")
			lines = append(lines, renderStatusSection("Paths", pathRows, colorize)...)
			lines = append(lines, "")
			lines = append(lines, renderStatusSection("Reels", reelRows(cmd, ctx), colorize)...)

			_, err := fmt.Fprintln(out, strings.Join(lines, "\n"))
			return err
		},
	}
}

func storageRow(cfg *config.Config) statusRow {
	switch cfg.Storage.Backend {
	case config.StorageBackendGCS:
		return statusRow{"Storage backend", statusInfo, fmt.Sprintf("gcs bucket %s", cfg.Storage.Bucket)}
	default:
		return statusRow{"Storage backend", statusInfo, fmt.Sprintf("local %s", cfg.Storage.LocalDir)}
	}
}

func reelRows(cmd *cobra.Command, ctx *commandContext) []statusRow {
	st, err := ctx.openStore()
	if err != nil {
		return []statusRow{{"Database", statusError, err.Error()}}
	}
	counts, err := st.CountByStatus(cmd.Context())
	if err != nil {
		return []statusRow{{"Database", statusError, err.Error()}}
	}
	rows := []statusRow{{"Database", statusOK, st.Path()}}
	for _, status := range store.AllStatuses() {
		rows = append(rows, reelCountRow(status, counts[status]))
	}
	return rows
}
