package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"reelforge/internal/services"
	"reelforge/internal/tempfiles"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var (
		olderThan time.Duration
		listOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove scratch files left in the work directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			out := cmd.OutOrStdout()

			if listOnly {
				entries, err := tempfiles.List(cfg.Paths.WorkDir)
				if err != nil {
					return services.Wrap(services.ErrResource, "clean", "list work dir", "", err)
				}
				if len(entries) == 0 {
					fmt.Fprintln(out, "Work directory is empty")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					kind := "file"
					if entry.Dir {
						kind = "dir"
					}
					rows = append(rows, []string{
						entry.Name,
						kind,
						humanize.IBytes(uint64(entry.Size)),
						humanize.Time(entry.ModTime),
					})
				}
				return writeRows(out,
					[]string{"Name", "Kind", "Size", "Modified"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				)
			}

			if olderThan < 0 {
				return services.Wrap(services.ErrValidation, "clean", "parse flags", "--older-than must not be negative", nil)
			}
			result := tempfiles.CleanStale(cmd.Context(), cfg.Paths.WorkDir, olderThan, ctx.loggerValue())
			fmt.Fprintf(out, "Removed %d scratch entries from %s\n", len(result.Removed), cfg.Paths.WorkDir)
			for _, failure := range result.Errors {
				fmt.Fprintf(out, "  failed: %s: %v\n", failure.Path, failure.Error)
			}
			if len(result.Errors) > 0 {
				return services.Wrap(services.ErrResource, "clean", "remove scratch", fmt.Sprintf("%d entries could not be removed", len(result.Errors)), nil)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 6*time.Hour, "Only remove entries older than this")
	cmd.Flags().BoolVar(&listOnly, "list", false, "List work directory entries without removing anything")
	return cmd
}
