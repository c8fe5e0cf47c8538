package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"reelforge/internal/config"
	"reelforge/internal/media/ffprobe"
)

type probeSummary struct {
	Path            string  `json:"path"`
	DurationSeconds float64 `json:"duration_seconds"`
	Width           int     `json:"width,omitempty"`
	Height          int     `json:"height,omitempty"`
	FPS             float64 `json:"fps,omitempty"`
	HasAudio        bool    `json:"has_audio"`
	Format          string  `json:"format"`
}

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "probe <file>",
		Short: "Report duration and streams of a media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			result, err := ffprobe.Inspect(cmd.Context(), ctx.configValue().FFprobeBinary(), path)
			if err != nil {
				return err
			}
			summary := summarizeProbe(path, result)
			if jsonOutput {
				return writeJSON(cmd, summary)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "File:     %s\n", summary.Path)
			fmt.Fprintf(w, "Format:   %s\n", summary.Format)
			fmt.Fprintf(w, "Duration: %.3fs\n", summary.DurationSeconds)
			if summary.Width > 0 {
				fmt.Fprintf(w, "Video:    %dx%d @ %.2f fps\n", summary.Width, summary.Height, summary.FPS)
			} else {
				fmt.Fprintln(w, "Video:    none")
			}
			fmt.Fprintf(w, "Audio:    %s\n", yesNo(summary.HasAudio))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	return cmd
}

func summarizeProbe(path string, result ffprobe.Result) probeSummary {
	summary := probeSummary{
		Path:            path,
		DurationSeconds: result.DurationSeconds(),
		HasAudio:        result.HasAudio(),
		Format:          result.Format.FormatName,
	}
	if math.IsNaN(summary.DurationSeconds) {
		summary.DurationSeconds = 0
	}
	if video, ok := result.VideoStream(); ok {
		summary.Width = video.Width
		summary.Height = video.Height
		summary.FPS = video.FramesPerSecond()
	}
	return summary
}
