package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"reelforge/internal/config"
	"reelforge/internal/fileutil"
	"reelforge/internal/preflight"
	"reelforge/internal/render"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var (
		moviePath     string
		narrationPath string
		musicPath     string
		subtitlesPath string
		musicVolume   float64
		withCaptions  bool
		outputPath    string
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a reel from local files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if err := preflight.Require(cmd.Context(), cfg, preflight.Needs{Captions: withCaptions}); err != nil {
				return err
			}

			req := render.Request{IncludeCaptions: withCaptions}
			var err error
			if req.Movie, err = readInput(moviePath, true); err != nil {
				return err
			}
			if req.Narration, err = readInput(narrationPath, false); err != nil {
				return err
			}
			if req.Music, err = readInput(musicPath, false); err != nil {
				return err
			}
			if req.Subtitles, err = readInput(subtitlesPath, false); err != nil {
				return err
			}
			if cmd.Flags().Changed("music-volume") {
				req.MusicVolume = render.Volume(musicVolume)
			}

			composer, err := ctx.composer(withCaptions)
			if err != nil {
				return err
			}
			out, err := composer.Compose(cmd.Context(), req)
			if err != nil {
				return err
			}

			if target := strings.TrimSpace(outputPath); target != "" {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
				if err := fileutil.Move(out.Path, expanded); err != nil {
					return err
				}
				out.Path = expanded
			}

			if jsonOutput {
				return writeJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Output:    %s\n", out.Path)
			fmt.Fprintf(w, "Duration:  %.3fs\n", out.DurationSeconds)
			fmt.Fprintf(w, "Captioned: %s\n", yesNo(out.Captioned))
			fmt.Fprintf(w, "Audio:     %s\n", yesNo(out.HasAudio))
			return nil
		},
	}

	cmd.Flags().StringVar(&moviePath, "movie", "", "Background video file (required)")
	cmd.Flags().StringVar(&narrationPath, "narration", "", "Narration audio file")
	cmd.Flags().StringVar(&musicPath, "music", "", "Background music file")
	cmd.Flags().Float64Var(&musicVolume, "music-volume", render.DefaultMusicVolume, "Music volume between 0 and 1")
	cmd.Flags().StringVar(&subtitlesPath, "subtitles", "", "SRT file for captions")
	cmd.Flags().BoolVar(&withCaptions, "captions", false, "Overlay captions from --subtitles")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Move the rendered file to this path")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("movie")
	return cmd
}

// readInput returns nil for an empty optional path.
func readInput(path string, required bool) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		if required {
			return nil, fmt.Errorf("input path is required")
		}
		return nil, nil
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
