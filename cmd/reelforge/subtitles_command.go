package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelforge/internal/preflight"
)

func newSubtitlesCommand(ctx *commandContext) *cobra.Command {
	var (
		model      string
		language   string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "subtitles <audio-key>",
		Short: "Transcribe stored audio and upload transcription_<audio>.srt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if err := preflight.Require(cmd.Context(), cfg, preflight.Needs{Transcription: true}); err != nil {
				return err
			}
			if !cmd.Flags().Changed("model") {
				model = cfg.Transcription.Model
			}
			if !cmd.Flags().Changed("language") {
				language = cfg.Transcription.Language
			}
			svc, err := ctx.reelService(cmd.Context())
			if err != nil {
				return err
			}
			subs, err := svc.GenerateSubtitles(cmd.Context(), args[0], model, language)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, map[string]any{"key": subs.Key, "url": subs.URL, "cues": subs.Cues})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%d cues)\n%s\n", subs.Key, subs.Cues, subs.URL)
			return nil
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "Recognition model key")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Spoken language")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	return cmd
}
