package main

import (
	"github.com/spf13/cobra"

	"reelforge/internal/captions"
	"reelforge/internal/preflight"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var (
		model      string
		language   string
		outputPath string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "transcribe <audio>",
		Short: "Transcribe an audio file and print SRT captions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if err := preflight.Require(cmd.Context(), cfg, preflight.Needs{Transcription: true}); err != nil {
				return err
			}
			audio, err := readInput(args[0], true)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("model") {
				model = cfg.Transcription.Model
			}
			if !cmd.Flags().Changed("language") {
				language = cfg.Transcription.Language
			}
			result, err := ctx.recognizer().Transcribe(cmd.Context(), audio, model, language)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, result)
			}
			return writeText(cmd, outputPath, captions.Generate(result))
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "Recognition model key (tiny, base, small, medium, turbo, large)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Spoken language (ISO code or synthesis code)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the SRT to this file instead of stdout")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the word-timed transcription as JSON")
	return cmd
}
