package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"reelforge/internal/captions"
	"reelforge/internal/services"
)

func newSRTCommand() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:         "srt <transcription.json>",
		Short:       "Convert a word-timed transcription to SRT",
		Long:        "Reads a transcription JSON document (segments with timed words) and writes one SRT cue per word followed by a terminal \"end\" cue. Use - to read stdin.",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read transcription: %w", err)
			}
			var transcription captions.Transcription
			if err := json.Unmarshal(data, &transcription); err != nil {
				return services.Wrap(services.ErrValidation, "srt", "decode transcription", "", err)
			}
			if err := transcription.Validate(); err != nil {
				return services.Wrap(services.ErrValidation, "srt", "check transcription", "", err)
			}
			return writeText(cmd, outputPath, captions.Generate(transcription))
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the SRT to this file instead of stdout")
	return cmd
}
