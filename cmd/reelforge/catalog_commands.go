package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"reelforge/internal/catalog"
	"reelforge/internal/services"
)

func newCatalogCommand() *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:         "catalog",
		Short:       "List narration voices, languages and recognition models",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}
	catalogCmd.AddCommand(newCatalogVoicesCommand())
	catalogCmd.AddCommand(newCatalogLanguagesCommand())
	catalogCmd.AddCommand(newCatalogModelsCommand())
	return catalogCmd
}

func newCatalogVoicesCommand() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "voices",
		Short: "List narration voices",
		RunE: func(cmd *cobra.Command, args []string) error {
			voices := catalog.Voices()
			if lang != "" {
				language, err := catalog.LanguageByCode(lang)
				if err != nil {
					return services.Wrap(services.ErrValidation, "catalog", "voices", "", err)
				}
				voices = catalog.VoicesForLanguage(language.Code)
			}
			rows := make([][]string, 0, len(voices))
			for _, v := range voices {
				rows = append(rows, []string{strconv.Itoa(v.ID), v.Key, v.DisplayName(), v.Language, v.Accent, v.Gender})
			}
			return writeRows(cmd.OutOrStdout(),
				[]string{"ID", "Key", "Name", "Lang", "Accent", "Gender"},
				rows,
				[]columnAlignment{alignRight},
			)
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "Only voices for this language")
	return cmd
}

func newCatalogLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		RunE: func(cmd *cobra.Command, args []string) error {
			langs := catalog.Languages()
			rows := make([][]string, 0, len(langs))
			for _, l := range langs {
				rows = append(rows, []string{l.Code, l.ISO(), l.Name, yesNo(l.Synthesis)})
			}
			return writeRows(cmd.OutOrStdout(), []string{"Code", "ISO", "Name", "Voices"}, rows, nil)
		},
	}
}

func newCatalogModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List speech recognition models",
		RunE: func(cmd *cobra.Command, args []string) error {
			models := catalog.Models()
			rows := make([][]string, 0, len(models))
			for _, m := range models {
				rows = append(rows, []string{strconv.Itoa(m.ID), m.Key, m.Engine, m.Description})
			}
			return writeRows(cmd.OutOrStdout(),
				[]string{"ID", "Key", "Engine", "Description"},
				rows,
				[]columnAlignment{alignRight},
			)
		},
	}
}
