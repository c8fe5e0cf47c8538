package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reelforge/internal/catalog"
	"reelforge/internal/preflight"
	"reelforge/internal/reels"
	"reelforge/internal/render"
	"reelforge/internal/services"
	"reelforge/internal/store"
)

func newReelCommand(ctx *commandContext) *cobra.Command {
	reelCmd := &cobra.Command{
		Use:   "reel",
		Short: "Create and manage stored reels",
	}
	reelCmd.AddCommand(newReelCreateCommand(ctx, false))
	reelCmd.AddCommand(newReelCreateCommand(ctx, true))
	reelCmd.AddCommand(newReelListCommand(ctx))
	reelCmd.AddCommand(newReelShowCommand(ctx))
	reelCmd.AddCommand(newReelDeleteCommand(ctx))
	return reelCmd
}

type reelView struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Lang            string   `json:"lang,omitempty"`
	Author          string   `json:"author,omitempty"`
	Status          string   `json:"status"`
	MovieKey        string   `json:"movie_key"`
	NarrationKey    string   `json:"narration_key,omitempty"`
	MusicKey        string   `json:"music_key,omitempty"`
	SubtitlesKey    string   `json:"subtitles_key,omitempty"`
	MusicVolume     *float64 `json:"music_volume,omitempty"`
	IncludeCaptions bool     `json:"include_captions"`
	FilePath        string   `json:"file_path,omitempty"`
	DurationSeconds float64  `json:"duration_seconds,omitempty"`
	ErrorKind       string   `json:"error_kind,omitempty"`
	ErrorMessage    string   `json:"error_message,omitempty"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

func newReelView(r *store.Reel) reelView {
	return reelView{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		Lang:            r.Lang,
		Author:          r.Author,
		Status:          string(r.Status),
		MovieKey:        r.MovieKey,
		NarrationKey:    r.NarrationKey,
		MusicKey:        r.MusicKey,
		SubtitlesKey:    r.SubtitlesKey,
		MusicVolume:     r.MusicVolume,
		IncludeCaptions: r.IncludeCaptions,
		FilePath:        r.FilePath,
		DurationSeconds: r.DurationSeconds,
		ErrorKind:       string(r.ErrorKind),
		ErrorMessage:    r.ErrorMessage,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
	}
}

func newReelCreateCommand(ctx *commandContext, async bool) *cobra.Command {
	var (
		req        reels.CreateRequest
		volume     float64
		jsonOutput bool
	)
	use, short := "create", "Render a reel from stored inputs and wait for it"
	if async {
		use, short = "enqueue", "Record a reel and return before its render finishes"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Lang != "" {
				lang, err := catalog.LanguageByCode(req.Lang)
				if err != nil {
					return services.Wrap(services.ErrValidation, "reel", "resolve language", "", err)
				}
				req.Lang = lang.Code
			}
			if cmd.Flags().Changed("music-volume") {
				req.MusicVolume = render.Volume(volume)
			}
			if err := preflight.Require(cmd.Context(), ctx.configValue(), preflight.Needs{Captions: req.IncludeCaptions}); err != nil {
				return err
			}
			svc, err := ctx.reelService(cmd.Context())
			if err != nil {
				return err
			}

			var reel *store.Reel
			if async {
				pending, job, err := svc.Enqueue(cmd.Context(), req)
				if err != nil {
					return err
				}
				// The pool is drained when the command exits.
				fmt.Fprintf(cmd.ErrOrStderr(), "Reel %d queued as job %s\n", pending.ID, job.ID)
				reel = pending
			} else {
				var renderErr error
				reel, renderErr = svc.Create(cmd.Context(), req)
				if reel == nil {
					return renderErr
				}
				if renderErr != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Reel %d %s\n", reel.ID, reel.Status)
					return renderErr
				}
			}
			if jsonOutput {
				return writeJSON(cmd, newReelView(reel))
			}
			printReel(cmd, reel)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Title, "title", "", "Reel title (required)")
	cmd.Flags().StringVar(&req.Description, "description", "", "Reel description")
	cmd.Flags().StringVar(&req.Lang, "lang", "", "Narration language code")
	cmd.Flags().StringVar(&req.Author, "author", "", "Author recorded with the reel")
	cmd.Flags().StringVar(&req.MovieKey, "movie", "", "Storage key of the background video (required)")
	cmd.Flags().StringVar(&req.NarrationKey, "narration", "", "Storage key of the narration audio")
	cmd.Flags().StringVar(&req.MusicKey, "music", "", "Storage key of the background music")
	cmd.Flags().StringVar(&req.SubtitlesKey, "subtitles", "", "Storage key of the SRT captions")
	cmd.Flags().Float64Var(&volume, "music-volume", render.DefaultMusicVolume, "Music volume between 0 and 1")
	cmd.Flags().BoolVar(&req.IncludeCaptions, "captions", false, "Overlay captions from --subtitles")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the reel as JSON")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("movie")
	return cmd
}

func newReelListCommand(ctx *commandContext) *cobra.Command {
	var (
		author     string
		statuses   []string
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reels, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := store.Filter{Author: author, Limit: limit}
			for _, value := range statuses {
				status, ok := store.ParseStatus(strings.ToLower(strings.TrimSpace(value)))
				if !ok {
					return services.Wrap(services.ErrValidation, "reel", "list", fmt.Sprintf("unknown status %q", value), nil)
				}
				filter.Statuses = append(filter.Statuses, status)
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			list, err := st.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if jsonOutput {
				views := make([]reelView, 0, len(list))
				for _, r := range list {
					views = append(views, newReelView(r))
				}
				return writeJSON(cmd, views)
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No reels")
				return nil
			}
			rows := make([][]string, 0, len(list))
			for _, r := range list {
				rows = append(rows, []string{
					strconv.FormatInt(r.ID, 10),
					r.Title,
					r.Author,
					string(r.Status),
					formatDuration(r.DurationSeconds),
					r.CreatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			return writeRows(cmd.OutOrStdout(),
				[]string{"ID", "Title", "Author", "Status", "Duration", "Created"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			)
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "Only reels by this author")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Only reels in these statuses")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of reels")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the reels as JSON")
	return cmd
}

func newReelShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one reel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseReelID(args[0])
			if err != nil {
				return err
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			reel, err := st.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, newReelView(reel))
			}
			printReel(cmd, reel)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the reel as JSON")
	return cmd
}

func newReelDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reel and its rendered file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseReelID(args[0])
			if err != nil {
				return err
			}
			svc, err := ctx.reelService(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted reel %d\n", id)
			return nil
		},
	}
}

func parseReelID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, services.Wrap(services.ErrValidation, "reel", "parse id", fmt.Sprintf("invalid reel id %q", value), nil)
	}
	return id, nil
}

func printReel(cmd *cobra.Command, r *store.Reel) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Reel %d: %s\n", r.ID, r.Title)
	fmt.Fprintf(w, "  Status:    %s\n", r.Status)
	if r.Author != "" {
		fmt.Fprintf(w, "  Author:    %s\n", r.Author)
	}
	if r.Lang != "" {
		fmt.Fprintf(w, "  Language:  %s\n", r.Lang)
	}
	fmt.Fprintf(w, "  Movie:     %s\n", r.MovieKey)
	if r.NarrationKey != "" {
		fmt.Fprintf(w, "  Narration: %s\n", r.NarrationKey)
	}
	if r.MusicKey != "" {
		fmt.Fprintf(w, "  Music:     %s\n", r.MusicKey)
	}
	if r.SubtitlesKey != "" {
		fmt.Fprintf(w, "  Subtitles: %s (captions %s)\n", r.SubtitlesKey, yesNo(r.IncludeCaptions))
	}
	if r.FilePath != "" {
		fmt.Fprintf(w, "  File:      %s\n", r.FilePath)
		fmt.Fprintf(w, "  Duration:  %s\n", formatDuration(r.DurationSeconds))
	}
	if r.ErrorMessage != "" {
		fmt.Fprintf(w, "  Error:     [%s] %s\n", r.ErrorKind, r.ErrorMessage)
	}
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	return (time.Duration(seconds * float64(time.Second))).Round(100 * time.Millisecond).String()
}
