package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"osubot/internal/pipeline"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var isSelf bool
	var postID string

	cmd := &cobra.Command{
		Use:   "resolve <title>",
		Short: "Resolve a single score-post title",
		Long: "Resolve a score-post title such as \"Cookiezi | xi - FREEDOM DiVE [FOUR DIMENSIONS] +HDHR\"\n" +
			"into the player, chart, mods, difficulty, and pp estimates. Nothing is recorded in history.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.buildApp()
			if err != nil {
				return err
			}
			post := pipeline.Post{
				ID:     strings.TrimSpace(postID),
				Title:  strings.Join(args, " "),
				IsSelf: isSelf,
			}
			outcome := app.pipeline.ResolvePost(cmd.Context(), post)

			if ctx.wantJSON(cmd) {
				if err := writeJSON(cmd, outcome); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), renderOutcome(outcome, app.cfg.Osu.WebURL))
			}
			if !outcome.Resolved() {
				return fmt.Errorf("post not resolved: %s", outcome.Skip)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&isSelf, "self", false, "Treat the title as a self post (always skipped)")
	cmd.Flags().StringVar(&postID, "id", "", "Post identifier to attach to logs")
	return cmd
}
