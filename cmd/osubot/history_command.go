package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"osubot/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the processed-post history",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryCountsCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))

	return historyCmd
}

func openHistory(cmd *cobra.Command, ctx *commandContext) (*history.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cmd.Context(), cfg.Paths.HistoryDB)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List processed posts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(cmd, ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if ctx.wantJSON(cmd) {
				return writeJSON(cmd, entries)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No processed posts")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, historyRow(entry))
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Post", "Status", "Player", "Beatmap", "Mods", "Degraded", "Processed"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show (0 for all)")
	return cmd
}

func historyRow(entry history.Entry) []string {
	status := entry.Status
	if entry.SkipReason != "" {
		status += ": " + entry.SkipReason
	}
	beatmap := ""
	if entry.BeatmapID > 0 {
		beatmap = strconv.Itoa(entry.BeatmapID)
	}
	degraded := ""
	if entry.Status == history.StatusResolved {
		degraded = yesNo(entry.Degraded)
	}
	return []string{
		entry.PostID,
		status,
		entry.Player,
		beatmap,
		entry.Mods,
		degraded,
		entry.ProcessedAt.Local().Format("2006-01-02 15:04"),
	}
}

func newHistoryCountsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Show processed-post counts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(cmd, ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			counts, err := store.Counts(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.wantJSON(cmd) {
				return writeJSON(cmd, counts)
			}
			statuses := make([]string, 0, len(counts))
			for status := range counts {
				statuses = append(statuses, status)
			}
			sort.Strings(statuses)
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				rows = append(rows, []string{status, strconv.Itoa(counts[status])})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Status", "Count"}, rows,
				[]columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget every processed post so the next batch reprocesses them",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(cmd, ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d history entries\n", removed)
			return nil
		},
	}
}
