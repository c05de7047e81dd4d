package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"osubot/internal/history"
	"osubot/internal/logging"
	"osubot/internal/notifications"
	"osubot/internal/pipeline"
	"osubot/internal/preflight"
	"osubot/internal/textutil"
)

const maxInputLine = 64 * 1024

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var inputPath string
	var noHistory bool
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Resolve a batch of posts, skipping ones already processed",
		Long: "Read posts from --input (or stdin) and resolve them sequentially.\n" +
			"Each line is either a JSON object {\"id\", \"title\", \"is_self\"} or a plain title;\n" +
			"plain titles get an id derived from the title text. Outcomes are recorded in the\n" +
			"history database so reruns skip posts that were already processed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.buildApp()
			if err != nil {
				return err
			}

			lock := flock.New(app.cfg.LockPath())
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire batch lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another batch is running (lock %s)", app.cfg.LockPath())
			}
			defer func() { _ = lock.Unlock() }()

			notifier := notifications.NewService(app.cfg)
			if !skipPreflight {
				if err := runBatchPreflight(cmd, ctx); err != nil {
					notifyBatchError(cmd, app, notifier, err)
					return err
				}
			}

			posts, err := readPosts(cmd, inputPath)
			if err != nil {
				return err
			}

			var hist pipeline.History
			if !noHistory {
				store, err := history.Open(cmd.Context(), app.cfg.Paths.HistoryDB)
				if err != nil {
					return fmt.Errorf("open history: %w", err)
				}
				defer store.Close()
				hist = store
			}

			started := time.Now()
			summary := app.pipeline.RunBatch(cmd.Context(), posts, hist)
			if err := notifier.NotifyBatchCompleted(cmd.Context(), notifications.BatchReport{
				Attempted:        summary.Attempted,
				Resolved:         summary.Resolved,
				Skipped:          summary.Skipped,
				Degraded:         summary.Degraded,
				AlreadyProcessed: summary.AlreadyProcessed,
				Duration:         time.Since(started),
			}); err != nil {
				logging.WarnWithContext(app.logger, "batch notification failed", "notification_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "batch summary not delivered"),
				)
			}
			if ctx.wantJSON(cmd) {
				if err := writeJSON(cmd, summary); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), renderSummary(summary))
			}
			return cmd.Context().Err()
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "-", "Input file of posts, one per line (- for stdin)")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not consult or update the processed-post history")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip calculator, directory, and API checks")
	return cmd
}

func notifyBatchError(cmd *cobra.Command, a *app, notifier notifications.Service, cause error) {
	if err := notifier.NotifyError(cmd.Context(), cause, "batch"); err != nil {
		logging.WarnWithContext(a.logger, "error notification failed", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "preflight failure not delivered"),
		)
	}
}

func runBatchPreflight(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	var problems []string
	for _, status := range preflight.CheckSystemDeps(cfg) {
		if !status.Available && !status.Optional {
			problems = append(problems, fmt.Sprintf("%s: %s", status.Name, status.Detail))
		}
	}
	for _, result := range preflight.RunAll(cmd.Context(), cfg) {
		if !result.Passed {
			problems = append(problems, fmt.Sprintf("%s: %s", result.Name, result.Detail))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("preflight failed (use --skip-preflight to bypass):\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

func readPosts(cmd *cobra.Command, path string) ([]pipeline.Post, error) {
	var reader io.Reader = cmd.InOrStdin()
	if path != "" && path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer file.Close()
		reader = file
	}
	return parsePosts(reader)
}

func parsePosts(reader io.Reader) ([]pipeline.Post, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 4096), maxInputLine)

	var posts []pipeline.Post
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, "{") {
			posts = append(posts, pipeline.Post{ID: textutil.SanitizeToken(line), Title: line})
			continue
		}
		var post pipeline.Post
		if err := json.Unmarshal([]byte(line), &post); err != nil {
			return nil, fmt.Errorf("input line %d: %w", lineNo, err)
		}
		if strings.TrimSpace(post.Title) == "" {
			return nil, fmt.Errorf("input line %d: title is required", lineNo)
		}
		if strings.TrimSpace(post.ID) == "" {
			post.ID = textutil.SanitizeToken(post.Title)
		}
		posts = append(posts, post)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return posts, nil
}

func renderSummary(summary pipeline.Summary) string {
	var b strings.Builder
	if len(summary.Outcomes) > 0 {
		rows := make([][]string, 0, len(summary.Outcomes))
		for _, outcome := range summary.Outcomes {
			rows = append(rows, outcomeRow(outcome))
		}
		b.WriteString(renderTable([]string{"Post", "Result", "Beatmap", "Mods"}, rows, nil))
		b.WriteString("\n")
	}
	b.WriteString(renderPairs([][2]string{
		{"Attempted", strconv.Itoa(summary.Attempted)},
		{"Resolved", strconv.Itoa(summary.Resolved)},
		{"Degraded", strconv.Itoa(summary.Degraded)},
		{"Skipped", strconv.Itoa(summary.Skipped)},
		{"Already processed", strconv.Itoa(summary.AlreadyProcessed)},
		{"API requests", textutil.FormatNumber(summary.APIRequests)},
	}))
	b.WriteString("\n")
	return b.String()
}

func outcomeRow(outcome pipeline.Outcome) []string {
	if !outcome.Resolved() {
		return []string{outcome.PostID, "skipped: " + string(outcome.Skip), "", ""}
	}
	result := "resolved"
	if outcome.Score.Degraded {
		result = "resolved (degraded)"
	}
	return []string{outcome.PostID, result, outcome.Score.Beatmap.DisplayName(), modsLabel(outcome.Score)}
}
