package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"osubot/internal/deps"
	"osubot/internal/preflight"
)

type depsReport struct {
	Binaries []deps.Status      `json:"binaries"`
	Checks   []preflight.Result `json:"checks"`
}

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check the calculator binary, directories, and osu! API access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report := depsReport{Binaries: preflight.CheckSystemDeps(cfg)}
			if offline {
				report.Checks = []preflight.Result{
					preflight.CheckDirectoryAccess("Chart work directory", cfg.Paths.WorkDir),
					preflight.CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
				}
			} else {
				report.Checks = preflight.RunAll(cmd.Context(), cfg)
			}

			if ctx.wantJSON(cmd) {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), renderDepsReport(report))
			}

			var problems []string
			if deps.MissingRequired(report.Binaries) {
				problems = append(problems, "required binaries missing")
			}
			if preflight.Failed(report.Checks) {
				problems = append(problems, "preflight checks failed")
			}
			if len(problems) > 0 {
				return errors.New(strings.Join(problems, "; "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the osu! API probe")
	return cmd
}

func renderDepsReport(report depsReport) string {
	var b strings.Builder
	rows := make([][]string, 0, len(report.Binaries))
	for _, status := range report.Binaries {
		detail := status.Path
		if !status.Available {
			detail = status.Detail
		}
		rows = append(rows, []string{status.Name, status.Command, yesNo(status.Available), detail})
	}
	b.WriteString(renderTable([]string{"Dependency", "Command", "Available", "Detail"}, rows, nil))
	b.WriteString("\n")

	rows = rows[:0]
	for _, result := range report.Checks {
		rows = append(rows, []string{result.Name, yesNo(result.Passed), result.Detail})
	}
	b.WriteString(renderTable([]string{"Check", "Passed", "Detail"}, rows, nil))
	b.WriteString("\n")
	return b.String()
}
