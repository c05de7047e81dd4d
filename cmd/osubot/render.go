package main

import (
	"fmt"
	"strconv"
	"strings"

	"osubot/internal/difficulty"
	"osubot/internal/osu"
	"osubot/internal/pipeline"
	"osubot/internal/textutil"
)

func renderOutcome(outcome pipeline.Outcome, webURL string) string {
	if !outcome.Resolved() {
		line := fmt.Sprintf("Skipped: %s", outcome.Skip)
		if outcome.Detail != "" {
			line += fmt.Sprintf(" (%s)", outcome.Detail)
		}
		return line + "\n"
	}

	score := outcome.Score
	var b strings.Builder
	b.WriteString(renderPairs(scorePairs(score, webURL)))
	b.WriteString("\n")
	if table := renderPerformance(score.NomodPP, score.ModdedPP); table != "" {
		b.WriteString(table)
		b.WriteString("\n")
	}
	if score.Degraded {
		b.WriteString("Some difficulty or pp values could not be computed.\n")
	}
	return b.String()
}

func scorePairs(score *pipeline.ResolvedScore, webURL string) [][2]string {
	beatmap := score.Beatmap
	player := score.Player

	pairs := [][2]string{
		{"Player", fmt.Sprintf("%s (#%s, %spp)", player.Username,
			textutil.FormatNumber(int64(player.Rank)), textutil.FormatNumber(int64(player.PP+0.5)))},
		{"Beatmap", fmt.Sprintf("%s by %s", beatmap.DisplayName(), beatmap.Creator)},
		{"Link", fmt.Sprintf("%s/b/%d", strings.TrimRight(webURL, "/"), beatmap.ID)},
		{"Status", beatmap.RankedStatus()},
		{"Mods", modsLabel(score)},
		{"Accuracy", accuracyLabel(score.Accuracy)},
		{"BPM / Length", fmt.Sprintf("%s / %s", textutil.RoundString(score.BPM, 2), score.Length)},
		{"Max combo", textutil.FormatNumber(int64(beatmap.MaxCombo)) + "x"},
		{"Plays", textutil.FormatNumber(int64(beatmap.PlayCount))},
		{"Nomod", attributesLabel(score.Difficulty.Nomod)},
	}
	switch {
	case score.Difficulty.Modded != nil:
		pairs = append(pairs, [2]string{"Modded", attributesLabel(*score.Difficulty.Modded)})
	case score.Difficulty.Degraded:
		pairs = append(pairs, [2]string{"Modded", "unavailable"})
	}
	if s := score.PlayerScore; s != nil {
		pairs = append(pairs, [2]string{"Player score", scoreLabel(*s)})
	}
	if s := score.TopPlay; s != nil {
		pairs = append(pairs, [2]string{"#1", fmt.Sprintf("%s: %s", s.Username, scoreLabel(*s))})
	}
	if top := score.PlayerTop; top != nil {
		pairs = append(pairs, [2]string{"Top play", fmt.Sprintf("%s · %s", top.Beatmap.DisplayName(), scoreLabel(top.Score))})
	}
	pairs = append(pairs, [2]string{"Request", score.RequestID})
	return pairs
}

func modsLabel(score *pipeline.ResolvedScore) string {
	if score.Mods.Empty() {
		return "NoMod"
	}
	return score.Mods.String()
}

func accuracyLabel(acc *float64) string {
	if acc == nil {
		return "-"
	}
	return textutil.RoundString(*acc, 2) + "%"
}

func attributesLabel(a osu.Attributes) string {
	return fmt.Sprintf("CS %s · AR %s · OD %s · HP %s · %s★",
		textutil.RoundString(a.CS, 1),
		textutil.RoundString(a.AR, 1),
		textutil.RoundString(a.OD, 1),
		textutil.RoundString(a.HP, 1),
		textutil.RoundString(a.SR, 2),
	)
}

func scoreLabel(s osu.Score) string {
	parts := []string{
		textutil.FormatNumber(s.Score),
		s.Rank,
		accuracyLabel(ptr(s.Accuracy())),
		textutil.FormatNumber(int64(s.MaxCombo)) + "x",
	}
	if !s.Mods.Empty() {
		parts = append(parts, s.Mods.String())
	}
	if s.PP > 0 {
		parts = append(parts, textutil.RoundString(s.PP, 0)+"pp")
	}
	return strings.Join(parts, " · ")
}

func renderPerformance(nomod, modded *difficulty.Performance) string {
	if nomod == nil {
		return ""
	}
	headers := []string{"Accuracy", "Nomod pp"}
	if modded != nil {
		headers = append(headers, "Modded pp")
	}
	rows := make([][]string, 0, len(nomod.Accuracies))
	for i, acc := range nomod.Accuracies {
		row := []string{strconv.FormatFloat(acc, 'f', -1, 64) + "%", ppLabel(nomod.Values, i)}
		if modded != nil {
			if pp, ok := modded.At(acc); ok {
				row = append(row, textutil.RoundString(pp, 0))
			} else {
				row = append(row, "-")
			}
		}
		rows = append(rows, row)
	}
	return renderTable(headers, rows, []columnAlignment{alignRight, alignRight, alignRight})
}

func ppLabel(values []float64, idx int) string {
	if idx >= len(values) {
		return "-"
	}
	return textutil.RoundString(values[idx], 0)
}

func ptr[T any](v T) *T {
	return &v
}
