package osu

import (
	"fmt"
	"math"

	"osubot/internal/mods"
	"osubot/internal/textutil"
)

// Timestamp renders seconds as m:ss with unbounded minutes. Negative input
// renders as 0:00.
func Timestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// SpeedMultiplier returns the playback rate implied by s.
func SpeedMultiplier(s mods.Set) float64 {
	switch {
	case s.Has(mods.DT), s.Has(mods.NC):
		return 1.5
	case s.Has(mods.HT):
		return 0.75
	default:
		return 1
	}
}

// AdjustedTiming scales bpm and length by the playback rate of s. BPM is
// rounded to two places and length to whole seconds.
func AdjustedTiming(bpm float64, lengthSeconds int, s mods.Set) (float64, int) {
	speed := SpeedMultiplier(s)
	if speed == 1 {
		return bpm, lengthSeconds
	}
	return textutil.Round(bpm*speed, 2), int(math.Round(float64(lengthSeconds) / speed))
}

// Accuracy computes standard-mode accuracy as a percentage rounded to two
// places. Zero objects yields zero.
func Accuracy(n300, n100, n50, misses int) float64 {
	total := float64(n300 + n100 + n50 + misses)
	if total == 0 {
		return 0
	}
	weighted := float64(n300) + float64(n100)/3 + float64(n50)/6
	return textutil.Round(weighted/total*100, 2)
}

var statusNames = map[int]string{
	1: "Ranked",
	2: "Ranked",
	3: "Qualified",
	4: "Loved",
}

// RankedStatus maps an approval code and date to a label such as
// "Loved (2017-07-02)". Unknown codes are "Unranked".
func RankedStatus(status int, approvedDate string) string {
	name, ok := statusNames[status]
	if !ok {
		return "Unranked"
	}
	if len(approvedDate) > 10 {
		approvedDate = approvedDate[:10]
	}
	if approvedDate == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, approvedDate)
}
