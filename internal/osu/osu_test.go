package osu_test

import (
	"testing"

	"osubot/internal/mods"
	"osubot/internal/osu"
)

func TestTimestamp(t *testing.T) {
	tests := map[int]string{
		0:    "0:00",
		61:   "1:01",
		120:  "2:00",
		130:  "2:10",
		1000: "16:40",
		3725: "62:05",
		-1:   "0:00",
	}
	for in, want := range tests {
		if got := osu.Timestamp(in); got != want {
			t.Errorf("Timestamp(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestAdjustedTiming(t *testing.T) {
	tests := []struct {
		set        mods.Set
		wantBPM    float64
		wantLength int
	}{
		{nil, 24, 24},
		{mods.Set{mods.HD}, 24, 24},
		{mods.Set{mods.DT}, 36, 16},
		{mods.Set{mods.NC}, 36, 16},
		{mods.Set{mods.HT}, 18, 32},
	}
	for _, tc := range tests {
		bpm, length := osu.AdjustedTiming(24, 24, tc.set)
		if bpm != tc.wantBPM || length != tc.wantLength {
			t.Errorf("AdjustedTiming(24, 24, %v) = (%v, %d), want (%v, %d)", tc.set, bpm, length, tc.wantBPM, tc.wantLength)
		}
	}
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		counts [4]int
		want   float64
	}{
		{[4]int{1, 0, 0, 0}, 100},
		{[4]int{1, 0, 0, 1}, 50},
		{[4]int{0, 0, 0, 1}, 0},
		{[4]int{0, 1, 0, 0}, 33.33},
		{[4]int{0, 0, 1, 0}, 16.67},
		{[4]int{45, 30, 10, 15}, 56.67},
		{[4]int{0, 0, 0, 0}, 0},
	}
	for _, tc := range tests {
		got := osu.Accuracy(tc.counts[0], tc.counts[1], tc.counts[2], tc.counts[3])
		if got != tc.want {
			t.Errorf("Accuracy(%v) = %v, want %v", tc.counts, got, tc.want)
		}
	}
}

func TestRankedStatus(t *testing.T) {
	date := "2017-07-02 01:01:01"
	tests := map[int]string{
		1:  "Ranked (2017-07-02)",
		2:  "Ranked (2017-07-02)",
		3:  "Qualified (2017-07-02)",
		4:  "Loved (2017-07-02)",
		0:  "Unranked",
		-1: "Unranked",
		-2: "Unranked",
	}
	for status, want := range tests {
		b := osu.Beatmap{Status: status, ApprovedDate: date}
		if got := b.RankedStatus(); got != want {
			t.Errorf("status %d: got %q, want %q", status, got, want)
		}
	}
}

func TestDisplayNameAndRounding(t *testing.T) {
	b := osu.Beatmap{Artist: "Artist", Title: "Title", Version: "Diff"}
	if got := b.DisplayName(); got != "Artist - Title [Diff]" {
		t.Fatalf("unexpected display name %q", got)
	}
	got := osu.Attributes{CS: 4.04, AR: 9.66, OD: 8.25, HP: 6.0, SR: 5.6789}.Rounded()
	want := osu.Attributes{CS: 4, AR: 9.7, OD: 8.3, HP: 6, SR: 5.68}
	if got != want {
		t.Fatalf("Rounded() = %+v, want %+v", got, want)
	}
}
