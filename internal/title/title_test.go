package title_test

import (
	"errors"
	"testing"

	"osubot/internal/services"
	"osubot/internal/title"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want title.Parsed
	}{
		{"Player | Artist - Song [Diff] Other", title.Parsed{Player: "Player", Song: "Artist - Song", Diff: "Diff"}},
		{"ppp | t - a [d] +m", title.Parsed{Player: "ppp", Song: "t - a", Diff: "d"}},
		{"ppp| t - a [d][d2]", title.Parsed{Player: "ppp", Song: "t - a [d]", Diff: "d2"}},
		{"p(d)|t-a[d]+m", title.Parsed{Player: "p", Song: "t - a", Diff: "d"}},
		{"Cookiezi (HDHR 99.1%) | xi - FREEDOM DiVE [FOUR DIMENSIONS] +HDHR", title.Parsed{Player: "Cookiezi", Song: "xi - FREEDOM DiVE", Diff: "FOUR DIMENSIONS"}},
		{"[UNNOTICED] Rafis | Camellia - Exit This Earth's Atomosphere [Evolution] 98.5%", title.Parsed{Player: "Rafis", Song: "Camellia - Exit This Earth's Atomosphere", Diff: "Evolution"}},
		{"[Toy] [STD] | Panda Eyes - ILY [Insane]", title.Parsed{Player: "[Toy]", Song: "Panda Eyes - ILY", Diff: "Insane"}},
		{"WubWoofWolf 丨 Team Grimoire - C18H27NO3 [Extreme]", title.Parsed{Player: "WubWoofWolf", Song: "Team Grimoire - C18H27NO3", Diff: "Extreme"}},
		{"Some Player :) | a-b-c [d]", title.Parsed{Player: "Some Player", Song: "a-b-c", Diff: "d"}},
	}
	for _, tc := range tests {
		got, err := title.Parse(tc.raw)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

func TestParseRejectsMalformedTitles(t *testing.T) {
	for _, raw := range []string{
		"no separator - here [d]",
		"ppp | t - a d]",
		"ppp | t - a [d",
		"ppp | t - a []",
		"(x) | t - a [d]",
	} {
		_, err := title.Parse(raw)
		if err == nil {
			t.Errorf("Parse(%q) expected error", raw)
			continue
		}
		if !errors.Is(err, services.ErrUnparseableTitle) {
			t.Errorf("Parse(%q) error %v does not wrap ErrUnparseableTitle", raw, err)
		}
	}
}

func TestLooksLikeScorePost(t *testing.T) {
	tests := []struct {
		raw    string
		isSelf bool
		want   bool
	}{
		{"ppp | t - a [d] +m", false, true},
		{"ppp | t - a [d] +m", true, false},
		{"ppp|t-a[d", false, false},
		{"ppp|t-a[]", false, false},
		{"ppp|t-ad]", false, false},
		{"ppp|ta[d]", false, false},
		{"pta[d]", false, false},
		{"|t-a[d]", false, false},
		{"ppp 丨 t - a [d]", false, true},
	}
	for _, tc := range tests {
		if got := title.LooksLikeScorePost(tc.raw, tc.isSelf); got != tc.want {
			t.Errorf("LooksLikeScorePost(%q, %v) = %v, want %v", tc.raw, tc.isSelf, got, tc.want)
		}
	}
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"p | a - s [d] +HD 98.5%", 98.5, true},
		{"p | a - s [d] 99,12% FC", 99.12, true},
		{"p | a - s [d] 100%", 100, true},
		{"p | a - s [99%] HD", 0, false},
		{"p | a - s [d] 0%", 0, false},
		{"p | a - s [d]", 0, false},
	}
	for _, tc := range tests {
		got, ok := title.Accuracy(tc.raw)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("Accuracy(%q) = (%v, %v), want (%v, %v)", tc.raw, got, ok, tc.want, tc.wantOK)
		}
	}
}
