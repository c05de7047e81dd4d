package title

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"osubot/internal/services"
)

// Parsed holds the three fields of a score-post title.
type Parsed struct {
	Player string `json:"player"`
	Song   string `json:"song"`
	Diff   string `json:"diff"`
}

var (
	scorePostPattern = regexp.MustCompile(`.+[|丨].+-.+\[.+\]`)
	playerPattern    = regexp.MustCompile(`[\w\-\[\]][ \w\-\[\]]*[\w\-\[\]]|[\w\-\[\]]`)
	bracketGroup     = regexp.MustCompile(`\[([^\[\]]*)\]`)
	accuracyPattern  = regexp.MustCompile(`(\d{1,3}(?:[.,]\d+)?)%`)
)

// annotations are bracketed player-segment tags that are never part of a name.
var annotations = map[string]struct{}{
	"UNNOTICED": {}, "UNNOTICED?": {}, "RIPPLE": {}, "GATARI": {},
	"UNSUBMITTED": {}, "OFFLINE": {}, "RESTRICTED": {}, "BANNED": {},
	"UNRANKED": {}, "LOVED": {},
	"STANDARD": {}, "STD": {}, "OSU!": {}, "O!STD": {}, "OSU!STD": {}, "OSU!STANDARD": {},
	"TAIKO": {}, "OSU!TAIKO": {}, "O!TAIKO": {},
	"CTB": {}, "O!CATCH": {}, "OSU!CATCH": {}, "CATCH": {}, "OSU!CTB": {}, "O!CTB": {},
	"MANIA": {}, "O!MANIA": {}, "OSU!MANIA": {}, "OSU!M": {}, "O!M": {},
}

// LooksLikeScorePost is a coarse pre-filter. Self posts never qualify; other
// titles need the shape "<x> | <y> - <z> [<w>]". It favours false positives.
func LooksLikeScorePost(raw string, isSelf bool) bool {
	if isSelf {
		return false
	}
	return scorePostPattern.MatchString(raw)
}

// Parse splits raw into player, song, and difficulty. Titles without a
// separator or without a closed bracket pair after it fail with
// services.ErrUnparseableTitle.
func Parse(raw string) (Parsed, error) {
	playerSegment, mapSegment, ok := splitSeparator(raw)
	if !ok {
		return Parsed{}, unparseable(raw, "missing '|' separator")
	}

	open, closeIdx, ok := diffBracket(mapSegment)
	if !ok {
		return Parsed{}, unparseable(raw, "missing difficulty brackets")
	}

	player := playerName(playerSegment)
	if player == "" {
		return Parsed{}, unparseable(raw, "missing player name")
	}
	song := restoreHyphen(strings.TrimSpace(mapSegment[:open]))
	diff := strings.TrimSpace(mapSegment[open+1 : closeIdx])
	if song == "" || diff == "" {
		return Parsed{}, unparseable(raw, "empty song or difficulty")
	}

	return Parsed{Player: player, Song: song, Diff: diff}, nil
}

// Accuracy extracts a percentage such as "98.5%" or "98,5%" written after the
// difficulty bracket. Values outside (0, 100] are rejected.
func Accuracy(raw string) (float64, bool) {
	_, mapSegment, ok := splitSeparator(raw)
	if !ok {
		return 0, false
	}
	_, closeIdx, ok := diffBracket(mapSegment)
	if !ok {
		return 0, false
	}
	match := accuracyPattern.FindStringSubmatch(mapSegment[closeIdx+1:])
	if match == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
	if err != nil || value <= 0 || value > 100 {
		return 0, false
	}
	return value, true
}

func splitSeparator(raw string) (string, string, bool) {
	idx := strings.IndexAny(raw, "|丨")
	if idx < 0 {
		return "", "", false
	}
	sepLen := len("|")
	if strings.HasPrefix(raw[idx:], "丨") {
		sepLen = len("丨")
	}
	return raw[:idx], raw[idx+sepLen:], true
}

// diffBracket locates the rightmost '[' and the first ']' after it.
func diffBracket(segment string) (int, int, bool) {
	open := strings.LastIndexByte(segment, '[')
	if open < 0 {
		return 0, 0, false
	}
	rel := strings.IndexByte(segment[open:], ']')
	if rel < 0 {
		return 0, 0, false
	}
	return open, open + rel, true
}

func playerName(segment string) string {
	if paren := strings.IndexByte(segment, '('); paren >= 0 {
		segment = segment[:paren]
	}
	segment = bracketGroup.ReplaceAllStringFunc(segment, func(group string) string {
		inner := strings.ToUpper(strings.TrimSpace(group[1 : len(group)-1]))
		if _, ok := annotations[inner]; ok {
			return " "
		}
		return group
	})
	return strings.TrimSpace(playerPattern.FindString(strings.TrimSpace(segment)))
}

// restoreHyphen turns a compressed "Artist-Title" into "Artist - Title".
func restoreHyphen(song string) string {
	if strings.Count(song, "-") != 1 || strings.Contains(song, " - ") {
		return song
	}
	artist, name, _ := strings.Cut(song, "-")
	return strings.TrimSpace(artist) + " - " + strings.TrimSpace(name)
}

func unparseable(raw, reason string) error {
	return services.Wrap(services.ErrUnparseableTitle, "title", "parse", fmt.Sprintf("%s in %q", reason, raw), nil)
}
