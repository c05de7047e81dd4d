package mods

import (
	"strings"
)

var aliases = map[string]Mod{
	"RX": RL,
}

var scoreV2 = strings.NewReplacer("SCOREV2", "V2", "SV2", "V2")

// ParseFreeText extracts the modifiers a player wrote after the difficulty
// bracket of a score-post title, e.g. "+HDDT", "+HD,DT", or a bare "HDHR".
// A '+' marker wins when it yields valid codes; otherwise the first
// whitespace token that fully decomposes into codes is used. Nothing
// matching yields an empty Set.
func ParseFreeText(title string) Set {
	tail, ok := tailAfterDiff(strings.ToUpper(title))
	if !ok {
		return nil
	}
	tail = scoreV2.Replace(tail)

	if plus := strings.IndexByte(tail, '+'); plus >= 0 {
		run := leadingRun(strings.TrimLeft(tail[plus+1:], " \t"))
		var chunks []string
		if strings.Contains(run, ",") {
			chunks = strings.Split(run, ",")
		} else {
			chunks = pairs(run)
		}
		if set, ok := fromChunks(chunks); ok {
			return set
		}
	}

	for _, token := range strings.Fields(tail) {
		token = strings.ReplaceAll(token, ",", "")
		var chunks []string
		for _, run := range strings.FieldsFunc(token, func(r rune) bool { return !isCodeRune(r) }) {
			chunks = append(chunks, pairs(run)...)
		}
		if set, ok := fromChunks(chunks); ok {
			return set
		}
	}
	return nil
}

// tailAfterDiff returns the text after the closing bracket of the last
// bracket pair in the map segment.
func tailAfterDiff(title string) (string, bool) {
	sep := strings.IndexAny(title, "|丨")
	if sep < 0 {
		return "", false
	}
	mapSegment := title[sep:]
	end := strings.LastIndexByte(mapSegment, ']')
	if end < 0 {
		return "", false
	}
	return mapSegment[end+1:], true
}

func isCodeRune(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func leadingRun(s string) string {
	end := 0
	for end < len(s) && (isCodeRune(rune(s[end])) || s[end] == ',') {
		end++
	}
	return s[:end]
}

func pairs(run string) []string {
	out := make([]string, 0, (len(run)+1)/2)
	for i := 0; i < len(run); i += 2 {
		out = append(out, run[i:min(i+2, len(run))])
	}
	return out
}

func fromChunks(chunks []string) (Set, bool) {
	codes := make([]Mod, 0, len(chunks))
	for _, chunk := range chunks {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		m := Mod(chunk)
		if alias, ok := aliases[chunk]; ok {
			m = alias
		}
		if !Valid(m) {
			return nil, false
		}
		codes = append(codes, m)
	}
	if len(codes) == 0 {
		return nil, false
	}
	return normalize(codes), true
}
