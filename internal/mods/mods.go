package mods

import (
	"slices"
	"strings"
)

// Mod is a two-letter modifier code.
type Mod string

const (
	NF Mod = "NF"
	EZ Mod = "EZ"
	TD Mod = "TD"
	HD Mod = "HD"
	HR Mod = "HR"
	SD Mod = "SD"
	DT Mod = "DT"
	RL Mod = "RL"
	HT Mod = "HT"
	NC Mod = "NC"
	FL Mod = "FL"
	AT Mod = "AT"
	SO Mod = "SO"
	AP Mod = "AP"
	PF Mod = "PF"
	V2 Mod = "V2"
)

type bitEntry struct {
	mod Mod
	bit uint
}

// bitTable is ordered by bit value, largest first.
var bitTable = []bitEntry{
	{V2, 1 << 29},
	{PF, 1 << 14},
	{AP, 1 << 13},
	{SO, 1 << 12},
	{AT, 1 << 11},
	{FL, 1 << 10},
	{NC, 1 << 9},
	{HT, 1 << 8},
	{RL, 1 << 7},
	{DT, 1 << 6},
	{SD, 1 << 5},
	{HR, 1 << 4},
	{HD, 1 << 3},
	{TD, 1 << 2},
	{EZ, 1 << 1},
	{NF, 1 << 0},
}

var bits = func() map[Mod]uint {
	m := make(map[Mod]uint, len(bitTable))
	for _, e := range bitTable {
		m[e.mod] = e.bit
	}
	return m
}()

// canonicalOrder is the display priority for codes within a Set.
var canonicalOrder = []Mod{EZ, HD, HT, DT, NC, HR, FL, NF, SD, PF, RL, AP, SO, AT, V2, TD}

var rank = func() map[Mod]int {
	m := make(map[Mod]int, len(canonicalOrder))
	for i, mod := range canonicalOrder {
		m[mod] = i
	}
	return m
}()

var (
	noDifficultyEffect = []Mod{SD, PF, AP, RL, V2}
	noPPEffect         = []Mod{SD, PF}
	zeroPP             = []Mod{RL, AP, AT}
)

// Valid reports whether m is a known modifier code.
func Valid(m Mod) bool {
	_, ok := bits[m]
	return ok
}

// Set is an ordered, de-duplicated modifier list. The zero value is nomod.
type Set []Mod

// Decode expands a wire bitmask into a canonical Set. Unknown bits are ignored.
func Decode(mask uint) Set {
	var out Set
	for _, e := range bitTable {
		if mask&e.bit != 0 {
			out = append(out, e.mod)
		}
	}
	return normalize(out)
}

// Encode packs s into its wire bitmask, restoring DT under NC and SD under PF.
func Encode(s Set) uint {
	var mask uint
	for _, m := range s {
		mask |= bits[m]
		switch m {
		case NC:
			mask |= bits[DT]
		case PF:
			mask |= bits[SD]
		}
	}
	return mask
}

// New builds a canonical Set from arbitrary codes, dropping unknown ones.
func New(codes ...Mod) Set {
	out := make(Set, 0, len(codes))
	for _, c := range codes {
		if Valid(c) {
			out = append(out, c)
		}
	}
	return normalize(out)
}

func normalize(s Set) Set {
	if len(s) == 0 {
		return nil
	}
	seen := make(map[Mod]bool, len(s))
	out := make(Set, 0, len(s))
	for _, m := range s {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	if seen[NC] {
		out = slices.DeleteFunc(out, func(m Mod) bool { return m == DT })
	}
	if seen[PF] {
		out = slices.DeleteFunc(out, func(m Mod) bool { return m == SD })
	}
	slices.SortFunc(out, func(a, b Mod) int { return rank[a] - rank[b] })
	return out
}

// Has reports whether m is present in s.
func (s Set) Has(m Mod) bool {
	return slices.Contains(s, m)
}

// Empty reports whether s is nomod.
func (s Set) Empty() bool {
	return len(s) == 0
}

// AffectsDifficulty reports whether any mod in s changes difficulty attributes.
func (s Set) AffectsDifficulty() bool {
	return !s.onlyFrom(noDifficultyEffect)
}

// AffectsPP reports whether any mod in s changes performance values.
func (s Set) AffectsPP() bool {
	return !s.onlyFrom(noPPEffect)
}

// ZeroesPP reports whether s contains a mod that makes every play worth 0pp.
func (s Set) ZeroesPP() bool {
	for _, m := range s {
		if slices.Contains(zeroPP, m) {
			return true
		}
	}
	return false
}

func (s Set) onlyFrom(class []Mod) bool {
	for _, m := range s {
		if !slices.Contains(class, m) {
			return false
		}
	}
	return true
}

// Codes returns the joined codes without a prefix, e.g. "HDDT".
func (s Set) Codes() string {
	var b strings.Builder
	for _, m := range s {
		b.WriteString(string(m))
	}
	return b.String()
}

// String renders s as "+HDDT", or "" for nomod.
func (s Set) String() string {
	if len(s) == 0 {
		return ""
	}
	return "+" + s.Codes()
}

// Equal reports whether two sets hold the same codes in the same order.
func (s Set) Equal(other Set) bool {
	return slices.Equal(s, other)
}
