// Package mods converts osu! gameplay modifiers between their wire bitmask,
// their two-letter display codes, and the free-text form players write in
// score-post titles.
//
// A Set is always kept in canonical display order with implied partners
// collapsed: Nightcore hides DoubleTime and Perfect hides SuddenDeath, even
// though the wire encoding carries both bits.
package mods
