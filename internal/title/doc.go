// Package title splits score-post titles of the form
// "Player | Artist - Title [Difficulty] +Mods 98.5%" into their parts.
//
// Parsing is deliberately forgiving: player annotations such as
// "[UNNOTICED]" are stripped, the full-width '丨' separator is accepted, and
// compressed "Artist-Title" song names get their spaced hyphen back. The
// difficulty is always taken from the last bracket pair in the title.
package title
