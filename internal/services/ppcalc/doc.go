// Package ppcalc wraps an external difficulty/performance calculator binary.
//
// Two output dialects are supported: rosu-pp-cli ("--path P --accuracy A
// --mods N", one JSON object on stdout) and oppai ("P A% +MODS -ojson").
// Execution goes through an Executor so tests can inject canned output.
package ppcalc
