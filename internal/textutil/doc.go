// Package textutil provides text normalization and formatting helpers shared
// by the title parser, chart resolver, and CLI output.
//
// The primary use cases are:
//   - Bleaching display strings so chart names compare case and whitespace insensitively
//   - Formatting numbers with thousands separators and trimmed precision
//   - Sanitizing tokens for safe filesystem use
package textutil
