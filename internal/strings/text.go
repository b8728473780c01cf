// Package strings holds the small text cleanups applied to names and notes
// typed by users.
package strings

import "strings"

// CollapseWhitespace trims value and replaces each run of whitespace inside
// it with one space. Item names are single-line.
func CollapseWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// NormalizeNewlines replaces CRLF and CR with LF.
func NormalizeNewlines(value string) string {
	if !strings.ContainsRune(value, '\r') {
		return value
	}
	value = strings.ReplaceAll(value, "\r\n", "\n")
	return strings.ReplaceAll(value, "\r", "\n")
}

// TrimTrailingNewlines removes trailing CR/LF characters.
func TrimTrailingNewlines(value string) string {
	return strings.TrimRight(value, "\r\n")
}

// CleanNote normalizes line endings and drops blank lines before and after
// the text. Indentation on the first line survives.
func CleanNote(value string) string {
	value = NormalizeNewlines(value)
	return TrimTrailingNewlines(strings.TrimLeft(value, "\n"))
}
