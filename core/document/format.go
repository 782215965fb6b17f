package document

import (
	"regexp"
	"strings"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Clean normalises upstream free text for document display: Windows line
// endings become plain newlines, runs of three or more newlines collapse to
// one, and boundary whitespace and line breaks are trimmed. This is the
// single replacement for the upstream chain of overlapping replacements,
// whose combined effect was order-sensitive.
//
//	"line one\r\n\r\n\r\nline two"  ->  "line one\nline two"
//	"\r\n  note \r\n"               ->  "note"
func Clean(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = blankRuns.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
