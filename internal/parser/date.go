package parser

import (
	"regexp"
	"strings"
)

var (
	// MM/DD/YYYY, DD/MM/YY and friends. No calendar validation.
	datePatternSlash = regexp.MustCompile(`\d{1,2}/\d{1,2}/(?:\d{4}|\d{2})`)
	// YYYY-MM-DD
	datePatternISO = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// ExtractDate returns the first date-looking token on the line, or "".
// Slash dates beat ISO dates wherever they appear; among slash dates the
// leftmost wins, so one that opens the line always takes priority.
func ExtractDate(line string) string {
	line = strings.TrimSpace(line)

	if m := datePatternSlash.FindString(line); m != "" {
		return m
	}
	return datePatternISO.FindString(line)
}
