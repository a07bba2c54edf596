package scanner

import "strings"

type line struct {
	num   int    // 1-based position in the source text
	text  string // trimmed source line, reported as-is
	match string // normalized copy used for extraction and rule matching
}

var lineBreaks = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\v", "\n",
	"\f", "\n",
	"\u0085", "\n",
	"\u2028", "\n",
	"\u2029", "\n",
)

// PDF text layers often carry non-breaking and zero-width spaces between a
// currency symbol and its digits. Only the match copy of a line is rewritten.
var spaceFixer = strings.NewReplacer(
	"\u00A0", " ",
	"\u200B", "",
	"\uFEFF", "",
)

func normalizeLine(s string) string {
	return strings.TrimSpace(spaceFixer.Replace(s))
}

// splitLines breaks text on any line boundary and drops lines that are empty
// once normalized.
func splitLines(text string) []line {
	if text == "" {
		return nil
	}
	var out []line
	for i, raw := range strings.Split(lineBreaks.Replace(text), "\n") {
		m := normalizeLine(raw)
		if m == "" {
			continue
		}
		out = append(out, line{num: i + 1, text: strings.TrimSpace(raw), match: m})
	}
	return out
}
