package letter

import (
	"strings"
	"unicode/utf8"
)

// PostscriptWidth is the line budget of the wrapped postscript, in runes.
const PostscriptWidth = 85

// Wrap greedily packs words into lines of at most width runes, breaking only
// at spaces. A single word longer than width gets a line of its own.
func Wrap(text string, width int) []string {
	var lines []string
	var cur strings.Builder
	n := 0
	for _, word := range strings.Fields(text) {
		wl := utf8.RuneCountInString(word)
		if n > 0 && n+1+wl > width {
			lines = append(lines, cur.String())
			cur.Reset()
			n = 0
		}
		if n > 0 {
			cur.WriteByte(' ')
			n++
		}
		cur.WriteString(word)
		n += wl
	}
	if n > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// FormatDateOfBirth turns an ISO YYYY-MM-DD date into DD.MM.YYYY.
// Input that does not split into exactly three hyphen-separated parts is
// returned unchanged.
func FormatDateOfBirth(iso string) string {
	parts := strings.Split(iso, "-")
	if len(parts) != 3 {
		return iso
	}
	return parts[2] + "." + parts[1] + "." + parts[0]
}

// DatelineCity extracts the city from a free-text "postal city" string:
// everything after the first token. It returns "" when there is no city part.
func DatelineCity(postalCity string) string {
	fields := strings.Fields(postalCity)
	if len(fields) < 2 {
		return ""
	}
	return strings.Join(fields[1:], " ")
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
