// Package strings provides string list helpers for hand-edited datasets.
package strings

import (
	"strings"
)

// DedupeAndTrim drops blanks and repeats after trimming. Order is preserved.
func DedupeAndTrim(values []string) []string {
	return dedupe(values, strings.TrimSpace)
}

// DedupeAndTrimUpper is DedupeAndTrim for code lists such as canton
// abbreviations, where "zh", " ZH" and "ZH" name the same thing.
//
//	DedupeAndTrimUpper([]string{" zh", "BE", "ZH", ""})
//	// []string{"ZH", "BE"}
func DedupeAndTrimUpper(values []string) []string {
	return dedupe(values, func(s string) string {
		return strings.ToUpper(strings.TrimSpace(s))
	})
}

func dedupe(values []string, norm func(string) string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		n := norm(v)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		result = append(result, n)
	}
	return result
}
