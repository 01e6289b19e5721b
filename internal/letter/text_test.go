package letter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFormatDateOfBirth(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1990-05-14", "14.05.1990"},
		{"2001-1-2", "2.1.2001"},
		{"14/05/1990", "14/05/1990"},
		{"14.05.1990", "14.05.1990"},
		{"1990-05", "1990-05"},
		{"1990-05-14-00", "1990-05-14-00"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDateOfBirth(tt.in), tt.in)
	}
}

func TestDatelineCity(t *testing.T) {
	assert.Equal(t, "Zürich", DatelineCity("8001 Zürich"))
	assert.Equal(t, "Bern 22", DatelineCity("  3000   Bern 22 "))
	assert.Equal(t, "", DatelineCity("8001"))
	assert.Equal(t, "", DatelineCity(""))
}

func TestWrap(t *testing.T) {
	t.Run("breaks only on spaces within budget", func(t *testing.T) {
		text := "P.S. Falls Sie nicht zuständig sind, bitte ich Sie, dieses Schreiben an die zuständige Stelle weiterzuleiten oder mir die korrekte Adresse mitzuteilen."
		lines := Wrap(text, PostscriptWidth)

		assert.Len(t, lines, 2)
		for _, l := range lines {
			assert.LessOrEqual(t, utf8.RuneCountInString(l), PostscriptWidth)
			assert.Equal(t, strings.TrimSpace(l), l)
			assert.NotEmpty(t, l)
		}
		assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(lines, " ")))
	})

	t.Run("greedy fill", func(t *testing.T) {
		assert.Equal(t, []string{"aaa bbb", "ccc"}, Wrap("aaa bbb ccc", 7))
		assert.Equal(t, []string{"aaa", "bbb", "ccc"}, Wrap("aaa bbb ccc", 6))
	})

	t.Run("long word gets its own line", func(t *testing.T) {
		assert.Equal(t, []string{"a", "Donaudampfschifffahrt", "b"}, Wrap("a Donaudampfschifffahrt b", 5))
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		assert.Equal(t, []string{"äöü äöü"}, Wrap("äöü äöü", 7))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Wrap("   ", 10))
	})
}
