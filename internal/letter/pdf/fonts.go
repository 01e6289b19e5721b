package pdf

import (
	"fmt"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

const fontFamily = "Go"

// fontStyles pairs fpdf style strings with the embedded TrueType sources.
// Registration order fixes the font resource names, so it is a slice.
var fontStyles = []struct {
	style string
	src   []byte
}{
	{"", goregular.TTF},
	{"B", gobold.TTF},
}

var parsedFonts = sync.OnceValues(func() ([]*sfnt.Font, error) {
	fonts := make([]*sfnt.Font, 0, len(fontStyles))
	for _, fs := range fontStyles {
		f, err := sfnt.Parse(fs.src)
		if err != nil {
			return nil, fmt.Errorf("parse letter font: %w", err)
		}
		fonts = append(fonts, f)
	}
	return fonts, nil
})

// UnprintableError reports a rune no letter font has a glyph for.
type UnprintableError struct {
	Text string
	Rune rune
}

func (e *UnprintableError) Error() string {
	return fmt.Sprintf("character %q (%U) in %q cannot be printed", e.Rune, e.Rune, e.Text)
}

// CheckPrintable returns an *UnprintableError for the first rune in texts
// that is missing from the regular or the bold letter font.
func CheckPrintable(texts ...string) error {
	fonts, err := parsedFonts()
	if err != nil {
		return err
	}
	var buf sfnt.Buffer
	for _, text := range texts {
		for _, r := range text {
			for _, f := range fonts {
				idx, err := f.GlyphIndex(&buf, r)
				if err != nil {
					return fmt.Errorf("look up glyph %U: %w", r, err)
				}
				if idx == 0 {
					return &UnprintableError{Text: text, Rune: r}
				}
			}
		}
	}
	return nil
}
