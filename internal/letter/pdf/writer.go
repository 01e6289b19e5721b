// Package pdf draws layout documents with go-pdf/fpdf using the embedded Go
// TrueType fonts, so text is written as UTF-8 rather than a single-byte
// encoding. Output is deterministic for a given document.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"

	"swissshield/internal/letter/layout"
)

const producer = "SwissShield.ch"

// Write renders doc into w. Nothing is written when drawing fails, including
// when a line holds a character the fonts cannot print.
func Write(ctx context.Context, w io.Writer, doc layout.Document) error {
	if len(doc.Pages) == 0 {
		return fmt.Errorf("render pdf: document has no pages")
	}
	for _, page := range doc.Pages {
		for _, b := range page.Blocks {
			if err := CheckPrintable(b.Texts()...); err != nil {
				return fmt.Errorf("render pdf: %w", err)
			}
		}
	}

	f := fpdf.New("P", "pt", "A4", "")
	f.SetCatalogSort(true)
	f.SetCreationDate(doc.Created)
	f.SetModificationDate(doc.Created)
	f.SetAutoPageBreak(false, 0)
	f.SetMargins(layout.Margin, layout.Margin, layout.Margin)
	f.SetProducer(producer, true)
	f.SetCreator(producer, true)
	if doc.Title != "" {
		f.SetTitle(doc.Title, true)
	}

	for _, fs := range fontStyles {
		f.AddUTF8FontFromBytes(fontFamily, fs.style, fs.src)
	}
	for _, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		f.AddPage()
		drawPage(f, page)
	}
	if f.Err() {
		return fmt.Errorf("render pdf: %w", f.Error())
	}

	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// Render returns the PDF bytes of doc.
func Render(ctx context.Context, doc layout.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(ctx, &buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawPage(f *fpdf.Fpdf, page layout.Page) {
	cursor := layout.Margin
	for _, b := range page.Blocks {
		y := cursor
		if b.Baseline > 0 {
			y = b.Baseline
		}
		gray := grayLevel(b.Style.Gray)
		f.SetTextColor(gray, gray, gray)
		x := b.Column.X()
		for _, line := range b.Lines {
			if line.Text != "" {
				style := ""
				if b.Style.Bold || line.Emphasis {
					style = "B"
				}
				f.SetFont(fontFamily, style, b.Style.Size)
				f.Text(x, y, line.Text)
			}
			y += b.LineHeight
		}
		if b.Baseline == 0 {
			cursor = y + b.SpaceAfter
		}
	}
}

func grayLevel(g float64) int {
	return int(math.Round(math.Max(0, math.Min(1, g)) * 255))
}
