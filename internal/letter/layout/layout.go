// Package layout describes paginated business letters as ordered drawing
// instructions. It knows page geometry but nothing about letters or PDF.
package layout

import "time"

// ISO A4 in points, and the letter grid used by every page.
const (
	PageWidth  = 595.28
	PageHeight = 841.89

	Margin        = 70.0
	SenderColumnX = PageWidth - Margin - 180

	BodySize        = 11.0
	BodyLineHeight  = 16.0
	SubjectSize     = BodySize + 1
	SmallSize       = 9.0
	SmallLineHeight = 12.0
	FooterSize      = 8.0
	FooterBaseline  = PageHeight - 40
)

// Column anchors a block horizontally.
type Column int

const (
	ColumnLeft Column = iota
	ColumnRight
)

// X returns the left edge of the column.
func (c Column) X() float64 {
	if c == ColumnRight {
		return SenderColumnX
	}
	return Margin
}

// Kind names what a block is for. Renderers ignore it; tests and logs use it.
type Kind string

const (
	KindSender     Kind = "sender"
	KindRecipient  Kind = "recipient"
	KindDateline   Kind = "dateline"
	KindSubject    Kind = "subject"
	KindIdentity   Kind = "identity"
	KindBody       Kind = "body"
	KindSignature  Kind = "signature"
	KindPostscript Kind = "postscript"
	KindFooter     Kind = "footer"
)

// Style is the font treatment of a block. Gray is 0 (black) to 1 (white).
type Style struct {
	Bold bool
	Size float64
	Gray float64
}

// Line is one line of text. Emphasis switches the line to bold.
// An empty Text advances the cursor without drawing.
type Line struct {
	Text     string
	Emphasis bool
}

// Block is a stack of lines drawn top-down.
//
// Flow blocks start at the page cursor, advance it by LineHeight per line and
// then by SpaceAfter. A block with a non-zero Baseline is drawn at that
// absolute position (measured from the top edge) and leaves the cursor alone.
type Block struct {
	Kind       Kind
	Column     Column
	Style      Style
	Lines      []Line
	LineHeight float64
	SpaceAfter float64
	Baseline   float64
}

// Texts returns the block's line texts.
func (b Block) Texts() []string {
	out := make([]string, len(b.Lines))
	for i, l := range b.Lines {
		out[i] = l.Text
	}
	return out
}

// Page is an ordered list of blocks.
type Page struct {
	Blocks []Block
}

// Find returns the first block of the given kind.
func (p Page) Find(kind Kind) (Block, bool) {
	for _, b := range p.Blocks {
		if b.Kind == kind {
			return b, true
		}
	}
	return Block{}, false
}

// FindAll returns all blocks of the given kind in order.
func (p Page) FindAll(kind Kind) []Block {
	var out []Block
	for _, b := range p.Blocks {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// Document is a letter ready to be rendered.
type Document struct {
	Title    string
	Language string
	Created  time.Time
	Pages    []Page
}

// Plain builds lines without emphasis.
func Plain(texts ...string) []Line {
	out := make([]Line, 0, len(texts))
	for _, t := range texts {
		out = append(out, Line{Text: t})
	}
	return out
}
