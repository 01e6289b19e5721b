package letter

import (
	"fmt"
	"strings"
	"time"

	"swissshield/internal/directory"
	"swissshield/internal/letter/layout"
	"swissshield/internal/letter/pdf"
	"swissshield/pkg/domain"
)

const (
	dateLayout    = "02.01.2006"
	signatureRule = "________________________"
	footerFormat  = "Generated by SwissShield.ch — Document Automation Service (Page %d/%d)"
)

// Submission is the personal data a letter is written for. It is never persisted.
type Submission struct {
	Canton       domain.Canton
	Zip          string
	Confession   domain.Confession
	FullName     string
	DateOfBirth  string // ISO YYYY-MM-DD
	AddressLine1 string
	AddressLine2 string // optional
	PostalCity   string // free text, "8001 Zürich"
	Email        string
}

// CheckPrintable returns a *pdf.UnprintableError when a field that ends up on
// the letter holds a character the letter fonts lack.
func (s Submission) CheckPrintable() error {
	return pdf.CheckPrintable(s.FullName, s.DateOfBirth, s.AddressLine1, s.AddressLine2, s.PostalCity, s.Zip, s.Email)
}

var (
	plain     = layout.Style{Size: layout.BodySize}
	bold      = layout.Style{Size: layout.SubjectSize, Bold: true}
	ruleStyle = layout.Style{Size: layout.BodySize, Gray: 0.5}
	nameStyle = layout.Style{Size: layout.BodySize, Gray: 0.3}
	label     = layout.Style{Size: layout.SmallSize, Gray: 0.5}
	psStyle   = layout.Style{Size: layout.SmallSize, Gray: 0.4}
	footer    = layout.Style{Size: layout.FooterSize, Gray: 0.6}
)

// Compose lays out the resignation letter and, unless disabled, the payroll
// notification. now is the date printed on the dateline.
func (r *Renderer) Compose(sub Submission, addr directory.AddressEntry, now time.Time) layout.Document {
	lang := r.policy.Language(sub.Canton)
	p := phrasesFor(lang)

	total := 1
	if r.payrollPage {
		total = 2
	}

	doc := layout.Document{
		Title:    p.documentTitle(sub.Confession),
		Language: string(lang),
		Created:  now,
		Pages:    []layout.Page{r.resignationPage(sub, addr, p, now, total)},
	}
	if r.payrollPage {
		doc.Pages = append(doc.Pages, r.payrollNotificationPage(sub, p, now, total))
	}
	return doc
}

func (r *Renderer) resignationPage(sub Submission, addr directory.AddressEntry, p *phrases, now time.Time, total int) layout.Page {
	confLabel := p.confessionLabel[sub.Confession]
	confFull := p.confessionFull[sub.Confession]

	body := make([]string, len(p.body))
	for i, line := range p.body {
		if strings.Contains(line, "%s") {
			line = fmt.Sprintf(line, confFull)
		}
		body[i] = line
	}

	blocks := []layout.Block{
		senderBlock(sub),
		{
			Kind:       layout.KindRecipient,
			Column:     layout.ColumnLeft,
			Style:      plain,
			Lines:      layout.Plain(nonEmpty(addr.RecipientName, addr.Addr1, addr.Addr2, addr.PostalCity())...),
			LineHeight: layout.BodyLineHeight,
			SpaceAfter: 2 * layout.BodyLineHeight,
		},
		datelineBlock(sub, p, now),
		subjectBlock(fmt.Sprintf(p.subject, confLabel, confFull)),
		{
			Kind:   layout.KindIdentity,
			Column: layout.ColumnLeft,
			Style:  plain,
			Lines: layout.Plain(
				p.nameLabel+sub.FullName,
				p.dobLabel+p.dateOfBirth(sub.DateOfBirth),
				p.addressLabel+identityAddress(sub),
				p.confLabel+confLabel,
			),
			LineHeight: layout.BodyLineHeight,
			SpaceAfter: layout.BodyLineHeight,
		},
		bodyBlock(layout.Plain(body...)),
	}
	blocks = append(blocks, signatureBlocks(sub.FullName, p.signature)...)
	blocks = append(blocks,
		layout.Block{
			Kind:       layout.KindPostscript,
			Column:     layout.ColumnLeft,
			Style:      psStyle,
			Lines:      layout.Plain(Wrap(p.postscript, PostscriptWidth)...),
			LineHeight: layout.SmallLineHeight,
		},
		footerBlock(1, total),
	)
	return layout.Page{Blocks: blocks}
}

func (r *Renderer) payrollNotificationPage(sub Submission, p *phrases, now time.Time, total int) layout.Page {
	body := make([]layout.Line, len(p.payrollBody))
	for i, line := range p.payrollBody {
		body[i] = layout.Line{Text: line, Emphasis: strings.Contains(line, p.payrollMarker)}
	}

	blocks := []layout.Block{
		senderBlock(sub),
		{
			Kind:       layout.KindRecipient,
			Column:     layout.ColumnLeft,
			Style:      plain,
			Lines:      layout.Plain(p.payrollTo...),
			LineHeight: layout.BodyLineHeight,
			SpaceAfter: 4 * layout.BodyLineHeight,
		},
		datelineBlock(sub, p, now),
		subjectBlock(p.payrollTitle),
		bodyBlock(body),
	}
	blocks = append(blocks, signatureBlocks(sub.FullName, p.signature)...)
	blocks = append(blocks, footerBlock(2, total))
	return layout.Page{Blocks: blocks}
}

func senderBlock(sub Submission) layout.Block {
	return layout.Block{
		Kind:       layout.KindSender,
		Column:     layout.ColumnRight,
		Style:      plain,
		Lines:      layout.Plain(nonEmpty(sub.FullName, sub.AddressLine1, sub.AddressLine2, sub.PostalCity)...),
		LineHeight: layout.BodyLineHeight,
		SpaceAfter: 2 * layout.BodyLineHeight,
	}
}

func datelineBlock(sub Submission, p *phrases, now time.Time) layout.Block {
	city := DatelineCity(sub.PostalCity)
	if city == "" {
		city = p.country
	}
	return layout.Block{
		Kind:       layout.KindDateline,
		Column:     layout.ColumnLeft,
		Style:      plain,
		Lines:      layout.Plain(city + p.datelineSep + now.Format(dateLayout)),
		LineHeight: layout.BodyLineHeight,
		SpaceAfter: layout.BodyLineHeight,
	}
}

func subjectBlock(text string) layout.Block {
	return layout.Block{
		Kind:       layout.KindSubject,
		Column:     layout.ColumnLeft,
		Style:      bold,
		Lines:      layout.Plain(text),
		LineHeight: layout.BodyLineHeight,
		SpaceAfter: layout.BodyLineHeight,
	}
}

func bodyBlock(lines []layout.Line) layout.Block {
	return layout.Block{
		Kind:       layout.KindBody,
		Column:     layout.ColumnLeft,
		Style:      plain,
		Lines:      lines,
		LineHeight: layout.BodyLineHeight,
		SpaceAfter: 2 * layout.BodyLineHeight,
	}
}

// signatureBlocks is the blank rule, the printed name and the small label.
func signatureBlocks(name, signatureLabel string) []layout.Block {
	return []layout.Block{
		{Kind: layout.KindSignature, Style: ruleStyle, Lines: layout.Plain(signatureRule), LineHeight: layout.BodyLineHeight},
		{Kind: layout.KindSignature, Style: nameStyle, Lines: layout.Plain(name), LineHeight: layout.BodyLineHeight},
		{
			Kind:       layout.KindSignature,
			Style:      label,
			Lines:      layout.Plain(signatureLabel),
			LineHeight: layout.BodyLineHeight,
			SpaceAfter: layout.BodyLineHeight,
		},
	}
}

func footerBlock(page, total int) layout.Block {
	return layout.Block{
		Kind:     layout.KindFooter,
		Style:    footer,
		Lines:    layout.Plain(fmt.Sprintf(footerFormat, page, total)),
		Baseline: layout.FooterBaseline,
	}
}

func identityAddress(sub Submission) string {
	parts := nonEmpty(sub.AddressLine1, sub.AddressLine2, sub.PostalCity)
	return strings.Join(parts, ", ")
}

func (p *phrases) dateOfBirth(iso string) string {
	if iso == "" {
		return p.dobMissing
	}
	return FormatDateOfBirth(iso)
}

func (p *phrases) documentTitle(c domain.Confession) string {
	return fmt.Sprintf(p.subject, p.confessionLabel[c], p.confessionFull[c])
}
