package certificate

import (
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	bodyFontSize   = 12
	footerFontSize = 8
	lineHeight     = bodyFontSize * 1.3
)

// run is a stretch of paragraph text sharing one font style.
type run struct {
	text string
	bold bool
}

// paragraph is one flowing block of the certificate body.
type paragraph struct {
	spacingBefore float64 // pt
	justified     bool
	runs          []run
}

type word struct {
	text  string
	bold  bool
	width float64
}

func setBodyFont(pdf *gofpdf.Fpdf, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, bodyFontSize)
}

// splitWords tokenizes the runs into words, measuring each one with its own
// font style so mixed bold/regular lines wrap correctly.
func splitWords(pdf *gofpdf.Fpdf, runs []run) []word {
	var words []word
	for _, r := range runs {
		setBodyFont(pdf, r.bold)
		for _, token := range strings.Fields(r.text) {
			words = append(words, word{text: token, bold: r.bold, width: pdf.GetStringWidth(token)})
		}
	}
	return words
}

// drawParagraph lays the paragraph out between x and x+width starting below
// y, and returns the baseline of the last line drawn. Justified paragraphs
// distribute the slack of each full line across its word gaps; the final
// line of a justified paragraph stays left-aligned.
func drawParagraph(pdf *gofpdf.Fpdf, para paragraph, x, y, width float64) float64 {
	words := splitWords(pdf, para.runs)
	if len(words) == 0 {
		return y
	}

	setBodyFont(pdf, false)
	spaceWidth := pdf.GetStringWidth(" ")

	y += para.spacingBefore

	var line []word
	wordsWidth := 0.0

	flush := func(last bool) {
		if len(line) == 0 {
			return
		}
		y += lineHeight
		gap := spaceWidth
		if para.justified && !last && len(line) > 1 {
			gap = (width - wordsWidth) / float64(len(line)-1)
		}
		cursor := x
		for _, w := range line {
			setBodyFont(pdf, w.bold)
			pdf.Text(cursor, y, w.text)
			cursor += w.width + gap
		}
		line = line[:0]
		wordsWidth = 0
	}

	for _, w := range words {
		occupied := wordsWidth + spaceWidth*float64(len(line)-1)
		if len(line) > 0 && occupied+spaceWidth+w.width > width {
			flush(false)
		}
		line = append(line, w)
		wordsWidth += w.width
	}
	flush(true)

	return y
}
