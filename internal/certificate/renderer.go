package certificate

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	fpdi "github.com/jung-kurt/gofpdf/contrib/gofpdi"

	"github.com/creamas/volcert/internal/domain"
)

// ptPerMM converts millimeters to PDF points. The factor must stay exact so
// element positions never drift between certificates.
const ptPerMM = 2.83465

func mm(v float64) float64 { return v * ptPerMM }

// Spatial constants, in millimeters. The bottom margin is zero so the footer
// can be pinned near the page edge.
const (
	marginSideMM = 20
	marginTopMM  = 50 // reserved for the template letterhead
	footerXMM    = 20
	footerYMM    = 25 // measured from the bottom edge
)

const organizationName = "CREA MÁS PERU"

const (
	introBoilerplate = " (en adelante, Crea+) es una asociación civil sin fines de lucro compuesta por un equipo multidisciplinario de jóvenes, el cual busca fortalecer el nivel educativo nacional, formando capacidades de liderazgo y otorgando herramientas para el crecimiento a través de un voluntariado profesional."
	closingSentence  = "Se expide el presente certificado para los fines que se estimen convenientes."
	signatureOpener  = "Atentamente,"
)

// Renderer composes one participant certificate: the template page as a
// background layer, five flowing paragraphs, and an absolutely positioned
// footer carrying the verification code.
//
// The template importer keeps package-level state, so a Renderer must not
// be shared across goroutines.
type Renderer struct {
	template    []byte
	verifierURL string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithVerifierURL overrides the verifier URL printed in the footer.
func WithVerifierURL(url string) Option {
	return func(r *Renderer) {
		if strings.TrimSpace(url) != "" {
			r.verifierURL = url
		}
	}
}

// NewRenderer builds a renderer over the single-page background template.
func NewRenderer(template []byte, opts ...Option) *Renderer {
	renderer := &Renderer{
		template:    template,
		verifierURL: "https://creamas.org/voluntariado/verificador/",
	}
	for _, opt := range opts {
		opt(renderer)
	}
	return renderer
}

// Render produces the certificate PDF for one participant.
//
// The template importer reports malformed input by panicking, so the whole
// composition runs under a recover that converts any failure into an error
// the archiver can log and skip.
func (r *Renderer) Render(p domain.Participant) (out []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = fmt.Errorf("certificate render failed: %v", rec)
		}
	}()

	if len(r.template) == 0 {
		return nil, fmt.Errorf("certificate template is empty")
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{OrientationStr: "P", UnitStr: "pt", SizeStr: "A4"})
	pdf.SetAutoPageBreak(false, 0)

	var rs io.ReadSeeker = bytes.NewReader(r.template)
	tpl := fpdi.ImportPageFromStream(pdf, &rs, 1, "/MediaBox")
	box, ok := fpdi.GetPageSizes()[1]["/MediaBox"]
	if !ok {
		return nil, fmt.Errorf("template page has no MediaBox")
	}
	pageWidth, pageHeight := box["w"], box["h"]
	if pageWidth <= 0 || pageHeight <= 0 {
		return nil, fmt.Errorf("template page reports empty dimensions")
	}

	// The canvas adopts the template's dimensions; the template is drawn
	// first so every text element lands on top of it.
	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: pageWidth, Ht: pageHeight})
	fpdi.UseImportedTemplate(pdf, tpl, 0, 0, pageWidth, pageHeight)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	fullName := p.FullName()
	dataSentence := fmt.Sprintf(
		" con cédula Nº %s, participó como voluntario(a) profesional en el programa \"%s\" %s en el rol de %s cumpliendo con %d horas de voluntariado profesional.",
		p.DNI, p.Program, dateRangePhrase(p.StartDate, p.EndDate), p.Role, p.Hours,
	)

	paragraphs := []paragraph{
		{spacingBefore: mm(10), justified: true, runs: []run{
			{text: organizationName, bold: true},
			{text: introBoilerplate},
		}},
		{spacingBefore: mm(5), justified: true, runs: []run{
			{text: "Mediante el presente, Crea+ deja constancia que "},
			{text: fullName, bold: true},
			{text: dataSentence},
		}},
		{spacingBefore: mm(5), justified: true, runs: []run{
			{text: fmt.Sprintf("Certificamos que %s demostró responsabilidad y compromiso en el desarrollo de sus funciones.", fullName)},
		}},
		{spacingBefore: mm(15), runs: []run{{text: closingSentence}}},
		{spacingBefore: mm(20), runs: []run{{text: signatureOpener}}},
	}

	x := mm(marginSideMM)
	textWidth := pageWidth - 2*mm(marginSideMM)
	y := mm(marginTopMM)
	for _, para := range paragraphs {
		// Core fonts draw in CP1252; translate before measuring.
		for i := range para.runs {
			para.runs[i].text = tr(para.runs[i].text)
		}
		y = drawParagraph(pdf, para, x, y, textWidth)
	}

	// Footer pinned at an absolute coordinate from the bottom-left corner,
	// independent of the margin box.
	footer := fmt.Sprintf(
		"Este certificado es emitido por %s. Verificador: %s Código: %s",
		organizationName, r.verifierURL, p.VerificationCode,
	)
	pdf.SetFont("Helvetica", "", footerFontSize)
	pdf.Text(mm(footerXMM), pageHeight-mm(footerYMM), tr(footer))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write certificate pdf: %w", err)
	}
	return buf.Bytes(), nil
}
