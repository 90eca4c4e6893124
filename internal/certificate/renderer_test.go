package certificate

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// buildTemplate produces a minimal single-page A4 background, the same shape
// as the real letterhead template.
func buildTemplate(t *testing.T) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 20)
	pdf.Text(100, 100, "PLANTILLA")
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("failed to build template: %v", err)
	}
	return buf.Bytes()
}

func TestRenderProducesPDF(t *testing.T) {
	renderer := NewRenderer(buildTemplate(t))
	p := sampleParticipant(1, "12345678")
	p.VerificationCode = "CERT-1A2B3C4D"

	payload, err := renderer.Render(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(payload, []byte("%PDF")) {
		t.Fatalf("expected a pdf payload, got prefix %q", payload[:min(8, len(payload))])
	}
	if len(payload) < 1000 {
		t.Fatalf("suspiciously small pdf: %d bytes", len(payload))
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	template := buildTemplate(t)
	p := sampleParticipant(1, "12345678")
	p.VerificationCode = "CERT-1A2B3C4D"

	first, err := NewRenderer(template).Render(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := NewRenderer(template).Render(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// gofpdf stamps a creation date; everything else must match.
	if len(first) != len(second) {
		t.Fatalf("expected stable output size, got %d then %d bytes", len(first), len(second))
	}
}

func TestRenderRejectsEmptyTemplate(t *testing.T) {
	renderer := NewRenderer(nil)
	if _, err := renderer.Render(sampleParticipant(1, "12345678")); err == nil {
		t.Fatalf("expected error for empty template")
	}
}

func TestRenderRejectsCorruptTemplate(t *testing.T) {
	renderer := NewRenderer([]byte("this is not a pdf at all"))
	_, err := renderer.Render(sampleParticipant(1, "12345678"))
	if err == nil {
		t.Fatalf("expected error for corrupt template")
	}
	if !strings.Contains(err.Error(), "render failed") {
		t.Fatalf("expected recovered render failure, got %v", err)
	}
}
