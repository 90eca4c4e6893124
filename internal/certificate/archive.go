package certificate

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"log"
	"regexp"

	"github.com/creamas/volcert/internal/domain"
	"github.com/creamas/volcert/internal/repository"
)

// CertificateRenderer produces the PDF bytes for one participant.
type CertificateRenderer interface {
	Render(p domain.Participant) ([]byte, error)
}

// Archiver renders the certificates for a set of persisted records and packs
// them into a single ZIP archive.
type Archiver struct {
	participants repository.ParticipantRepository
	renderer     CertificateRenderer
}

// NewArchiver creates a new batch archiver.
func NewArchiver(participants repository.ParticipantRepository, renderer CertificateRenderer) *Archiver {
	return &Archiver{participants: participants, renderer: renderer}
}

var fileNameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9]`)

// entryName derives the archive entry name from the identity number and the
// sanitized full name.
func entryName(p domain.Participant) string {
	safeName := fileNameSanitizer.ReplaceAllString(p.GivenNames+"_"+p.Surnames, "_")
	return p.DNI + "_" + safeName + ".pdf"
}

// BuildArchive fetches the requested records, renders each certificate
// sequentially, and returns the resulting ZIP bytes. An empty id list yields
// a valid empty archive. A render failure for one record is logged and that
// entry omitted; only failures of the archive container itself propagate.
func (a *Archiver) BuildArchive(ctx context.Context, ids []int64) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	if len(ids) == 0 {
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("failed to finalize archive: %w", err)
		}
		return buf.Bytes(), nil
	}

	participants, err := a.participants.FindAllByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}

	for _, participant := range participants {
		pdfBytes, renderErr := a.renderer.Render(participant)
		if renderErr != nil || len(pdfBytes) == 0 {
			// One bad record never aborts the whole archive.
			log.Printf("[certificate] skipping participant %d (%s): %v",
				participant.ID, participant.DNI, renderErr)
			continue
		}

		entry, entryErr := zw.Create(entryName(participant))
		if entryErr != nil {
			return nil, fmt.Errorf("failed to create archive entry: %w", entryErr)
		}
		if _, writeErr := entry.Write(pdfBytes); writeErr != nil {
			return nil, fmt.Errorf("failed to write archive entry: %w", writeErr)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
