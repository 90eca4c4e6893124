package ingestion

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/creamas/volcert/internal/domain"
	"github.com/creamas/volcert/internal/repository"

	"github.com/xuri/excelize/v2"
)

// Column layout of the participant sheet, zero-based.
const (
	colGivenNames = iota
	colSurnames
	colDNI
	colStartDate
	colEndDate
	colHours
	colRole
	colProgram
	colTeamValue
)

// CodeGenerator yields a fresh unused verification code.
type CodeGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// Service runs the two-phase batch ingestion pipeline: parse the workbook,
// validate every row, then commit all candidates or none of them.
type Service struct {
	participants repository.ParticipantRepository
	logs         repository.IngestionLogRepository
	codes        CodeGenerator
}

// NewService creates a new ingestion service.
func NewService(
	participants repository.ParticipantRepository,
	logs repository.IngestionLogRepository,
	codes CodeGenerator,
) *Service {
	return &Service{
		participants: participants,
		logs:         logs,
		codes:        codes,
	}
}

// Request describes one uploaded workbook.
type Request struct {
	FileName string
	Data     io.Reader
}

// Process ingests one workbook. Every failure mode is reported through the
// BatchResult; nothing escapes as a crash. The batch is strictly
// all-or-nothing: one invalid row anywhere in the sheet voids the whole
// upload.
func (s *Service) Process(ctx context.Context, req Request) domain.BatchResult {
	if req.Data == nil {
		return domain.Rejected("Por favor selecciona un archivo.")
	}

	file, err := excelize.OpenReader(req.Data)
	if err != nil {
		s.logBatchError(ctx, req, nil, err)
		return domain.Rejected(fmt.Sprintf("Error al procesar el archivo: %v", err))
	}
	defer func() { _ = file.Close() }()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return domain.Rejected("El archivo Excel no contiene datos (solo cabeceras o vacío).")
	}
	sheet := sheets[0]

	rows, err := file.GetRows(sheet)
	if err != nil {
		s.logBatchError(ctx, req, nil, err)
		return domain.Rejected(fmt.Sprintf("Error al procesar el archivo: %v", err))
	}
	if len(rows) < 2 {
		// GetRows trims trailing all-blank rows. If the sheet physically
		// holds rows past the header anyway, the rows exist but carry
		// nothing, which is the no-valid-participants case.
		if sheetRowCount(file, sheet) >= 2 {
			return domain.Rejected("No se encontraron participantes válidos para guardar.")
		}
		// Only a header, or nothing at all.
		return domain.Rejected("El archivo Excel no contiene datos (solo cabeceras o vacío).")
	}

	cells := newSheetCells(file, sheet)

	var (
		errors     []string
		candidates []domain.Participant
	)
	for i := 1; i < len(rows); i++ {
		if rowEmpty(rows[i]) {
			continue
		}

		rowNumber := i + 1 // 1-based display numbering
		result := ValidateRow(RawRow{
			Number:     rowNumber,
			GivenNames: cells.String(i, colGivenNames),
			Surnames:   cells.String(i, colSurnames),
			DNI:        cells.IdentityNumber(i, colDNI),
			StartDate:  cells.Date(i, colStartDate),
			EndDate:    cells.Date(i, colEndDate),
			Hours:      cells.Integer(i, colHours),
			Role:       cells.String(i, colRole),
			Program:    cells.String(i, colProgram),
			TeamValue:  cells.String(i, colTeamValue),
		})
		if !result.Valid() {
			errors = append(errors, result.Err)
			s.logBatchError(ctx, req, &rowNumber, fmt.Errorf("%s", result.Err))
			continue
		}
		candidates = append(candidates, result.Candidate)
	}

	if len(errors) > 0 {
		log.Printf("[ingest] %s rejected: %d row errors, nothing saved", req.FileName, len(errors))
		return domain.BatchResult{Errors: errors, SavedIDs: []int64{}}
	}
	if len(candidates) == 0 {
		return domain.Rejected("No se encontraron participantes válidos para guardar.")
	}

	for i := range candidates {
		code, err := s.codes.Generate(ctx)
		if err != nil {
			s.logBatchError(ctx, req, nil, err)
			return domain.Rejected(fmt.Sprintf("Error crítico al generar códigos de verificación: %v", err))
		}
		candidates[i].VerificationCode = code
	}

	saved, err := s.participants.SaveAll(ctx, candidates)
	if err != nil {
		// The transaction rolled back: the caller must not assume any row
		// survived, so the id list stays empty.
		s.logBatchError(ctx, req, nil, err)
		return domain.Rejected(fmt.Sprintf("Error crítico al guardar en base de datos: %v", err))
	}

	savedIDs := make([]int64, 0, len(saved))
	for _, participant := range saved {
		savedIDs = append(savedIDs, participant.ID)
	}
	log.Printf("[ingest] %s committed: %d participants saved", req.FileName, len(savedIDs))
	return domain.BatchResult{Errors: []string{}, SavedIDs: savedIDs}
}

// logBatchError records a failure for observability, best effort.
func (s *Service) logBatchError(ctx context.Context, req Request, rowNumber *int, err error) {
	if s.logs == nil || err == nil {
		return
	}
	entry := domain.IngestionLogEntry{
		FileName:     req.FileName,
		ErrorMessage: err.Error(),
	}
	if rowNumber != nil {
		entry.RowNumber = rowNumber
	}
	_ = s.logs.Record(ctx, entry)
}
