package ingestion

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/creamas/volcert/internal/domain"
)

var dniPattern = regexp.MustCompile(`^(\d{8}|\d{11})$`)

// RawRow holds the typed values extracted from one spreadsheet row before
// validation. Number is the 1-based display row number of the sheet.
type RawRow struct {
	Number     int
	GivenNames string
	Surnames   string
	DNI        string
	StartDate  *time.Time
	EndDate    *time.Time
	Hours      *int
	Role       string
	Program    string
	TeamValue  string
}

// RowResult is the outcome of validating one row: either a fully populated
// candidate, or a single error message carrying every violated rule.
type RowResult struct {
	Candidate domain.Participant
	Err       string
}

// Valid reports whether the row produced a candidate.
func (r RowResult) Valid() bool {
	return r.Err == ""
}

// ValidateRow applies the business rules to one extracted row. Every rule is
// evaluated so that all violations in a row are reported together, in rule
// order, prefixed with the display row number.
func ValidateRow(row RawRow) RowResult {
	var violations strings.Builder

	if isBlank(row.GivenNames) {
		violations.WriteString("Nombres es obligatorio. ")
	}
	if isBlank(row.Surnames) {
		violations.WriteString("Apellidos es obligatorio. ")
	}
	if isBlank(row.DNI) {
		violations.WriteString("DNI es obligatorio. ")
	} else if !dniPattern.MatchString(row.DNI) {
		violations.WriteString(fmt.Sprintf("DNI debe tener 8 o 11 dígitos. Valor: '%s'. ", row.DNI))
	}
	if row.StartDate == nil {
		violations.WriteString("Fecha Inicio es inválida o vacía. ")
	}
	if row.EndDate == nil {
		violations.WriteString("Fecha Final es inválida o vacía. ")
	}
	if row.Hours == nil {
		violations.WriteString("Horas es inválido o vacío. ")
	}
	if isBlank(row.Role) {
		violations.WriteString("Rol es obligatorio. ")
	}
	if isBlank(row.Program) {
		violations.WriteString("Programa es obligatorio. ")
	}

	if violations.Len() > 0 {
		return RowResult{Err: fmt.Sprintf("Fila %d: %s", row.Number, violations.String())}
	}

	teamValue := strings.TrimSpace(row.TeamValue)
	if teamValue == "" {
		teamValue = domain.TeamValueNone
	}

	return RowResult{Candidate: domain.Participant{
		GivenNames: strings.TrimSpace(row.GivenNames),
		Surnames:   strings.TrimSpace(row.Surnames),
		DNI:        row.DNI,
		Program:    strings.TrimSpace(row.Program),
		Role:       strings.TrimSpace(row.Role),
		StartDate:  *row.StartDate,
		EndDate:    *row.EndDate,
		Hours:      *row.Hours,
		TeamValue:  teamValue,
	}}
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
