package certificate

import (
	"fmt"
	"time"
)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// Placeholder for the zero-date case; ingestion validation normally
// guarantees both dates are set.
const invalidDatesPhrase = " [FECHAS INVÁLIDAS] "

// dateRangePhrase renders the participation period in Spanish. When both
// dates fall in the same year the year is mentioned once at the end.
func dateRangePhrase(start, end time.Time) string {
	if start.IsZero() || end.IsZero() {
		return invalidDatesPhrase
	}

	startMonth := spanishMonths[start.Month()-1]
	endMonth := spanishMonths[end.Month()-1]

	if start.Year() == end.Year() {
		return fmt.Sprintf("de %s a %s de %d", startMonth, endMonth, start.Year())
	}
	return fmt.Sprintf("de %s de %d a %s de %d", startMonth, start.Year(), endMonth, end.Year())
}
