package ingestion

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// sheetCells reads typed values out of one worksheet. Every accessor is
// best-effort: a missing cell, an unexpected cell shape, or a parse failure
// yields an absent/empty result, never an error. Row and column indexes are
// zero-based.
type sheetCells struct {
	file  *excelize.File
	sheet string
}

func newSheetCells(file *excelize.File, sheet string) *sheetCells {
	return &sheetCells{file: file, sheet: sheet}
}

// String returns the formatted cell value, trimmed. Absent cells yield "".
func (c *sheetCells) String(row, col int) string {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return ""
	}
	value, err := c.file.GetCellValue(c.sheet, name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

// IdentityNumber returns a numeric cell as an integer-valued string with no
// decimal point or scientific notation, and any other cell as its trimmed
// formatted value. Spreadsheets love turning long identity numbers into
// floats; this undoes that.
func (c *sheetCells) IdentityNumber(row, col int) string {
	if value, ok := c.numericValue(row, col); ok {
		return strconv.FormatFloat(value, 'f', 0, 64)
	}
	return c.String(row, col)
}

// Date returns the calendar date held by a date-formatted numeric cell. Any
// cell not flagged with a date number format yields nil: blank cells, text
// that merely looks like a date, and plain numbers all signal invalid input
// rather than inviting heuristic parsing.
func (c *sheetCells) Date(row, col int) *time.Time {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return nil
	}
	serial, ok := c.numericValue(row, col)
	if !ok {
		return nil
	}
	styleID, err := c.file.GetCellStyle(c.sheet, name)
	if err != nil {
		return nil
	}
	style, err := c.file.GetStyle(styleID)
	if err != nil || style == nil || !isDateStyle(style) {
		return nil
	}
	parsed, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return nil
	}
	date := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	return &date
}

// Integer returns a numeric cell truncated to an integer, or a string cell
// parsed as one. Any other shape yields nil.
func (c *sheetCells) Integer(row, col int) *int {
	if value, ok := c.numericValue(row, col); ok {
		truncated := int(value)
		return &truncated
	}
	raw := c.String(row, col)
	if raw == "" {
		return nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &parsed
}

// numericValue reads the raw stored value of a cell and reports whether it is
// a number. Numeric cells carry no explicit type attribute in xlsx, so both
// CellTypeNumber and CellTypeUnset are candidates.
func (c *sheetCells) numericValue(row, col int) (float64, bool) {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return 0, false
	}
	cellType, err := c.file.GetCellType(c.sheet, name)
	if err != nil {
		return 0, false
	}
	if cellType != excelize.CellTypeNumber && cellType != excelize.CellTypeUnset {
		return 0, false
	}
	raw, err := c.file.GetCellValue(c.sheet, name, excelize.Options{RawCellValue: true})
	if err != nil {
		return 0, false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// Builtin number formats 14-22 and 45-47 are the date/time formats.
func isBuiltinDateFmt(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 45 && id <= 47)
}

func isDateStyle(style *excelize.Style) bool {
	if isBuiltinDateFmt(style.NumFmt) {
		return true
	}
	if style.CustomNumFmt == nil {
		return false
	}
	return customFmtLooksLikeDate(*style.CustomNumFmt)
}

// customFmtLooksLikeDate scans a custom number format for date/time tokens,
// ignoring quoted literals and bracketed sections.
func customFmtLooksLikeDate(format string) bool {
	inQuote := false
	inBracket := false
	for _, r := range format {
		switch {
		case inQuote:
			if r == '"' {
				inQuote = false
			}
		case inBracket:
			if r == ']' {
				inBracket = false
			}
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		case r == 'y' || r == 'm' || r == 'd' || r == 'h' || r == 's' ||
			r == 'Y' || r == 'M' || r == 'D' || r == 'H' || r == 'S':
			return true
		}
	}
	return false
}

// sheetRowCount counts the physically present rows of the sheet, blank ones
// included. GetRows trims trailing all-blank rows; the row iterator does not,
// which is what separates "no rows beyond the header" from "rows present but
// all blank".
func sheetRowCount(file *excelize.File, sheet string) int {
	iter, err := file.Rows(sheet)
	if err != nil {
		return 0
	}
	defer func() { _ = iter.Close() }()
	count := 0
	for iter.Next() {
		count++
	}
	return count
}

// rowEmpty reports whether every cell of a formatted row is blank after trim.
// Trailing blank rows in real sheets show up this way.
func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
