package schedule

import (
	"strings"

	"planning/internal/domain/course"
)

// DefaultHeaderRows is the number of leading sheet rows that hold titles, not slots.
const DefaultHeaderRows = 5

// Matrix is the sparse time x studio sheet content once header rows are dropped.
// Row[0] is the time label, Row[1..12] the course cells. Rows may be ragged.
type Matrix struct {
	rows [][]string
}

// NewMatrix drops the first headerRows rows of values.
// PRE: headerRows >= 0
// POST: Returns a Matrix over the remaining rows (values is not copied)
func NewMatrix(values [][]string, headerRows int) Matrix {
	if headerRows < 0 {
		headerRows = 0
	}
	if headerRows >= len(values) {
		return Matrix{}
	}
	return Matrix{rows: values[headerRows:]}
}

// Len returns the number of schedule rows.
func (m Matrix) Len() int {
	return len(m.rows)
}

// RowIndex returns the first row whose time label equals slot exactly, or -1.
func (m Matrix) RowIndex(slot string) int {
	for i, row := range m.rows {
		if len(row) > 0 && row[0] == slot {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed content at row, col; "" when out of range.
func (m Matrix) Cell(row, col int) string {
	if row < 0 || row >= len(m.rows) || col < 0 || col >= len(m.rows[row]) {
		return ""
	}
	return strings.TrimSpace(m.rows[row][col])
}

// Rowspan returns how many 15-minute slots a course cell covers.
// The span comes from the cell's "HH:MM à HH:MM" range, truncated; a cell
// without a range spans DefaultRowspan. A non-positive span is clamped to 1.
func Rowspan(text string) int {
	tr, ok := course.ParseTimeRange(text)
	if !ok {
		return DefaultRowspan
	}
	span := tr.Minutes() / SlotMinutes
	if span < 1 {
		return 1
	}
	return span
}
