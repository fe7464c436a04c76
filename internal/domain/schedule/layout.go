package schedule

// CellKind tells the renderer what to emit for a plan cell.
type CellKind int

const (
	// CellSkip is covered by a course spanning down from an earlier row; emit nothing.
	CellSkip CellKind = iota
	// CellEmpty is a free slot.
	CellEmpty
	// CellCourse starts a course spanning Rowspan rows.
	CellCourse
)

// String returns the kind name.
func (k CellKind) String() string {
	switch k {
	case CellSkip:
		return "skip"
	case CellEmpty:
		return "empty"
	case CellCourse:
		return "course"
	}
	return "unknown"
}

// Cell is one column of one plan row.
type Cell struct {
	Kind    CellKind
	Column  int // 1..12
	Day     string
	Studio  int
	Rowspan int    // set for CellCourse only
	Content string // trimmed raw course text, CellCourse only
}

// Row is one time slot of the plan.
type Row struct {
	Time  string
	Cells [Columns]Cell
}

// Plan is the render plan of a weekly grid: one row per expected slot.
type Plan struct {
	Rows []Row
}

// Courses returns the course cells of the plan in row-major order.
func (p Plan) Courses() []Cell {
	var out []Cell
	for _, r := range p.Rows {
		for _, c := range r.Cells {
			if c.Kind == CellCourse {
				out = append(out, c)
			}
		}
	}
	return out
}

// BuildPlan lays out matrix over the expected slots.
// Each column keeps a skip counter: a course of span R at a slot marks the
// next R-1 slots of its column as CellSkip. A slot with no matching matrix
// row renders as a full row of empty cells, keeping the time axis gap-free.
// PRE: slots are in chronological order
// POST: len(plan.Rows) == len(slots)
func BuildPlan(m Matrix, slots []string) Plan {
	var skip [Columns]int
	plan := Plan{Rows: make([]Row, 0, len(slots))}

	for _, slot := range slots {
		rowIdx := m.RowIndex(slot)
		row := Row{Time: slot}

		for col := 1; col <= Columns; col++ {
			day := Days[(col-1)/StudiosPerDay]
			cell := Cell{Column: col, Day: day, Studio: ColumnStudio(col)}

			switch {
			case skip[col-1] > 0:
				skip[col-1]--
				cell.Kind = CellSkip
			case rowIdx != -1 && m.Cell(rowIdx, col) != "":
				content := m.Cell(rowIdx, col)
				span := Rowspan(content)
				skip[col-1] = span - 1
				cell.Kind = CellCourse
				cell.Rowspan = span
				cell.Content = content
			default:
				cell.Kind = CellEmpty
			}
			row.Cells[col-1] = cell
		}
		plan.Rows = append(plan.Rows, row)
	}
	return plan
}
