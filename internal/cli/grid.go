package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"planning/internal/domain/course"
	"planning/internal/domain/schedule"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1)
	fullStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Padding(0, 1)
)

// continued marks a slot covered by a course starting above.
const continued = "┆"

// GridCmd renders the weekly grid in the terminal.
type GridCmd struct {
	File  string `help:"Read the schedule from a CSV export instead of the configured source." type:"path"`
	Width int    `help:"Truncate course titles to this many characters." default:"14"`
}

func (c *GridCmd) Run(ctx *Context) error {
	cfg, err := ctx.Settings.Load(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	slots, err := cfg.TimeSlots()
	if err != nil {
		return err
	}
	src, err := ctx.source(c.File)
	if err != nil {
		return err
	}
	values, err := src.FetchSchedule(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("fetch schedule: %w", err)
	}

	plan := schedule.BuildPlan(schedule.NewMatrix(values, ctx.HeaderRows), slots)
	fmt.Fprintln(ctx.Out, renderGrid(plan, c.Width))
	fmt.Fprintf(ctx.Out, "%d courses over %d slots\n", len(plan.Courses()), len(plan.Rows))
	return nil
}

func renderGrid(plan schedule.Plan, width int) string {
	headers := []string{""}
	for _, d := range schedule.Days {
		headers = append(headers, schedule.DayLabel(d)+" 1", schedule.DayLabel(d)+" 2")
	}

	complete := map[[2]int]bool{}
	rows := make([][]string, 0, len(plan.Rows))
	for i, r := range plan.Rows {
		row := []string{r.Time}
		for _, cell := range r.Cells {
			switch cell.Kind {
			case schedule.CellCourse:
				d := course.Parse(cell.Content, nil)
				if d.IsComplete {
					complete[[2]int{i, cell.Column}] = true
				}
				row = append(row, truncate(d.Label, width))
			case schedule.CellSkip:
				row = append(row, continued)
			default:
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return timeStyle
			case complete[[2]int{row, col}]:
				return fullStyle
			}
			return cellStyle
		})
	return t.Render()
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if n <= 0 || len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
