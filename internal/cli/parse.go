package cli

import (
	"fmt"
	"strings"

	"planning/internal/domain/course"
	"planning/internal/domain/schedule"
)

// ParseCmd shows how one schedule cell is understood.
type ParseCmd struct {
	Cell string `arg:"" help:"Raw cell text; use \\n for line breaks."`
}

func (c *ParseCmd) Run(ctx *Context) error {
	cfg, err := ctx.Settings.Load(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	raw := strings.ReplaceAll(c.Cell, `\n`, "\n")
	d := course.Parse(raw, cfg.Teachers)

	w := ctx.Out
	fmt.Fprintf(w, "label:        %s\n", d.Label)
	fmt.Fprintf(w, "official:     %s\n", course.OfficialLabel(raw))
	fmt.Fprintf(w, "age:          %s\n", orNone(string(d.Age)))
	if d.TimeRange != nil {
		fmt.Fprintf(w, "time:         %s (%d min)\n", d.TimeRange, d.TimeRange.Minutes())
	} else {
		fmt.Fprintln(w, "time:         (none)")
	}
	fmt.Fprintf(w, "rowspan:      %d\n", schedule.Rowspan(raw))
	fmt.Fprintf(w, "teacher:      %s\n", orNone(d.TeacherName()))
	if cat, ok := course.CategoryFor(raw, cfg.Categories); ok {
		fmt.Fprintf(w, "category:     %s (%s)\n", cat.Name, cat.Slug)
	} else {
		fmt.Fprintln(w, "category:     (none)")
	}
	fmt.Fprintf(w, "complete:     %v\n", d.IsComplete)
	fmt.Fprintf(w, "no spectacle: %v\n", d.NoSpectacle)
	fmt.Fprintf(w, "on audition:  %v\n", d.OnAudition)
	for _, line := range d.DisplayLines {
		fmt.Fprintf(w, "  | %s\n", line)
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
