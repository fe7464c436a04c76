package projections

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"planning/internal/domain/cart"
	"planning/internal/domain/course"
	"planning/internal/domain/dayfilter"
	"planning/internal/domain/schedule"
	"planning/internal/domain/settings"
	"planning/internal/domain/teacher"
)

// PlanningScheduleSource provides the raw schedule matrix.
type PlanningScheduleSource interface {
	FetchSchedule(ctx context.Context) ([][]string, error)
}

// PlanningSettingsStore defines the settings interface needed by this projection.
type PlanningSettingsStore interface {
	Load(ctx context.Context) (settings.Settings, error)
}

// GetPlanningDeps holds dependencies for the projection.
type GetPlanningDeps struct {
	Source     PlanningScheduleSource
	Settings   PlanningSettingsStore
	HeaderRows int
	Now        func() time.Time
}

// GetPlanningQuery carries the visitor state the page depends on.
type GetPlanningQuery struct {
	Days dayfilter.State
}

// DayColumn is one day header spanning two studio columns.
type DayColumn struct {
	Key     string
	Label   string
	Visible bool
}

// TeacherBadge is the resolved teacher display of a course.
type TeacherBadge struct {
	FirstName  string
	FullName   string
	PhotoURL   string
	ProfileURL string
	Style      string // one of teacher.ValidStyles, after fallback
}

// CourseCard is a course cell ready for rendering.
type CourseCard struct {
	Title           string
	Lines           []string
	Age             course.AgeCategory
	Time            string
	Complete        bool
	NoSpectacle     bool
	NoSpectacleText string // tooltip of the no-spectacle icon
	OnAudition      bool
	Bookable        bool
	Category        *course.Category
	Teacher         *TeacherBadge
	Item            cart.Item
	ItemJSON        string // data-course attribute
	Key             string // data-key attribute, cart.Key.String()
}

// PlanningCell is an emitted grid cell; skipped cells are not listed.
type PlanningCell struct {
	Kind    string // "empty" or "course"
	Column  int
	Day     string
	Studio  int
	Rowspan int
	Hidden  bool
	Course  *CourseCard
}

// PlanningRow is one time slot.
type PlanningRow struct {
	Time  string
	Cells []PlanningCell
}

// PlanningView is the read model of the planning page.
type PlanningView struct {
	Days            []DayColumn
	Rows            []PlanningRow
	Categories      []course.Category
	Teachers        []teacher.Teacher
	Ages            []course.AgeCategory
	FormFields      []settings.FormField
	Ribbon          settings.Ribbon
	NoSpectacleText string
	BookingOpen     bool
	CourseCount     int
}

// QueryGetPlanning fetches the schedule and lays it out over the configured hours.
// PRE: deps.Source and deps.Settings are set
// POST: len(view.Rows) equals the number of configured time slots
func QueryGetPlanning(ctx context.Context, deps GetPlanningDeps, query GetPlanningQuery) (PlanningView, error) {
	cfg, err := deps.Settings.Load(ctx)
	if err != nil {
		return PlanningView{}, fmt.Errorf("load settings: %w", err)
	}
	slots, err := cfg.TimeSlots()
	if err != nil {
		return PlanningView{}, fmt.Errorf("time slots: %w", err)
	}
	values, err := deps.Source.FetchSchedule(ctx)
	if err != nil {
		return PlanningView{}, fmt.Errorf("fetch schedule: %w", err)
	}

	days := query.Days
	if days == nil {
		days = dayfilter.Default()
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	open := cfg.BookingOpen(now())

	plan := schedule.BuildPlan(schedule.NewMatrix(values, deps.HeaderRows), slots)

	view := PlanningView{
		Rows:            make([]PlanningRow, 0, len(plan.Rows)),
		Categories:      cfg.Categories,
		Teachers:        cfg.Teachers,
		FormFields:      cfg.FormFields,
		Ribbon:          cfg.Ribbon,
		NoSpectacleText: cfg.NoSpectacleText,
		BookingOpen:     open,
	}
	for _, d := range schedule.Days {
		view.Days = append(view.Days, DayColumn{Key: d, Label: schedule.DayLabel(d), Visible: days.Visible(d)})
	}

	seenAges := map[course.AgeCategory]bool{}
	for _, r := range plan.Rows {
		row := PlanningRow{Time: r.Time}
		for _, c := range r.Cells {
			if c.Kind == schedule.CellSkip {
				continue
			}
			cell := PlanningCell{
				Kind:    c.Kind.String(),
				Column:  c.Column,
				Day:     c.Day,
				Studio:  c.Studio,
				Rowspan: 1,
				Hidden:  !days.Visible(c.Day),
			}
			if c.Kind == schedule.CellCourse {
				cell.Rowspan = c.Rowspan
				card := buildCard(c, cfg, open)
				cell.Course = &card
				view.CourseCount++
				if card.Age != course.AgeNone && !seenAges[card.Age] {
					seenAges[card.Age] = true
					view.Ages = append(view.Ages, card.Age)
				}
			}
			row.Cells = append(row.Cells, cell)
		}
		view.Rows = append(view.Rows, row)
	}

	slog.Debug("planning_built", "rows", len(view.Rows), "courses", view.CourseCount, "booking_open", open)
	return view, nil
}

func buildCard(c schedule.Cell, cfg settings.Settings, open bool) CourseCard {
	d := course.Parse(c.Content, cfg.Teachers)
	card := CourseCard{
		Title:       d.Label,
		Lines:       d.DisplayLines,
		Age:         d.Age,
		Complete:    d.IsComplete,
		NoSpectacle: d.NoSpectacle,
		OnAudition:  d.OnAudition,
		Bookable:    open && !d.IsComplete && !d.OnAudition,
	}
	if d.NoSpectacle {
		card.NoSpectacleText = cfg.NoSpectacleText
	}
	if d.TimeRange != nil {
		card.Time = d.TimeRange.String()
	}
	if cat, ok := course.CategoryFor(c.Content, cfg.Categories); ok {
		card.Category = &cat
	}
	if d.Teacher != nil {
		card.Teacher = &TeacherBadge{
			FirstName:  d.Teacher.FirstName,
			FullName:   d.Teacher.FullName(),
			PhotoURL:   d.Teacher.PhotoURL,
			ProfileURL: d.Teacher.ProfileURL,
			Style:      teacher.ResolveStyle(cfg.TeacherStyle, *d.Teacher),
		}
	}

	card.Item = cart.Item{Title: c.Content, Day: schedule.DayLabel(c.Day), Time: card.Time}
	if card.Teacher != nil {
		card.Item.Teacher = card.Teacher.FullName
	}
	card.Key = card.Item.Key().String()
	if b, err := json.Marshal(card.Item); err == nil {
		card.ItemJSON = string(b)
	}
	return card
}
