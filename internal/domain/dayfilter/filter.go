package dayfilter

import (
	"errors"
	"fmt"

	"planning/internal/domain/schedule"
)

// Domain errors
var (
	ErrLastVisibleDay = errors.New("at least one day must remain visible")
	ErrUnknownDay     = errors.New("unknown day")
)

// LastDayNotice is shown when a visitor tries to hide the only visible day.
const LastDayNotice = "Au moins un jour doit rester visible"

// State maps each schedule day key to its visibility. At least one day is visible.
type State map[string]bool

// Default returns a state with every day visible.
func Default() State {
	s := make(State, len(schedule.Days))
	for _, d := range schedule.Days {
		s[d] = true
	}
	return s
}

// Decode restores a persisted map. Missing days default to visible and
// unknown keys are dropped. A map hiding every day is malformed and yields Default.
func Decode(m map[string]bool) State {
	s := Default()
	for _, d := range schedule.Days {
		if v, ok := m[d]; ok {
			s[d] = v
		}
	}
	if s.VisibleCount() == 0 {
		return Default()
	}
	return s
}

// VisibleCount returns how many days are visible.
func (s State) VisibleCount() int {
	n := 0
	for _, d := range schedule.Days {
		if s.Visible(d) {
			n++
		}
	}
	return n
}

// Visible reports whether day is shown. Days absent from the map are visible.
func (s State) Visible(day string) bool {
	v, ok := s[day]
	return !ok || v
}

// Toggle flips day's visibility.
// PRE: s satisfies the at-least-one-visible invariant
// POST: Returns a new state; on error s is returned unchanged
func (s State) Toggle(day string) (State, error) {
	if !schedule.IsValidDay(day) {
		return s, fmt.Errorf("toggle %q: %w", day, ErrUnknownDay)
	}
	if s.Visible(day) && s.VisibleCount() == 1 {
		return s, ErrLastVisibleDay
	}
	next := make(State, len(schedule.Days))
	for _, d := range schedule.Days {
		next[d] = s.Visible(d)
	}
	next[day] = !next[day]
	return next, nil
}
