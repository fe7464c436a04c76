package orchestrators

import (
	"log/slog"

	"planning/internal/domain/dayfilter"
)

// ToggleDayInput carries the current filter and the day to flip.
type ToggleDayInput struct {
	State dayfilter.State
	Day   string
}

// ExecuteToggleDay flips one day's visibility.
// PRE: input.State was produced by dayfilter.Decode or Default
// POST: The returned state keeps at least one visible day; on error it equals input.State
func ExecuteToggleDay(input ToggleDayInput) (dayfilter.State, error) {
	next, err := input.State.Toggle(input.Day)
	if err != nil {
		slog.Debug("day_toggle_rejected", "day", input.Day, "reason", err.Error())
		return input.State, err
	}
	return next, nil
}
