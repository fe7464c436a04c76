package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Day keys, lower-case French weekday names as persisted by the day filter.
const (
	Lundi    = "lundi"
	Mardi    = "mardi"
	Mercredi = "mercredi"
	Jeudi    = "jeudi"
	Vendredi = "vendredi"
	Samedi   = "samedi"
)

// Days lists the six schedule days in column order.
var Days = []string{Lundi, Mardi, Mercredi, Jeudi, Vendredi, Samedi}

// Grid dimensions.
const (
	StudiosPerDay = 2
	Columns       = 12 // len(Days) * StudiosPerDay
	SlotMinutes   = 15
	// DefaultRowspan is used when a cell carries no time range (one hour).
	DefaultRowspan = 4
)

// Domain errors
var (
	ErrInvalidTime   = errors.New("time must be in HH:MM format")
	ErrInvalidColumn = errors.New("column must be between 1 and 12")
)

// ColumnDay returns the day key of a 1-based grid column.
// PRE: 1 <= col <= Columns
// POST: Returns the day key or ErrInvalidColumn
func ColumnDay(col int) (string, error) {
	if col < 1 || col > Columns {
		return "", fmt.Errorf("column %d: %w", col, ErrInvalidColumn)
	}
	return Days[(col-1)/StudiosPerDay], nil
}

// ColumnStudio returns the 1-based studio number of a grid column.
func ColumnStudio(col int) int {
	return 1 + (col-1)%StudiosPerDay
}

// DayLabel returns the upper-case display form of a day key ("lundi" -> "LUNDI").
func DayLabel(day string) string {
	return strings.ToUpper(day)
}

// IsValidDay reports whether day is one of the six schedule day keys.
func IsValidDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// GenerateTimeSlots returns "HH:MM" labels every 15 minutes from start to end, both included.
// PRE: start and end are HH:MM clock times
// POST: Returns an empty slice when start >= end; ErrInvalidTime on a malformed bound
func GenerateTimeSlots(start, end string) ([]string, error) {
	s, err := time.Parse("15:04", strings.TrimSpace(start))
	if err != nil {
		return nil, fmt.Errorf("start %q: %w", start, ErrInvalidTime)
	}
	e, err := time.Parse("15:04", strings.TrimSpace(end))
	if err != nil {
		return nil, fmt.Errorf("end %q: %w", end, ErrInvalidTime)
	}
	slots := []string{}
	if !s.Before(e) {
		return slots, nil
	}
	for t := s; !t.After(e); t = t.Add(SlotMinutes * time.Minute) {
		slots = append(slots, t.Format("15:04"))
	}
	return slots, nil
}
