package settings

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"planning/internal/domain/course"
	"planning/internal/domain/schedule"
	"planning/internal/domain/teacher"
)

// DateLayout is the booking window date format.
const DateLayout = "2006-01-02"

// Form field types accepted in the booking modal.
const (
	FieldText     = "text"
	FieldEmail    = "email"
	FieldTel      = "tel"
	FieldDate     = "date"
	FieldTextarea = "textarea"
)

// ValidFieldTypes lists the accepted form field types.
var ValidFieldTypes = []string{FieldText, FieldEmail, FieldTel, FieldDate, FieldTextarea}

// Domain errors
var (
	ErrInvalidWindowDate  = errors.New("booking window dates must be YYYY-MM-DD")
	ErrWindowInverted     = errors.New("booking window start must not be after its end")
	ErrEmptyFieldLabel    = errors.New("form field label cannot be empty")
	ErrInvalidFieldType   = errors.New("form field type must be text, email, tel, date or textarea")
	ErrDuplicateField     = errors.New("form field labels must be unique")
	ErrInvalidEmail       = errors.New("notification email is not a valid address")
	ErrInvalidScheduleEnd = errors.New("schedule start must be before its end")
)

// BookingWindow bounds the dates, both included, when trial courses may be booked.
type BookingWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Validate checks the window dates. An empty window is valid and always closed.
func (w BookingWindow) Validate() error {
	if w.Start == "" && w.End == "" {
		return nil
	}
	s, err := time.Parse(DateLayout, w.Start)
	if err != nil {
		return fmt.Errorf("start %q: %w", w.Start, ErrInvalidWindowDate)
	}
	e, err := time.Parse(DateLayout, w.End)
	if err != nil {
		return fmt.Errorf("end %q: %w", w.End, ErrInvalidWindowDate)
	}
	if s.After(e) {
		return ErrWindowInverted
	}
	return nil
}

// Contains reports whether day falls inside the window.
// An unset bound closes the window.
func (w BookingWindow) Contains(day time.Time) bool {
	if w.Start == "" || w.End == "" {
		return false
	}
	today := day.Format(DateLayout)
	return today >= w.Start && today <= w.End
}

// FormField is one input of the booking modal. Label doubles as the submitted key.
type FormField struct {
	Type        string `json:"type"`
	Label       string `json:"label"`
	Required    bool   `json:"required"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Validate checks if the FormField has valid data.
// PRE: FormField struct is populated
// POST: Returns nil if valid, error otherwise
func (f FormField) Validate() error {
	if strings.TrimSpace(f.Label) == "" {
		return ErrEmptyFieldLabel
	}
	for _, t := range ValidFieldTypes {
		if f.Type == t {
			return nil
		}
	}
	return ErrInvalidFieldType
}

// IsTextarea reports whether the field renders as a multi-line textarea.
func (f FormField) IsTextarea() bool {
	return f.Type == FieldTextarea
}

// Ribbon holds the colours of the "COMPLET" ribbon.
type Ribbon struct {
	Background string `json:"bg"`
	Text       string `json:"text"`
	Corners    string `json:"corners"`
}

// Settings is everything the planning page and the booking flow read from configuration.
type Settings struct {
	Categories          []course.Category `json:"categories"`
	Teachers            []teacher.Teacher `json:"teachers"`
	BookingWindow       BookingWindow     `json:"booking_window"`
	NoSpectacleText     string            `json:"no_spectacle_text"`
	TeacherStyle        string            `json:"teacher_display_style"`
	FormFields          []FormField       `json:"form_fields"`
	ClientEmailTemplate string            `json:"client_email_template,omitempty"`
	NotificationEmail   string            `json:"notification_email,omitempty"`
	Ribbon              Ribbon            `json:"ribbon"`
	StartTime           string            `json:"start_time"`
	EndTime             string            `json:"end_time"`
}

// Validate checks every part of the settings.
// PRE: Settings struct is populated
// POST: Returns nil if valid, the first error found otherwise
func (s *Settings) Validate() error {
	for i := range s.Categories {
		if err := s.Categories[i].Validate(); err != nil {
			return fmt.Errorf("category %q: %w", s.Categories[i].Slug, err)
		}
	}
	for i := range s.Teachers {
		if err := s.Teachers[i].Validate(); err != nil {
			return fmt.Errorf("teacher %d: %w", i, err)
		}
	}
	if err := s.BookingWindow.Validate(); err != nil {
		return err
	}
	if err := teacher.ValidateStyle(s.TeacherStyle); err != nil {
		return err
	}
	seen := make(map[string]bool, len(s.FormFields))
	for _, f := range s.FormFields {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("form field %q: %w", f.Label, err)
		}
		if seen[f.Label] {
			return fmt.Errorf("form field %q: %w", f.Label, ErrDuplicateField)
		}
		seen[f.Label] = true
	}
	if s.NotificationEmail != "" {
		if _, err := mail.ParseAddress(s.NotificationEmail); err != nil {
			return ErrInvalidEmail
		}
	}
	if err := s.validateHours(); err != nil {
		return err
	}
	return nil
}

func (s *Settings) validateHours() error {
	slots, err := schedule.GenerateTimeSlots(s.StartTime, s.EndTime)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		return ErrInvalidScheduleEnd
	}
	return nil
}

// TimeSlots returns the expected grid rows for the configured hours.
func (s *Settings) TimeSlots() ([]string, error) {
	return schedule.GenerateTimeSlots(s.StartTime, s.EndTime)
}

// BookingOpen reports whether trial bookings are accepted on day.
func (s *Settings) BookingOpen(day time.Time) bool {
	return s.BookingWindow.Contains(day)
}
