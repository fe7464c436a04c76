package settings_test

import (
	"errors"
	"testing"
	"time"

	"planning/internal/domain/course"
	"planning/internal/domain/settings"
	"planning/internal/domain/teacher"
)

// TestDefaults_Valid tests that the seeded settings pass validation.
func TestDefaults_Valid(t *testing.T) {
	s := settings.Defaults()
	if err := s.Validate(); err != nil {
		t.Fatalf("Defaults().Validate() = %v", err)
	}
	slots, err := s.TimeSlots()
	if err != nil || len(slots) != 50 {
		t.Errorf("TimeSlots() = %d slots, %v", len(slots), err)
	}
	if s.BookingOpen(time.Now()) {
		t.Error("default booking window should be closed")
	}
}

// TestBookingWindow_Contains tests inclusive date bounds.
func TestBookingWindow_Contains(t *testing.T) {
	w := settings.BookingWindow{Start: "2026-09-01", End: "2026-09-30"}
	tests := []struct {
		name string
		day  time.Time
		want bool
	}{
		{"before", time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC), false},
		{"first day", time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC), true},
		{"middle", time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC), true},
		{"last day", time.Date(2026, 9, 30, 23, 59, 0, 0, time.UTC), true},
		{"after", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.day); got != tt.want {
				t.Errorf("Contains() = %v, want %v", got, tt.want)
			}
		})
	}

	if (settings.BookingWindow{Start: "2026-09-01"}).Contains(time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)) {
		t.Error("half-open window reported open")
	}
}

// TestSettings_Validate tests rejection of each malformed part.
func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*settings.Settings)
		wantErr error
	}{
		{"bad window date", func(s *settings.Settings) {
			s.BookingWindow = settings.BookingWindow{Start: "01/09/2026", End: "2026-09-30"}
		}, settings.ErrInvalidWindowDate},
		{"inverted window", func(s *settings.Settings) {
			s.BookingWindow = settings.BookingWindow{Start: "2026-10-01", End: "2026-09-30"}
		}, settings.ErrWindowInverted},
		{"bad style", func(s *settings.Settings) { s.TeacherStyle = "avatar" }, teacher.ErrInvalidStyle},
		{"bad category color", func(s *settings.Settings) { s.Categories[0].Background = "red" }, course.ErrInvalidColor},
		{"teacher without first name", func(s *settings.Settings) {
			s.Teachers = []teacher.Teacher{{LastName: "Martin"}}
		}, teacher.ErrEmptyFirstName},
		{"bad field type", func(s *settings.Settings) { s.FormFields[0].Type = "checkbox" }, settings.ErrInvalidFieldType},
		{"empty field label", func(s *settings.Settings) { s.FormFields[0].Label = " " }, settings.ErrEmptyFieldLabel},
		{"duplicate field", func(s *settings.Settings) {
			s.FormFields = append(s.FormFields, settings.FormField{Type: settings.FieldText, Label: "Nom"})
		}, settings.ErrDuplicateField},
		{"bad notification email", func(s *settings.Settings) { s.NotificationEmail = "not-an-address" }, settings.ErrInvalidEmail},
		{"inverted hours", func(s *settings.Settings) { s.StartTime, s.EndTime = "20:00", "10:00" }, settings.ErrInvalidScheduleEnd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settings.Defaults()
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestDefaultCategories_MatchCourseTitles tests colour lookup for seeded families.
func TestDefaultCategories_MatchCourseTitles(t *testing.T) {
	cats := settings.DefaultCategories()
	tests := []struct {
		raw  string
		slug string
	}{
		{"Modern Jazz\nEnfants", "modern-jazz"},
		{"Barre au sol\n12:00 à 13:00", "barre"},
		{"scène ados", "scene"},
		{"Hip Hop", ""},
	}
	for _, tt := range tests {
		c, ok := course.CategoryFor(tt.raw, cats)
		if tt.slug == "" {
			if ok {
				t.Errorf("CategoryFor(%q) = %s, want none", tt.raw, c.Slug)
			}
			continue
		}
		if !ok || c.Slug != tt.slug {
			t.Errorf("CategoryFor(%q) = %s, %v; want %s", tt.raw, c.Slug, ok, tt.slug)
		}
	}
}
