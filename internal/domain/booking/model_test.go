package booking_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"planning/internal/domain/booking"
	"planning/internal/domain/cart"
)

var today = time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC)

func sampleRequest() booking.Request {
	return booking.Request{
		Courses: []cart.Item{
			{Title: "Modern Jazz\nEnfants\nClaire\n10:00 à 11:00", Day: "LUNDI", Time: "de 10:00 à 11:00", Teacher: "Claire Martin"},
			{Title: "Classique\nlabel=\"Classique Enfants 2\"\nComplet", Day: "MERCREDI", Time: ""},
		},
		Form: map[string]string{
			"Nom":               "Durand",
			"Prénom":            "Alice",
			"Email":             "alice@example.com",
			"Tel":               "06 12 34 56 78",
			"Date de naissance": "2016-04-02",
		},
	}
}

// TestRequest_Validate tests payload validation.
func TestRequest_Validate(t *testing.T) {
	r := sampleRequest()
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*booking.Request)
		wantErr error
	}{
		{"no courses", func(r *booking.Request) { r.Courses = nil }, booking.ErrNoCourses},
		{"four courses", func(r *booking.Request) {
			r.Courses = append(r.Courses, r.Courses[0], r.Courses[1])
		}, booking.ErrTooManyCourses},
		{"course without day", func(r *booking.Request) { r.Courses[0].Day = "" }, cart.ErrEmptyDay},
		{"empty form", func(r *booking.Request) { r.Form = map[string]string{} }, booking.ErrEmptyForm},
		{"no email", func(r *booking.Request) { delete(r.Form, "Email") }, booking.ErrNoEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := sampleRequest()
			tt.mutate(&r)
			if err := r.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestRequest_FieldLookup tests the alternative email and phone keys.
func TestRequest_FieldLookup(t *testing.T) {
	r := booking.Request{Form: map[string]string{"E-mail": " a@b.fr ", "phone": "0102", "Téléphone": "0605"}}
	if got := r.Email(); got != "a@b.fr" {
		t.Errorf("Email() = %q", got)
	}
	if got := r.Phone(); got != "0605" {
		t.Errorf("Phone() = %q, want first key in priority order", got)
	}
	r.Form["email"] = "first@b.fr"
	if got := r.Email(); got != "first@b.fr" {
		t.Errorf("Email() = %q, want lower-case key first", got)
	}
}

// TestRequest_SheetRows tests the per-course row layout.
func TestRequest_SheetRows(t *testing.T) {
	r := sampleRequest()
	rows := r.SheetRows(today)
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	want := []string{"", "Durand", "Alice", "", "Modern Jazz Enfants Claire", "", "", "2016-04-02", "",
		"alice@example.com", "06 12 34 56 78", "", "", "", "", "", "2026-09-14", "", ""}
	got := rows[0]
	if len(got) != booking.SheetColumns {
		t.Fatalf("len(row) = %d, want %d", len(got), booking.SheetColumns)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if rows[1][4] != "Classique Enfants 2" {
		t.Errorf("label column = %q", rows[1][4])
	}
}

// TestRequest_CourseList tests the markdown course list.
func TestRequest_CourseList(t *testing.T) {
	r := sampleRequest()
	want := "* Modern Jazz Enfants Claire\n   * le lundi\n   * de 10:00 à 11:00\n   * avec Claire Martin\n\n" +
		"* Classique Enfants 2\n   * le mercredi\n\n"
	if got := r.CourseList(); got != want {
		t.Errorf("CourseList() =\n%q\nwant\n%q", got, want)
	}
}

// TestRequest_ClientMessage tests template substitution and the default message.
func TestRequest_ClientMessage(t *testing.T) {
	r := sampleRequest()

	msg := r.ClientMessage("Bonjour {prenom} {nom}, le {date} :\n{liste_cours}", "En Mouvance", today)
	if !strings.HasPrefix(msg.Body, "Bonjour Alice Durand, le 14/09/2026 :\n* Modern Jazz") {
		t.Errorf("Body = %q", msg.Body)
	}
	if msg.Subject != booking.ClientSubject+" - En Mouvance" {
		t.Errorf("Subject = %q", msg.Subject)
	}

	msg = r.ClientMessage("  ", "En Mouvance", today)
	for _, want := range []string{"Bonjour Alice,", "* Classique Enfants 2", "L'équipe En Mouvance"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("default body missing %q:\n%s", want, msg.Body)
		}
	}
}

// TestRequest_AdminMessage tests that every form field is listed.
func TestRequest_AdminMessage(t *testing.T) {
	r := sampleRequest()
	msg := r.AdminMessage()
	if msg.Subject != booking.AdminSubject {
		t.Errorf("Subject = %q", msg.Subject)
	}
	for k, v := range r.Form {
		if !strings.Contains(msg.Body, k+" : "+v) {
			t.Errorf("body missing field %s", k)
		}
	}
	if !strings.Contains(msg.Body, "avec Claire Martin") {
		t.Errorf("body missing teacher:\n%s", msg.Body)
	}
}
