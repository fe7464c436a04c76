package teacher_test

import (
	"testing"

	"planning/internal/domain/teacher"
)

// TestTeacher_Validate tests validation of Teacher.
func TestTeacher_Validate(t *testing.T) {
	tests := []struct {
		name    string
		teacher teacher.Teacher
		wantErr bool
	}{
		{name: "valid", teacher: teacher.Teacher{FirstName: "Claire", LastName: "Martin"}, wantErr: false},
		{name: "first name only", teacher: teacher.Teacher{FirstName: "Claire"}, wantErr: false},
		{name: "empty first name", teacher: teacher.Teacher{LastName: "Martin"}, wantErr: true},
		{name: "blank first name", teacher: teacher.Teacher{FirstName: "   "}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.teacher.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Teacher.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestTeacher_FullName tests full name assembly.
func TestTeacher_FullName(t *testing.T) {
	if got := (teacher.Teacher{FirstName: "Claire", LastName: "Martin"}).FullName(); got != "Claire Martin" {
		t.Errorf("FullName() = %q, want %q", got, "Claire Martin")
	}
	if got := (teacher.Teacher{FirstName: "Claire"}).FullName(); got != "Claire" {
		t.Errorf("FullName() = %q, want %q", got, "Claire")
	}
}

// TestResolveStyle tests the photo fallback rules.
func TestResolveStyle(t *testing.T) {
	withPhoto := teacher.Teacher{FirstName: "Claire", PhotoURL: "https://example.com/claire.jpg"}
	noPhoto := teacher.Teacher{FirstName: "Claire"}

	tests := []struct {
		name  string
		style string
		t     teacher.Teacher
		want  string
	}{
		{"photo with photo", teacher.StylePhoto, withPhoto, teacher.StylePhoto},
		{"photo without photo", teacher.StylePhoto, noPhoto, teacher.StyleFirstName},
		{"photo_firstname without photo", teacher.StylePhotoFirstName, noPhoto, teacher.StyleFirstName},
		{"photo_firstname with photo", teacher.StylePhotoFirstName, withPhoto, teacher.StylePhotoFirstName},
		{"fullname", teacher.StyleFullName, noPhoto, teacher.StyleFullName},
		{"unknown falls back to photo", "banner", withPhoto, teacher.StylePhoto},
		{"unknown without photo", "", noPhoto, teacher.StyleFirstName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := teacher.ResolveStyle(tt.style, tt.t); got != tt.want {
				t.Errorf("ResolveStyle(%q) = %q, want %q", tt.style, got, tt.want)
			}
		})
	}
}
