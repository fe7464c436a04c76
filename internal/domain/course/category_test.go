package course_test

import (
	"errors"
	"testing"

	"planning/internal/domain/course"
)

var categories = []course.Category{
	{Slug: "modern", Name: "Modern", Background: "#112233", Text: "#ffffff"},
	{Slug: "modern-jazz", Name: "Modern Jazz", Background: "#445566", Text: "#ffffff"},
	{Slug: "classique", Name: "Classique", Background: "#778899", Text: "#000000", TooltipEnabled: true, TooltipText: "  Chaussons demandés "},
}

// TestCategoryFor tests prefix matching on the course title.
func TestCategoryFor(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantSlug string
		wantOK   bool
	}{
		{"longest prefix wins", "Modern Jazz\nEnfant", "modern-jazz", true},
		{"shorter prefix", "Modern Contemporain", "modern", true},
		{"case-insensitive", "CLASSIQUE\nAdo", "classique", true},
		{"label marker is the title", "Cours\nlabel=\"Classique Enfants\"", "classique", true},
		{"no match", "Hip Hop", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := course.CategoryFor(tt.raw, categories)
			if ok != tt.wantOK || got.Slug != tt.wantSlug {
				t.Errorf("CategoryFor() = (%q, %v), want (%q, %v)", got.Slug, ok, tt.wantSlug, tt.wantOK)
			}
		})
	}
}

// TestCategorySlug tests the first-word CSS modifier.
func TestCategorySlug(t *testing.T) {
	tests := []struct{ raw, want string }{
		{"Modern Jazz\nEnfant", "modern"},
		{"  Barre au sol", "barre"},
		{"label=\"Hip Hop Ado\" Street", "hip"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := course.CategorySlug(tt.raw); got != tt.want {
			t.Errorf("CategorySlug(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCategory_Tooltip(t *testing.T) {
	if got := categories[2].Tooltip(); got != "Chaussons demandés" {
		t.Errorf("Tooltip() = %q", got)
	}
	if got := categories[0].Tooltip(); got != "" {
		t.Errorf("disabled Tooltip() = %q, want empty", got)
	}
}

// TestCategory_Validate tests required fields and colour format.
func TestCategory_Validate(t *testing.T) {
	tests := []struct {
		name string
		cat  course.Category
		want error
	}{
		{"valid", categories[0], nil},
		{"missing slug", course.Category{Name: "Modern", Background: "#000000", Text: "#ffffff"}, course.ErrEmptyCategorySlug},
		{"missing name", course.Category{Slug: "modern", Background: "#000000", Text: "#ffffff"}, course.ErrEmptyCategoryName},
		{"short colour", course.Category{Slug: "modern", Name: "Modern", Background: "#000", Text: "#ffffff"}, course.ErrInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cat.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}
