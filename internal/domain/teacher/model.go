package teacher

import (
	"errors"
	"strings"
)

// Display styles for the teacher badge on a course cell.
const (
	StylePhoto          = "photo"
	StyleFirstName      = "firstname"
	StyleFullName       = "fullname"
	StylePhotoFirstName = "photo_firstname"
)

// ValidStyles contains all valid display styles.
var ValidStyles = []string{StylePhoto, StyleFirstName, StyleFullName, StylePhotoFirstName}

// Domain errors
var (
	ErrEmptyFirstName = errors.New("teacher first name cannot be empty")
	ErrInvalidStyle   = errors.New("teacher display style must be one of: photo, firstname, fullname, photo_firstname")
)

// Teacher is one entry of the teacher roster.
// The first name is what appears in the schedule cells.
type Teacher struct {
	FirstName  string `json:"firstname"`
	LastName   string `json:"lastname"`
	PhotoURL   string `json:"photo_url,omitempty"`
	ProfileURL string `json:"profile_url,omitempty"`
}

// Validate checks if the Teacher has valid data.
// PRE: Teacher struct is populated
// POST: Returns nil if valid, error otherwise
func (t *Teacher) Validate() error {
	if strings.TrimSpace(t.FirstName) == "" {
		return ErrEmptyFirstName
	}
	return nil
}

// FullName returns "First Last", or just the first name when no last name is set.
func (t Teacher) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

// HasPhoto reports whether a photo URL is configured.
func (t Teacher) HasPhoto() bool {
	return strings.TrimSpace(t.PhotoURL) != ""
}

// ValidateStyle checks a display style value.
func ValidateStyle(style string) error {
	for _, s := range ValidStyles {
		if s == style {
			return nil
		}
	}
	return ErrInvalidStyle
}

// ResolveStyle returns the style actually rendered for t.
// Photo styles fall back to the first name when the teacher has no photo;
// an unknown style falls back to photo.
// PRE: none
// POST: Returns one of ValidStyles
func ResolveStyle(style string, t Teacher) string {
	if ValidateStyle(style) != nil {
		style = StylePhoto
	}
	if !t.HasPhoto() && (style == StylePhoto || style == StylePhotoFirstName) {
		return StyleFirstName
	}
	return style
}
